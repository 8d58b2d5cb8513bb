package catalog

// Static lookup data. The Postgres store seeds the same rows via migrations;
// keeping a copy here lets the in-memory catalog serve lookups without a
// database.

func seedArmadaTypes() []MetadataItem {
	return []MetadataItem{
		{ID: "at-01", Name: "Bus Besar"},
		{ID: "at-02", Name: "Bus Medium"},
		{ID: "at-03", Name: "Minibus"},
		{ID: "at-04", Name: "Hiace"},
		{ID: "at-05", Name: "MPV"},
	}
}

func seedArmadaBodies() []MetadataItem {
	return []MetadataItem{
		{ID: "ab-01", Name: "Adiputro Jetbus"},
		{ID: "ab-02", Name: "Laksana Legacy"},
		{ID: "ab-03", Name: "Tentrem Avante"},
		{ID: "ab-04", Name: "Morodadi Prima"},
	}
}

func seedArmadaEngines() []MetadataItem {
	return []MetadataItem{
		{ID: "ae-01", Name: "Hino RK8"},
		{ID: "ae-02", Name: "Mercedes-Benz OH 1626"},
		{ID: "ae-03", Name: "Scania K360"},
		{ID: "ae-04", Name: "Isuzu NQR"},
	}
}

func seedProvinces() []Province {
	return []Province{
		{ID: "pr-31", Name: "DKI Jakarta"},
		{ID: "pr-32", Name: "Jawa Barat"},
		{ID: "pr-33", Name: "Jawa Tengah"},
		{ID: "pr-34", Name: "DI Yogyakarta"},
		{ID: "pr-35", Name: "Jawa Timur"},
		{ID: "pr-51", Name: "Bali"},
	}
}

func seedCities() []City {
	return []City{
		{ID: "ct-3171", ProvinceID: "pr-31", Name: "Jakarta Pusat"},
		{ID: "ct-3173", ProvinceID: "pr-31", Name: "Jakarta Selatan"},
		{ID: "ct-3273", ProvinceID: "pr-32", Name: "Bandung"},
		{ID: "ct-3204", ProvinceID: "pr-32", Name: "Bogor"},
		{ID: "ct-3374", ProvinceID: "pr-33", Name: "Semarang"},
		{ID: "ct-3302", ProvinceID: "pr-33", Name: "Banyumas"},
		{ID: "ct-3471", ProvinceID: "pr-34", Name: "Yogyakarta"},
		{ID: "ct-3578", ProvinceID: "pr-35", Name: "Surabaya"},
		{ID: "ct-3507", ProvinceID: "pr-35", Name: "Malang"},
		{ID: "ct-5171", ProvinceID: "pr-51", Name: "Denpasar"},
		{ID: "ct-5108", ProvinceID: "pr-51", Name: "Buleleng"},
	}
}
