package schedule

// SampleIndex returns the demo schedule used until the scheduling workflow
// feeds real assignments. Entries per day keep their listed order.
func SampleIndex() *Index {
	ix := NewIndex()

	ix.Add("2025-10-14", Entry{
		ID:          "sch-001",
		ArmadaName:  "Hiace Premio 01",
		OrderDetail: "ORD-2025-0147 airport pickup",
		CrewName:    "Dedi Kurniawan",
		Destination: "Bandara Ngurah Rai",
		Time:        "06:30",
		Status:      StatusCompleted,
	})

	ix.Add("2025-10-15", Entry{
		ID:          "sch-002",
		ArmadaName:  "Hiace Premio 01",
		OrderDetail: "ORD-2025-0151 Ubud day tour",
		CrewName:    "Dedi Kurniawan",
		Destination: "Ubud",
		Time:        "08:00",
		Status:      StatusScheduled,
	})
	ix.Add("2025-10-15", Entry{
		ID:          "sch-003",
		ArmadaName:  "Bus Pariwisata 03",
		OrderDetail: "ORD-2025-0149 temple circuit",
		CrewName:    "Made Sutrisna",
		Destination: "Tanah Lot",
		Time:        "09:30",
		Status:      StatusScheduled,
	})
	ix.Add("2025-10-15", Entry{
		ID:          "sch-004",
		ArmadaName:  "Elf Long 02",
		OrderDetail: "ORD-2025-0152 hotel transfer",
		CrewName:    "Rizki Pratama",
		Destination: "Nusa Dua",
		Time:        "14:00",
		Status:      StatusInProgress,
	})

	ix.Add("2025-10-18", Entry{
		ID:          "sch-005",
		ArmadaName:  "Bus Pariwisata 03",
		OrderDetail: "ORD-2025-0155 Kintamani tour",
		CrewName:    "Made Sutrisna",
		Destination: "Kintamani",
		Time:        "07:00",
		Status:      StatusScheduled,
	})

	return ix
}
