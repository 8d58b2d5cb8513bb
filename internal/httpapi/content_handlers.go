package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"wisatara.id/internal/audit"
	"wisatara.id/internal/content"
)

func (a *API) handleSectionsCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	sections, err := a.content.Sections(r.Context(), user.OrganizationID)
	if err != nil {
		handleContentError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, sections)
}

func (a *API) handleSectionResource(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOrganization(w, r)
	if !ok {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/content/sections/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		a.sectionByTag(w, r, user.OrganizationID, parts[0])
	case len(parts) == 2 && parts[1] == "image":
		a.sectionImage(w, r, user.OrganizationID, parts[0])
	case len(parts) == 3 && parts[1] == "items":
		a.sectionItem(w, r, user.OrganizationID, parts[0], parts[2])
	default:
		respondError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) sectionByTag(w http.ResponseWriter, r *http.Request, orgID, tag string) {
	switch r.Method {
	case http.MethodGet:
		sec, err := a.content.Section(r.Context(), orgID, tag)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, sec)
	case http.MethodPut:
		var upd content.SectionUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		sec, err := a.content.UpdateSection(r.Context(), orgID, tag, upd)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "content.section_update", map[string]any{"tag": tag})
		respondData(w, r, http.StatusOK, sec)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

// sectionImage takes a multipart form with the file under "image"; any other
// form fields ride along as metadata and are ignored today.
func (a *API) sectionImage(w http.ResponseWriter, r *http.Request, orgID, tag string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if a.uploads == nil {
		respondError(w, r, http.StatusServiceUnavailable, "uploads disabled")
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	// Validate the target section before touching the filesystem.
	sec, err := a.content.Section(r.Context(), orgID, tag)
	if err != nil {
		handleContentError(w, r, err)
		return
	}
	if sec.Kind != content.KindImage {
		respondError(w, r, http.StatusBadRequest, "section does not accept images")
		return
	}

	path, err := a.uploads.Save(orgID, header.Filename, file)
	if err != nil {
		handleContentError(w, r, err)
		return
	}
	old := sec.ImagePath
	sec, err = a.content.AttachImage(r.Context(), orgID, tag, path)
	if err != nil {
		_ = a.uploads.Remove(path)
		handleContentError(w, r, err)
		return
	}
	if old != "" && old != path {
		_ = a.uploads.Remove(old)
	}
	_ = audit.LogEvent(r.Context(), "content.image_upload", map[string]any{"tag": tag, "path": path})
	respondData(w, r, http.StatusCreated, sec)
}

func (a *API) sectionItem(w http.ResponseWriter, r *http.Request, orgID, tag, rawIndex string) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "item index must be an integer")
		return
	}
	sec, err := a.content.DeleteItem(r.Context(), orgID, tag, index)
	if err != nil {
		handleContentError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "content.item_delete", map[string]any{"tag": tag, "index": index})
	respondData(w, r, http.StatusOK, sec)
}

// handleStorefront serves the public read side: /v1/storefront/{code}/...
// addressed by organization code, no token required.
func (a *API) handleStorefront(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/storefront/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		respondError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	org, err := a.auth.OrganizationByCode(r.Context(), parts[0])
	if err != nil {
		handleAuthError(w, r, err)
		return
	}

	switch parts[1] {
	case "sections":
		sections, err := a.content.Sections(r.Context(), org.ID)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		// Disabled sections are hidden from the public storefront.
		visible := sections[:0]
		for _, sec := range sections {
			if sec.Enabled {
				visible = append(visible, sec)
			}
		}
		respondData(w, r, http.StatusOK, visible)
	case "armada":
		items, err := a.catalog.ListArmada(r.Context(), org.ID)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, items)
	case "tour-packages":
		items, err := a.catalog.ListTourPackages(r.Context(), org.ID)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		respondData(w, r, http.StatusOK, items)
	default:
		respondError(w, r, http.StatusNotFound, "resource not found")
	}
}
