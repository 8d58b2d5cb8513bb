package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wisatara.id/internal/content"
)

const sectionColumns = `tag, organization_id, kind, title, body, coalesce(image_path,''), items, enabled, updated_at`

func scanSection(row interface{ Scan(...any) error }) (content.Section, error) {
	var (
		sec   content.Section
		items []byte
	)
	err := row.Scan(&sec.Tag, &sec.OrganizationID, &sec.Kind, &sec.Title, &sec.Body, &sec.ImagePath, &items, &sec.Enabled, &sec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Section{}, content.ErrNotFound
	}
	if err != nil {
		return content.Section{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &sec.Items); err != nil {
			return content.Section{}, fmt.Errorf("decode items: %w", err)
		}
	}
	return sec, nil
}

// ensureSections lazily materializes the default section set for a tenant so
// reads never miss for a valid organization.
func (s *Store) ensureSections(ctx context.Context, organizationID string) error {
	now := time.Now().UTC()
	for _, def := range content.DefaultSections() {
		items, err := json.Marshal(def.Items)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, `
			insert into content_sections (tag, organization_id, kind, title, body, image_path, items, enabled, updated_at)
			values ($1, $2, $3, $4, $5, nullif($6,''), $7, $8, $9)
			on conflict (organization_id, tag) do nothing
		`, def.Tag, organizationID, def.Kind, def.Title, def.Body, def.ImagePath, items, def.Enabled, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Section(ctx context.Context, organizationID, tag string) (content.Section, error) {
	if err := s.ensureSections(ctx, organizationID); err != nil {
		return content.Section{}, err
	}
	return scanSection(s.db.QueryRowContext(ctx, `
		select `+sectionColumns+` from content_sections
		where organization_id = $1 and tag = $2
	`, organizationID, tag))
}

func (s *Store) Sections(ctx context.Context, organizationID string) ([]content.Section, error) {
	if err := s.ensureSections(ctx, organizationID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		select `+sectionColumns+` from content_sections
		where organization_id = $1
		order by tag
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]content.Section, 0)
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *Store) UpdateSection(ctx context.Context, organizationID, tag string, upd content.SectionUpdate) (content.Section, error) {
	sec, err := s.Section(ctx, organizationID, tag)
	if err != nil {
		return content.Section{}, err
	}
	if upd.Title != nil {
		sec.Title = *upd.Title
	}
	if upd.Body != nil {
		if sec.Kind != content.KindText {
			return content.Section{}, fmt.Errorf("%w: body only applies to text sections", content.ErrInvalidInput)
		}
		sec.Body = *upd.Body
	}
	if upd.Items != nil {
		if sec.Kind != content.KindList {
			return content.Section{}, fmt.Errorf("%w: items only apply to list sections", content.ErrInvalidInput)
		}
		sec.Items = append([]string(nil), upd.Items...)
	}
	if upd.Enabled != nil {
		sec.Enabled = *upd.Enabled
	}
	return s.saveSection(ctx, sec)
}

func (s *Store) AttachImage(ctx context.Context, organizationID, tag, path string) (content.Section, error) {
	if path == "" {
		return content.Section{}, fmt.Errorf("%w: image path required", content.ErrInvalidInput)
	}
	sec, err := s.Section(ctx, organizationID, tag)
	if err != nil {
		return content.Section{}, err
	}
	if sec.Kind != content.KindImage {
		return content.Section{}, fmt.Errorf("%w: section %q does not accept images", content.ErrInvalidInput, tag)
	}
	sec.ImagePath = path
	return s.saveSection(ctx, sec)
}

func (s *Store) DeleteItem(ctx context.Context, organizationID, tag string, index int) (content.Section, error) {
	sec, err := s.Section(ctx, organizationID, tag)
	if err != nil {
		return content.Section{}, err
	}
	if sec.Kind != content.KindList {
		return content.Section{}, fmt.Errorf("%w: section %q has no items", content.ErrInvalidInput, tag)
	}
	if index < 0 || index >= len(sec.Items) {
		return content.Section{}, fmt.Errorf("%w: item index %d out of range", content.ErrInvalidInput, index)
	}
	sec.Items = append(sec.Items[:index], sec.Items[index+1:]...)
	return s.saveSection(ctx, sec)
}

func (s *Store) saveSection(ctx context.Context, sec content.Section) (content.Section, error) {
	sec.UpdatedAt = time.Now().UTC()
	items, err := json.Marshal(sec.Items)
	if err != nil {
		return content.Section{}, fmt.Errorf("encode items: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		update content_sections
		set title = $3, body = $4, image_path = nullif($5,''), items = $6, enabled = $7, updated_at = $8
		where organization_id = $1 and tag = $2
	`, sec.OrganizationID, sec.Tag, sec.Title, sec.Body, sec.ImagePath, items, sec.Enabled, sec.UpdatedAt)
	if err != nil {
		return content.Section{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return content.Section{}, err
	}
	if n == 0 {
		return content.Section{}, content.ErrNotFound
	}
	return sec, nil
}
