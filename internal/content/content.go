// Package content manages the storefront page sections a partner can edit
// from the console: hero copy, gallery images, facility lists and feature
// toggles, each addressed by a stable tag.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("content: not found")
	ErrInvalidInput = errors.New("content: invalid input")
)

// Section kinds.
const (
	KindText   = "text"
	KindImage  = "image"
	KindList   = "list"
	KindToggle = "toggle"
)

// Section is one editable region of the storefront. Exactly one of the
// payload fields is meaningful for a given kind.
type Section struct {
	Tag            string    `json:"tag"`
	OrganizationID string    `json:"organization_id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title,omitempty"`
	Body           string    `json:"body,omitempty"`
	ImagePath      string    `json:"image_path,omitempty"`
	Items          []string  `json:"items,omitempty"`
	Enabled        bool      `json:"enabled"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SectionUpdate carries partial edits; nil fields are left untouched.
type SectionUpdate struct {
	Title   *string  `json:"title,omitempty"`
	Body    *string  `json:"body,omitempty"`
	Items   []string `json:"items,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// Service defines the section operations exposed over the API.
type Service interface {
	Section(ctx context.Context, organizationID, tag string) (Section, error)
	Sections(ctx context.Context, organizationID string) ([]Section, error)
	UpdateSection(ctx context.Context, organizationID, tag string, upd SectionUpdate) (Section, error)
	// AttachImage records the stored path of an uploaded image on an image
	// section. The HTTP layer owns writing the file itself.
	AttachImage(ctx context.Context, organizationID, tag, path string) (Section, error)
	// DeleteItem removes one entry from a list section by index.
	DeleteItem(ctx context.Context, organizationID, tag string, index int) (Section, error)
}

func validKind(kind string) bool {
	switch kind {
	case KindText, KindImage, KindList, KindToggle:
		return true
	}
	return false
}

func validateTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag required", ErrInvalidInput)
	}
	for _, r := range tag {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return fmt.Errorf("%w: tag must be lowercase letters, digits and dashes", ErrInvalidInput)
	}
	return nil
}
