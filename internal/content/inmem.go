package content

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemory implements Service over a mutex-guarded map. New organizations get
// a copy of the default section set on first access.
type InMemory struct {
	mu       sync.RWMutex
	sections map[string]map[string]*Section // org -> tag -> section
	now      func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		sections: make(map[string]map[string]*Section),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Test helper.
func (s *InMemory) WithClock(now func() time.Time) *InMemory {
	s.now = now
	return s
}

// DefaultSections is the section set every storefront starts from.
func DefaultSections() []Section {
	return []Section{
		{Tag: "hero-title", Kind: KindText, Title: "Jelajahi Nusantara", Body: "Sewa armada dan paket wisata terpercaya.", Enabled: true},
		{Tag: "hero-image", Kind: KindImage, Enabled: true},
		{Tag: "about", Kind: KindText, Title: "Tentang Kami", Enabled: true},
		{Tag: "facilities", Kind: KindList, Items: []string{"AC", "Reclining seat", "Audio video"}, Enabled: true},
		{Tag: "gallery", Kind: KindImage, Enabled: true},
		{Tag: "show-testimonials", Kind: KindToggle, Enabled: true},
		{Tag: "show-fleet-prices", Kind: KindToggle, Enabled: false},
	}
}

func (s *InMemory) forOrg(org string) map[string]*Section {
	m, ok := s.sections[org]
	if !ok {
		m = make(map[string]*Section)
		for _, def := range DefaultSections() {
			sec := def
			sec.OrganizationID = org
			sec.Items = append([]string(nil), def.Items...)
			sec.UpdatedAt = s.now()
			m[sec.Tag] = &sec
		}
		s.sections[org] = m
	}
	return m
}

func (s *InMemory) Section(ctx context.Context, organizationID, tag string) (Section, error) {
	if err := validateTag(tag); err != nil {
		return Section{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.forOrg(organizationID)[tag]
	if !ok {
		return Section{}, ErrNotFound
	}
	return copySection(sec), nil
}

func (s *InMemory) Sections(ctx context.Context, organizationID string) ([]Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.forOrg(organizationID)
	out := make([]Section, 0, len(m))
	for _, sec := range m {
		out = append(out, copySection(sec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (s *InMemory) UpdateSection(ctx context.Context, organizationID, tag string, upd SectionUpdate) (Section, error) {
	if err := validateTag(tag); err != nil {
		return Section{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.forOrg(organizationID)[tag]
	if !ok {
		return Section{}, ErrNotFound
	}
	if upd.Title != nil {
		sec.Title = *upd.Title
	}
	if upd.Body != nil {
		if sec.Kind != KindText {
			return Section{}, fmt.Errorf("%w: body only applies to text sections", ErrInvalidInput)
		}
		sec.Body = *upd.Body
	}
	if upd.Items != nil {
		if sec.Kind != KindList {
			return Section{}, fmt.Errorf("%w: items only apply to list sections", ErrInvalidInput)
		}
		sec.Items = append([]string(nil), upd.Items...)
	}
	if upd.Enabled != nil {
		sec.Enabled = *upd.Enabled
	}
	sec.UpdatedAt = s.now()
	return copySection(sec), nil
}

func (s *InMemory) AttachImage(ctx context.Context, organizationID, tag, path string) (Section, error) {
	if err := validateTag(tag); err != nil {
		return Section{}, err
	}
	if path == "" {
		return Section{}, fmt.Errorf("%w: image path required", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.forOrg(organizationID)[tag]
	if !ok {
		return Section{}, ErrNotFound
	}
	if sec.Kind != KindImage {
		return Section{}, fmt.Errorf("%w: section %q does not accept images", ErrInvalidInput, tag)
	}
	sec.ImagePath = path
	sec.UpdatedAt = s.now()
	return copySection(sec), nil
}

func (s *InMemory) DeleteItem(ctx context.Context, organizationID, tag string, index int) (Section, error) {
	if err := validateTag(tag); err != nil {
		return Section{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.forOrg(organizationID)[tag]
	if !ok {
		return Section{}, ErrNotFound
	}
	if sec.Kind != KindList {
		return Section{}, fmt.Errorf("%w: section %q has no items", ErrInvalidInput, tag)
	}
	if index < 0 || index >= len(sec.Items) {
		return Section{}, fmt.Errorf("%w: item index %d out of range", ErrInvalidInput, index)
	}
	sec.Items = append(sec.Items[:index], sec.Items[index+1:]...)
	sec.UpdatedAt = s.now()
	return copySection(sec), nil
}

func copySection(sec *Section) Section {
	out := *sec
	out.Items = append([]string(nil), sec.Items...)
	return out
}
