package content

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDefaultsMaterializePerOrganization(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	secs, err := s.Sections(ctx, "org-1")
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(secs) != len(DefaultSections()) {
		t.Fatalf("sections = %d, want %d", len(secs), len(DefaultSections()))
	}

	// Editing org-1 must not bleed into org-2.
	title := "Wisata Bali"
	if _, err := s.UpdateSection(ctx, "org-1", "hero-title", SectionUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	other, err := s.Section(ctx, "org-2", "hero-title")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if other.Title == title {
		t.Fatal("edit leaked across organizations")
	}
}

func TestUpdateSectionKindRules(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	body := "text"
	if _, err := s.UpdateSection(ctx, "org-1", "facilities", SectionUpdate{Body: &body}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("body on list section err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.UpdateSection(ctx, "org-1", "hero-title", SectionUpdate{Items: []string{"x"}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("items on text section err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.UpdateSection(ctx, "org-1", "no-such-tag", SectionUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tag err = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateSection(ctx, "org-1", "Hero Title!", SectionUpdate{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad tag err = %v, want ErrInvalidInput", err)
	}

	enabled := false
	sec, err := s.UpdateSection(ctx, "org-1", "show-testimonials", SectionUpdate{Enabled: &enabled})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if sec.Enabled {
		t.Fatal("toggle not applied")
	}
}

func TestDeleteItem(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	sec, err := s.DeleteItem(ctx, "org-1", "facilities", 1)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	want := []string{"AC", "Audio video"}
	if len(sec.Items) != 2 || sec.Items[0] != want[0] || sec.Items[1] != want[1] {
		t.Fatalf("items = %v, want %v", sec.Items, want)
	}

	if _, err := s.DeleteItem(ctx, "org-1", "facilities", 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("out-of-range err = %v, want ErrInvalidInput", err)
	}
	if _, err := s.DeleteItem(ctx, "org-1", "hero-title", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("non-list err = %v, want ErrInvalidInput", err)
	}
}

func TestAttachImage(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	sec, err := s.AttachImage(ctx, "org-1", "hero-image", "org-1/x.png")
	if err != nil {
		t.Fatalf("AttachImage: %v", err)
	}
	if sec.ImagePath != "org-1/x.png" {
		t.Fatalf("image path = %q", sec.ImagePath)
	}
	if _, err := s.AttachImage(ctx, "org-1", "hero-title", "org-1/x.png"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("attach to text section err = %v, want ErrInvalidInput", err)
	}
}

func TestUploadsRoundTrip(t *testing.T) {
	u := NewUploads(t.TempDir())

	rel, err := u.Save("org-1", "hero.PNG", strings.NewReader("fake-png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(rel, "org-1/") || !strings.HasSuffix(rel, ".png") {
		t.Fatalf("rel path = %q", rel)
	}

	f, err := u.Open(rel)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := io.ReadAll(f)
	f.Close()
	if string(b) != "fake-png" {
		t.Fatalf("content = %q", b)
	}

	if _, err := u.Save("org-1", "script.sh", strings.NewReader("#!/bin/sh")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad ext err = %v, want ErrInvalidInput", err)
	}
	if _, err := u.Open("../outside"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("traversal err = %v, want ErrNotFound", err)
	}
	if err := u.Remove(rel); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := u.Open(rel); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after remove err = %v, want ErrNotFound", err)
	}
}
