package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/blogsmith/blogsmith/internal/api"
)

func TestSectionRoundTrip(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if err := s.PutSection("u-1", "t-1", api.SectionTitle, "Hello"); err != nil {
		t.Fatalf("PutSection: %v", err)
	}
	if err := s.PutSection("u-1", "t-1", api.SectionBody, "<p>Body</p>"); err != nil {
		t.Fatalf("PutSection: %v", err)
	}

	secs, err := s.GetSections("u-1", "t-1")
	if err != nil {
		t.Fatalf("GetSections: %v", err)
	}
	if secs.Title != "Hello" {
		t.Errorf("title: got %q", secs.Title)
	}
	if secs.Introduction != "" {
		t.Errorf("expected empty introduction, got %q", secs.Introduction)
	}
	if secs.Body != "<p>Body</p>" {
		t.Errorf("body: got %q", secs.Body)
	}
}

func TestSectionUpsert(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	s.PutSection("u-1", "t-1", api.SectionTitle, "v1")
	if err := s.PutSection("u-1", "t-1", api.SectionTitle, "v2"); err != nil {
		t.Fatalf("PutSection upsert: %v", err)
	}

	secs, err := s.GetSections("u-1", "t-1")
	if err != nil {
		t.Fatalf("GetSections: %v", err)
	}
	if secs.Title != "v2" {
		t.Errorf("expected latest write, got %q", secs.Title)
	}
}

func TestGetSectionsNoDraft(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if _, err := s.GetSections("u-1", "missing"); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestPageRoundTrip(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	if _, err := s.GetPage("u-1", "t-1"); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}

	if err := s.PutPage("u-1", "t-1", "<!DOCTYPE html><p>v1</p>"); err != nil {
		t.Fatalf("PutPage: %v", err)
	}
	if err := s.PutPage("u-1", "t-1", "<!DOCTYPE html><p>v2</p>"); err != nil {
		t.Fatalf("PutPage upsert: %v", err)
	}

	html, err := s.GetPage("u-1", "t-1")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if html != "<!DOCTYPE html><p>v2</p>" {
		t.Errorf("got %q", html)
	}
}

func TestUserIsolation(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	s.PutPage("u-1", "t-1", "<p>mine</p>")
	if _, err := s.GetPage("u-2", "t-1"); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft for other user, got %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "drafts.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutSections("u-1", "t-1", api.Sections{Title: "persisted"}); err != nil {
		t.Fatalf("PutSections: %v", err)
	}
	s.Close()

	// Reopen and read back.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	secs, err := s.GetSections("u-1", "t-1")
	if err != nil {
		t.Fatalf("GetSections: %v", err)
	}
	if secs.Title != "persisted" {
		t.Errorf("got %q", secs.Title)
	}
}
