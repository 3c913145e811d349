package session

import (
	"errors"
	"os"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	saved := &Session{Token: "tok-1", UserID: "u-1", Username: "alice"}
	if err := Save(dir, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Token != "tok-1" || loaded.UserID != "u-1" || loaded.Username != "alice" {
		t.Errorf("got %+v", loaded)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestLoadIncomplete(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte(`{"token":"","user_id":""}`), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn for empty session, got %v", err)
	}
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &Session{Token: "tok", UserID: "u"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(Path(dir))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &Session{Token: "tok", UserID: "u"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Clear(dir); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn after Clear, got %v", err)
	}

	// Clearing again is not an error.
	if err := Clear(dir); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
