package db

import (
	"os"
	"testing"
	"time"
)

func TestSetAndGetItem(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "cef-test")
	defer os.RemoveAll(tmpDir)

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	// Missing key
	_, ok, err := store.GetItem("cefBookmarks")
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if ok {
		t.Error("Expected ok=false for missing key")
	}

	if err := store.SetItem("cefBookmarks", `["a|2025-01-01|09:00"]`); err != nil {
		t.Fatalf("Failed to set item: %v", err)
	}

	// Overwrite in full
	if err := store.SetItem("cefBookmarks", `[]`); err != nil {
		t.Fatalf("Failed to set item: %v", err)
	}

	got, ok, err := store.GetItem("cefBookmarks")
	if err != nil || !ok {
		t.Fatalf("Expected stored value, got ok=%v err=%v", ok, err)
	}
	if got != "[]" {
		t.Errorf("Expected [], got %s", got)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "cef-test")
	defer os.RemoveAll(tmpDir)

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.SetItem("theme", "dark")
	store.Close()

	store, err = NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	got, ok, _ := store.GetItem("theme")
	if !ok || got != "dark" {
		t.Errorf("Expected dark after reopen, got %q (ok=%v)", got, ok)
	}
}

func TestUpdatedAt(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "cef-test")
	defer os.RemoveAll(tmpDir)

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.UpdatedAt("cefBookmarks"); err != nil || ok {
		t.Fatalf("Expected ok=false for missing key, got ok=%v err=%v", ok, err)
	}

	before := time.Now().Add(-time.Second)
	store.SetItem("cefBookmarks", "[]")

	at, ok, err := store.UpdatedAt("cefBookmarks")
	if err != nil || !ok {
		t.Fatalf("Expected updated_at, got ok=%v err=%v", ok, err)
	}
	if at.Before(before) || at.After(time.Now().Add(time.Second)) {
		t.Errorf("Expected updated_at near now, got %v", at)
	}
}
