package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "test1.txt")
	file2 := filepath.Join(tmpDir, "test2.txt")
	file3 := filepath.Join(tmpDir, "test1_copy.txt")

	os.WriteFile(file1, []byte("Hello, World!"), 0644)
	os.WriteFile(file2, []byte("Different content"), 0644)
	os.WriteFile(file3, []byte("Hello, World!"), 0644) // Same as file1

	hash1, err := ComputeHash(file1)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	hash2, err := ComputeHash(file2)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	hash3, err := ComputeHash(file3)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	// Same content = same hash
	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}

	// Different content = different hash
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}

	// Hash should be 32 hex chars
	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashSmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	smallFile := filepath.Join(tmpDir, "small.txt")
	os.WriteFile(smallFile, []byte("tiny"), 0644)

	hash, err := ComputeHash(smallFile)
	if err != nil {
		t.Fatalf("ComputeHash failed on small file: %v", err)
	}

	if len(hash) != 32 {
		t.Errorf("Hash should be 32 chars even for small files, got %d", len(hash))
	}
}

func TestStore(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	testHash := "abcdef1234567890abcdef1234567890"

	// Get reports missing state for an unknown hash
	if _, ok := store.Get(testHash); ok {
		t.Error("Expected no state for unknown hash")
	}

	// Set/Get roundtrip
	if err := store.Set(testHash, BookState{Progress: 0.42, WPM: 375}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	st, ok := store.Get(testHash)
	if !ok {
		t.Fatal("Expected state after Set")
	}
	if st.Progress != 0.42 || st.WPM != 375 {
		t.Errorf("Got %+v, want progress 0.42 wpm 375", st)
	}

	// Progress is clamped to [0, 1]
	store.Set(testHash, BookState{Progress: 1.7})
	st, _ = store.Get(testHash)
	if st.Progress != 1.0 {
		t.Errorf("Expected clamped progress 1.0, got %v", st.Progress)
	}

	// Clear removes entry
	if err := store.Clear(testHash); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Get(testHash); ok {
		t.Error("Expected no state after clear")
	}
}

func TestStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	testHash := "abcdef1234567890abcdef1234567890"

	store1, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store1.Set(testHash, BookState{Progress: 0.87, WPM: 450})

	// A new store instance should load the persisted data
	store2, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	st, ok := store2.Get(testHash)
	if !ok || st.Progress != 0.87 || st.WPM != 450 {
		t.Errorf("Expected persisted state, got %+v (ok=%v)", st, ok)
	}
}
