package buildcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCachePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"/project/docs/openapi.json", "/project/docs/.typeschema-cache"},
		{"docs/openapi.yaml", "docs/.typeschema-cache"},
		{"openapi.json", ".typeschema-cache"},
		{"", ""},
	}
	for _, tt := range tests {
		got := CachePath(tt.output)
		if got != tt.want {
			t.Errorf("CachePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	// Hash of existing file
	path := filepath.Join(dir, "test.txt")
	os.WriteFile(path, []byte("hello world"), 0644)
	hash1 := HashFile(path)
	if hash1 == "" {
		t.Fatal("HashFile returned empty for existing file")
	}

	// Same content = same hash
	path2 := filepath.Join(dir, "test2.txt")
	os.WriteFile(path2, []byte("hello world"), 0644)
	if hash2 := HashFile(path2); hash1 != hash2 {
		t.Errorf("same content produced different hashes: %q vs %q", hash1, hash2)
	}

	// Different content = different hash
	path3 := filepath.Join(dir, "test3.txt")
	os.WriteFile(path3, []byte("hello world!"), 0644)
	if hash3 := HashFile(path3); hash1 == hash3 {
		t.Error("different content produced same hash")
	}

	// Non-existent file = empty string
	if hash4 := HashFile(filepath.Join(dir, "nonexistent")); hash4 != "" {
		t.Errorf("HashFile returned %q for non-existent file, want empty", hash4)
	}
}

func TestHashValue(t *testing.T) {
	type settings struct {
		Output string
		Strict bool
		Labels map[string]string
	}
	a, err := HashValue(settings{Output: "a.json", Labels: map[string]string{"x": "1", "y": "2", "z": "3"}})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		b, _ := HashValue(settings{Output: "a.json", Labels: map[string]string{"z": "3", "y": "2", "x": "1"}})
		if a != b {
			t.Fatal("equal values must hash the same regardless of map order")
		}
	}
	c, _ := HashValue(settings{Output: "a.json", Strict: true})
	if a == c {
		t.Error("different values produced same hash")
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)

	// Load non-existent = nil
	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for non-existent file")
	}

	original := New("in123", "abc123", []string{"/foo/openapi.json"})
	if err := Save(cachePath, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(cachePath)
	if loaded == nil {
		t.Fatal("Load returned nil after Save")
	}
	if loaded.V != original.V {
		t.Errorf("V = %d, want %d", loaded.V, original.V)
	}
	if loaded.InputHash != original.InputHash {
		t.Errorf("InputHash = %q, want %q", loaded.InputHash, original.InputHash)
	}
	if loaded.ConfigHash != original.ConfigHash {
		t.Errorf("ConfigHash = %q, want %q", loaded.ConfigHash, original.ConfigHash)
	}
	if len(loaded.Outputs) != 1 || loaded.Outputs[0] != "/foo/openapi.json" {
		t.Errorf("Outputs = %v", loaded.Outputs)
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)
	os.WriteFile(cachePath, []byte("not json at all {{{"), 0644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for corrupted JSON")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)
	os.WriteFile(cachePath, []byte(""), 0644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for empty file")
	}
}

func TestIsValid_NilCache(t *testing.T) {
	var c *Cache
	if c.IsValid("in", "cfg") {
		t.Error("nil cache should not be valid")
	}
}

func TestIsValid_SchemaVersionMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion + 1, InputHash: "in", ConfigHash: "abc"}
	if c.IsValid("in", "abc") {
		t.Error("cache with wrong schema version should not be valid")
	}
}

func TestIsValid_InputHashMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion, InputHash: "old", ConfigHash: "abc"}
	if c.IsValid("new", "abc") {
		t.Error("cache with mismatched input hash should not be valid")
	}
}

func TestIsValid_UnreadableInput(t *testing.T) {
	// HashFile returns "" for a missing input; that must never count as a hit.
	c := &Cache{V: SchemaVersion, InputHash: "", ConfigHash: "abc"}
	if c.IsValid("", "abc") {
		t.Error("an empty input hash should not be valid")
	}
}

func TestIsValid_ConfigHashMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion, InputHash: "in", ConfigHash: "old-hash"}
	if c.IsValid("in", "new-hash") {
		t.Error("cache with mismatched config hash should not be valid")
	}
}

func TestIsValid_OutputFileMissing(t *testing.T) {
	dir := t.TempDir()
	existingFile := filepath.Join(dir, "exists.json")
	os.WriteFile(existingFile, []byte("{}"), 0644)

	c := &Cache{
		V:          SchemaVersion,
		InputHash:  "in",
		ConfigHash: "abc",
		Outputs:    []string{existingFile, filepath.Join(dir, "missing.json")},
	}
	if c.IsValid("in", "abc") {
		t.Error("cache with missing output file should not be valid")
	}
}

func TestIsValid_AllChecksPass(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "openapi.json")
	os.WriteFile(output, []byte("{}"), 0644)

	c := New("in", "correct-hash", []string{output})
	if !c.IsValid("in", "correct-hash") {
		t.Error("cache with all checks passing should be valid")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)

	os.WriteFile(cachePath, []byte(`{"v":1}`), 0644)
	Delete(cachePath)
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Error("cache file should not exist after delete")
	}

	// Deleting a missing file must not panic
	Delete(filepath.Join(dir, "nonexistent"))
}

func TestSaveAtomicity(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)

	if err := Save(cachePath, New("in", "hash", nil)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(cachePath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not exist after successful save")
	}
	if Load(cachePath) == nil {
		t.Fatal("failed to load after atomic save")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nestedPath := filepath.Join(dir, "sub", "dir", FileName)

	if err := Save(nestedPath, New("in", "hash", nil)); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}
	if Load(nestedPath) == nil {
		t.Fatal("failed to load from nested directory")
	}
}

func TestRoundTripWithRealFiles(t *testing.T) {
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "types.json")
	os.WriteFile(inputPath, []byte(`{"declarations":{}}`), 0644)
	inputHash := HashFile(inputPath)

	configHash, err := HashValue(map[string]string{"output": "docs/openapi.json"})
	if err != nil {
		t.Fatal(err)
	}

	outputPath := filepath.Join(dir, "docs", "openapi.json")
	os.MkdirAll(filepath.Dir(outputPath), 0755)
	os.WriteFile(outputPath, []byte(`{"openapi":"3.0.3"}`), 0644)

	cachePath := CachePath(outputPath)
	if err := Save(cachePath, New(inputHash, configHash, []string{outputPath})); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Scenario 1: Everything unchanged → valid
	loaded := Load(cachePath)
	if !loaded.IsValid(inputHash, configHash) {
		t.Error("cache should be valid when nothing changed")
	}

	// Scenario 2: Type graph changed → invalid
	os.WriteFile(inputPath, []byte(`{"declarations":{"A":{"kind":"any"}}}`), 0644)
	if loaded.IsValid(HashFile(inputPath), configHash) {
		t.Error("cache should be invalid when the input changed")
	}

	// Scenario 3: Output file deleted → invalid
	os.Remove(outputPath)
	if loaded.IsValid(inputHash, configHash) {
		t.Error("cache should be invalid when output file deleted")
	}
}
