package testsupport

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteNFO writes an indented movie NFO with the given id and tags to path,
// creating parent directories as needed.
func WriteNFO(t testing.TB, path, id string, tags ...string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\" ?>\n")
	b.WriteString("<movie>\n")
	b.WriteString("  <title>Test Movie</title>\n")
	b.WriteString("  <id>" + id + "</id>\n")
	for _, tag := range tags {
		b.WriteString("  <tag>" + tag + "</tag>\n")
	}
	b.WriteString("</movie>\n")
	WriteFile(t, path, b.String())
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Checksum returns the hex SHA-256 of the file at path.
func Checksum(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
