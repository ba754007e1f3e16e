package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.md")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back = %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("not indented: %s", b)
	}
	if _, err := PrettyJSON(make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
