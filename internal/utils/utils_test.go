package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	got := Words("Hello, WORLD! it's snake_case #Go2024 ÉCOLE")
	want := []string{"hello", "world", "it", "s", "snake_case", "go2024", "école"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Words = %v, want %v", got, want)
	}
	if Words("") != nil || len(Words(" ... ")) != 0 {
		t.Fatalf("expected no words for blank input")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("Truncate zero = %q", got)
	}
}

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.json")
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := SafeWriteFile(p, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected content: %q", got)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
