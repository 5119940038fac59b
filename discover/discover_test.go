package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSFilesSkipsGitignoredAndNodeModules(t *testing.T) {
	root, err := os.MkdirTemp("", "discovertest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(root)

	write := func(rel, content string) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write(".gitignore", "ignored.js\n")
	write("A.js", "exports.a = 1;")
	write("ignored.js", "exports.b = 1;")
	write("node_modules/dep/index.js", "exports.c = 1;")
	write("notes.txt", "not js")

	files, err := JSFiles(root)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		names = append(names, filepath.ToSlash(rel))
	}

	want := "A.js"
	found := false
	for _, n := range names {
		if n == want {
			found = true
		}
		if n == "ignored.js" {
			t.Errorf("ignored.js should have been excluded by .gitignore, got %v", names)
		}
		if filepath.Dir(n) == "node_modules/dep" {
			t.Errorf("node_modules should be skipped, got %v", names)
		}
	}
	if !found {
		t.Errorf("expected %s in discovered files, got %v", want, names)
	}
}
