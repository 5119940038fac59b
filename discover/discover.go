// Package discover finds bundler input files under a directory tree,
// honoring .gitignore the way a developer would expect.
package discover

import (
	"os"
	"path/filepath"
	"strings"
)

// gitignoreFilter answers whether a path should be skipped, based on the
// ignore/negation patterns of one .gitignore file.
type gitignoreFilter struct {
	rootDir          string
	ignorePatterns   []string
	negationPatterns []string
}

func newGitignoreFilter(rootDir string) *gitignoreFilter {
	f := &gitignoreFilter{rootDir: rootDir}
	f.load()
	return f
}

func (f *gitignoreFilter) load() {
	file, err := os.Open(filepath.Join(f.rootDir, ".gitignore"))
	if err != nil {
		return
	}
	defer file.Close()

	data, err := os.ReadFile(file.Name())
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			f.negationPatterns = append(f.negationPatterns, strings.TrimPrefix(line, "!"))
		} else {
			f.ignorePatterns = append(f.ignorePatterns, line)
		}
	}
}

func (f *gitignoreFilter) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(f.rootDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	ignored := false
	for _, p := range f.ignorePatterns {
		if matchPattern(p, rel) {
			ignored = true
			break
		}
	}
	if !ignored {
		return false
	}
	for _, p := range f.negationPatterns {
		if matchPattern(p, rel) {
			return false
		}
	}
	return true
}

func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")
		if path == pattern || strings.HasPrefix(path, pattern+"/") {
			return true
		}
		for _, part := range strings.Split(path, "/") {
			if part == pattern {
				return true
			}
		}
		return false
	}

	pattern = strings.TrimPrefix(pattern, "/")
	parts := strings.Split(path, "/")
	if matchSegment(pattern, path) {
		return true
	}
	for i := range parts {
		if matchSegment(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	if !strings.Contains(pattern, "/") {
		for _, part := range parts {
			if matchSegment(pattern, part) {
				return true
			}
		}
	}
	return false
}

func matchSegment(pattern, text string) bool {
	if pattern == text {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(text, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(text, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(text, pattern[:len(pattern)-1])
	}
	return false
}

var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// JSFiles walks root and returns every .js file not excluded by .gitignore
// or one of the conventional build/dependency directories.
func JSFiles(root string) ([]string, error) {
	filter := newGitignoreFilter(root)
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if filter.shouldIgnore(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path != root && (skippedDirs[info.Name()] || strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".js" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
