// Package scan discovers audio files to analyze.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions lists recognized audio file extensions, lowercase,
// without the dot.
var supportedExtensions = map[string]bool{
	"wav": true, "mp3": true, "m4a": true, "flac": true, "aac": true,
	"ogg": true, "opus": true, "wma": true, "aiff": true, "alac": true,
}

// Supported reports whether path has a recognized audio extension.
// Matching is case insensitive.
func Supported(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return supportedExtensions[ext]
}

// AudioFiles walks root recursively and returns every regular file with a
// supported extension, sorted by path for deterministic batch order.
// A root that is itself a supported file is returned as a one-element list.
func AudioFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		if !Supported(root) {
			return nil, fmt.Errorf("%s is not a supported audio file", root)
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
