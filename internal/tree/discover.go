// Package tree converts every source file below a root directory into a
// mirrored tree of markdown documents with an index.
package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"gitlab.com/tozd/go/errors"

	"github.com/agentflare-ai/go-apidox/internal/jsdoc"
)

// DefaultIgnoreFiles are tried in order when no ignore file is configured.
var DefaultIgnoreFiles = []string{".npmignore", ".gitignore"}

var skipDirs = map[string]struct{}{
	"node_modules":     {},
	"bower_components": {},
}

// File is a discovered source file.
type File struct {
	// Path is relative to the root, slash separated.
	Path     string
	Language *jsdoc.Language
}

// Discover lists the supported source files below root in path order.
// Directories named in skipDirs, dot directories, dot files and paths
// matched by the ignore file are left out. skip names an extra directory,
// usually the output target, that is never descended into.
func Discover(root, ignoreFile, skip string) ([]File, error) {
	gi, err := loadIgnore(root, ignoreFile)
	if err != nil {
		return nil, err
	}
	skipAbs := absPath(skip)

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, ok := skipDirs[name]; ok || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if skipAbs != "" && absPath(path) == skipAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		lang, err := jsdoc.LanguageFor(name)
		if err != nil {
			return nil
		}
		files = append(files, File{Path: rel, Language: lang})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// loadIgnore compiles the configured ignore file, relative to root unless
// absolute. Without one, the first DefaultIgnoreFiles entry that exists is
// used.
func loadIgnore(root, ignoreFile string) (*ignore.GitIgnore, error) {
	if ignoreFile != "" {
		if !filepath.IsAbs(ignoreFile) {
			ignoreFile = filepath.Join(root, ignoreFile)
		}
		gi, err := ignore.CompileIgnoreFile(ignoreFile)
		if err != nil {
			return nil, errors.Errorf("reading ignore file: %w", err)
		}
		return gi, nil
	}
	for _, name := range DefaultIgnoreFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		gi, err := ignore.CompileIgnoreFile(path)
		if err != nil {
			return nil, errors.Errorf("reading ignore file: %w", err)
		}
		return gi, nil
	}
	return nil, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
