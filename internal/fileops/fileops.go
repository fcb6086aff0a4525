// Package fileops implements core.FileStore on the local filesystem, rooted
// at the analyzed project. Every path is validated to stay inside the root.
package fileops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

// Local is a filesystem-backed FileStore. Paths passed to its methods are
// relative to the project root; List returns them in that form.
type Local struct {
	root string
}

// NewLocal creates a FileStore rooted at the given project directory.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Local{root: abs}, nil
}

var _ core.FileStore = (*Local)(nil)

// List walks the project and returns every analyzable file, hidden
// directories skipped, as slash-separated paths relative to root.
func (l *Local) List(ctx context.Context, root string) ([]string, error) {
	base := l.root
	if root != "" && root != "." {
		var err error
		base, err = l.resolve(root)
		if err != nil {
			return nil, err
		}
	}

	var files []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		if !validExt(strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project: %w", err)
	}
	return files, nil
}

// Read returns the file's content as a string.
func (l *Local) Read(ctx context.Context, path string) (string, error) {
	abs, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write creates or replaces the file, creating parent directories as needed.
func (l *Local) Write(ctx context.Context, path, content string) error {
	abs, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	// 0600 per gosec
	return os.WriteFile(abs, []byte(content), 0600)
}

// Delete removes the file.
func (l *Local) Delete(ctx context.Context, path string) error {
	abs, err := l.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(abs)
}

// Rename moves a file within the project root.
func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	absOld, err := l.resolve(oldPath)
	if err != nil {
		return err
	}
	absNew, err := l.resolve(newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	return os.Rename(absOld, absNew)
}

// resolve joins a relative path onto the root and rejects anything that
// escapes it.
func (l *Local) resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute path %q is not allowed", path)
	}
	abs := filepath.Join(l.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q is outside of the project root", path)
	}
	return abs, nil
}

func validExt(ext string) bool {
	switch ext {
	case ".go", ".js", ".ts", ".jsx", ".tsx", ".py", ".java", ".c", ".cpp", ".h", ".rs", ".sql", ".yaml", ".yml", ".json":
		return true
	}
	return false
}
