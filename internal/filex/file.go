// Package filex holds small filesystem helpers for local client state.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir with perm if it is missing and returns its absolute
// path. A relative dir is resolved against the working directory.
func EnsureDir(dir string, perm os.FileMode) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteAtomic copies r into dir/name through a temp file in dir, so a failed
// copy never leaves a partial file under name. Only the base of name is used.
func WriteAtomic(dir, name string, r io.Reader) (string, int64, error) {
	path := filepath.Join(dir, filepath.Base(name))

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return "", n, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", n, fmt.Errorf("moving %s: %w", path, err)
	}
	return path, n, nil
}
