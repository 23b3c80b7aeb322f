package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the on-disk layout of reviewer accounts and documents. JSON is a
// subset of YAML, so both formats load through the same decoder.
type Seed struct {
	Reviewers []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"reviewers"`
	Documents []Document `yaml:"documents"`
}

// Load applies a seed read from r.
func (s *Store) Load(ctx context.Context, r io.Reader) error {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	for _, u := range seed.Reviewers {
		if err := s.AddReviewer(ctx, u.Username, u.Password); err != nil {
			return fmt.Errorf("reviewer %q: %w", u.Username, err)
		}
	}
	for _, d := range seed.Documents {
		s.Add(ctx, d)
	}
	return nil
}

// LoadFile applies the seed at path, or the built-in demo seed when path is empty.
func (s *Store) LoadFile(ctx context.Context, path string) error {
	if path == "" {
		return s.Load(ctx, bytes.NewReader(defaultSeed))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.Load(ctx, f)
}
