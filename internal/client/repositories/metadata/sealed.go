package metadata

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docreview/internal/cryptox"
)

// Sealed encrypts values with the device key before handing them to the
// underlying repository. Keys stay in clear text.
type Sealed struct {
	Repository
	key []byte
}

func NewSealed(r Repository, key []byte) *Sealed {
	return &Sealed{Repository: r, key: key}
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Repository.Get(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	plain, err := cryptox.Open(v, s.key)
	if err != nil {
		return nil, fmt.Errorf("opening metadata[%s]: %w", key, err)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("sealing metadata[%s]: %w", key, err)
	}
	return s.Repository.Set(ctx, key, sealed)
}
