// Package export writes category export archives to their destination.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docreview/internal/filex"
)

// Sink stores one export archive under name and reports where it went.
type Sink interface {
	Put(ctx context.Context, name string, r io.Reader) (location string, n int64, err error)
}

// DirSink writes archives into a local directory, creating it if needed.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	if dir == "" {
		dir = "download"
	}
	return &DirSink{Dir: dir}
}

func (s *DirSink) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	dir, err := filex.EnsureDir(s.Dir, 0o755)
	if err != nil {
		return "", 0, fmt.Errorf("creating export dir: %w", err)
	}
	return filex.WriteAtomic(dir, name, ctxReader{ctx: ctx, r: r})
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
