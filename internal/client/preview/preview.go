// Package preview renders a PNG thumbnail of a document image so it can be
// opened outside the terminal.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/dmitrijs2005/docreview/internal/filex"
	"github.com/dmitrijs2005/docreview/internal/logging"
	thumbnails "github.com/drummonds/go-thumbnails"
)

const thumbnailSize = 600

var ErrNoImage = errors.New("document has no image")

// generateThumbnail is swapped in tests.
var generateThumbnail = func(in, out string) error {
	return thumbnails.GenerateStyledAndSave(in, out, thumbnailSize, thumbnails.StyleUniform)
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, error)
}

// Previewer caches thumbnails as <dir>/<document id>.png.
type Previewer struct {
	fetcher ImageFetcher
	dir     string
	log     logging.Logger
}

func New(f ImageFetcher, dir string, log logging.Logger) *Previewer {
	if log == nil {
		log = logging.Nop()
	}
	return &Previewer{fetcher: f, dir: dir, log: log}
}

// Path returns where the thumbnail of document id is stored.
func (p *Previewer) Path(id int64) string {
	return filepath.Join(p.dir, strconv.FormatInt(id, 10)+".png")
}

// Generate returns the thumbnail path for doc, rendering it first when it is
// not cached or refresh is set.
func (p *Previewer) Generate(ctx context.Context, doc models.Document, refresh bool) (string, error) {
	out := p.Path(doc.ID)
	if !refresh {
		if _, err := os.Stat(out); err == nil {
			return out, nil
		}
	}

	src := doc.ImageURL
	if src == "" {
		src = doc.FileName
	}
	if src == "" {
		return "", ErrNoImage
	}

	body, err := p.fetcher.FetchImage(ctx, src)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "docreview-preview-*"+imageExt(src))
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("saving image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if _, err := filex.EnsureDir(p.dir, 0o700); err != nil {
		return "", err
	}
	if err := generateThumbnail(tmpPath, out); err != nil {
		return "", fmt.Errorf("generating thumbnail: %w", err)
	}

	p.log.Debug(ctx, "thumbnail generated", "id", doc.ID, "path", out)
	return out, nil
}

// imageExt takes the extension from the URL path, ignoring any query.
func imageExt(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return path.Ext(u.Path)
	}
	return path.Ext(src)
}
