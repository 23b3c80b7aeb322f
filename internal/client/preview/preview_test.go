package preview

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/docreview/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	Calls   int
	LastURL string
	Err     error
}

func (f *fakeFetcher) FetchImage(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	f.Calls++
	f.LastURL = imageURL
	if f.Err != nil {
		return nil, f.Err
	}
	return io.NopCloser(strings.NewReader("image-bytes")), nil
}

func stubThumbnail(t *testing.T) *[]string {
	t.Helper()
	var inputs []string
	orig := generateThumbnail
	generateThumbnail = func(in, out string) error {
		inputs = append(inputs, in)
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		return os.WriteFile(out, append([]byte("thumb:"), data...), 0o600)
	}
	t.Cleanup(func() { generateThumbnail = orig })
	return &inputs
}

func TestGenerate_RendersAndCaches(t *testing.T) {
	inputs := stubThumbnail(t)
	dir := filepath.Join(t.TempDir(), "thumbs")
	f := &fakeFetcher{}
	p := New(f, dir, nil)
	doc := models.Document{ID: 42, ImageURL: "/static/invoice_042.png?v=2"}

	out, err := p.Generate(context.Background(), doc, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "42.png"), out)
	assert.Equal(t, "/static/invoice_042.png?v=2", f.LastURL)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "thumb:image-bytes", string(data))
	require.Len(t, *inputs, 1)
	assert.Equal(t, ".png", filepath.Ext((*inputs)[0]))

	_, err = os.Stat((*inputs)[0])
	assert.True(t, os.IsNotExist(err), "temp image must be removed")

	_, err = p.Generate(context.Background(), doc, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Calls)

	_, err = p.Generate(context.Background(), doc, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Calls)
}

func TestGenerate_Errors(t *testing.T) {
	stubThumbnail(t)
	dir := t.TempDir()

	_, err := New(&fakeFetcher{}, dir, nil).Generate(context.Background(), models.Document{ID: 1}, false)
	require.ErrorIs(t, err, ErrNoImage)

	boom := errors.New("boom")
	_, err = New(&fakeFetcher{Err: boom}, dir, nil).Generate(context.Background(), models.Document{ID: 1, FileName: "a.jpg"}, false)
	require.ErrorIs(t, err, boom)

	generateThumbnail = func(in, out string) error { return boom }
	_, err = New(&fakeFetcher{}, dir, nil).Generate(context.Background(), models.Document{ID: 2, FileName: "a.jpg"}, false)
	require.ErrorIs(t, err, boom)
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".jpg", imageExt("http://host/img/a.jpg?x=1"))
	assert.Equal(t, ".png", imageExt("scan.png"))
	assert.Equal(t, "", imageExt("noext"))
}
