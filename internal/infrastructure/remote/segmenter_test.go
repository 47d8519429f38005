package remote

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"obscura/internal/domain/entity"
)

func grayMaskPNG(t *testing.T, w, h int, rect image.Rectangle) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSegmenterSegment(t *testing.T) {
	maskRect := image.Rect(2, 2, 6, 6)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/segment", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "1", r.FormValue("x1"))
		require.Equal(t, "7", r.FormValue("x2"))
		w.Write(grayMaskPNG(t, 10, 8, maskRect))
	}))
	defer srv.Close()

	seg := NewSegmenter(NewClient(srv.URL, 5*time.Second))
	img := image.NewNRGBA(image.Rect(0, 0, 10, 8))
	mask, err := seg.Segment(context.Background(), img, image.Rect(1, 1, 7, 7))
	require.NoError(t, err)
	require.Equal(t, 16, mask.Count())
	require.True(t, mask.At(3, 3))
	require.False(t, mask.At(0, 0))
}

func TestSegmenterEmptyBBoxSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	seg := NewSegmenter(NewClient(srv.URL, 5*time.Second))
	img := image.NewNRGBA(image.Rect(0, 0, 10, 8))
	mask, err := seg.Segment(context.Background(), img, image.Rect(20, 20, 30, 30))
	require.NoError(t, err)
	require.True(t, mask.Empty())
	require.False(t, called)
}

func TestSegmenterSizeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(grayMaskPNG(t, 4, 4, image.Rect(0, 0, 2, 2)))
	}))
	defer srv.Close()

	seg := NewSegmenter(NewClient(srv.URL, 5*time.Second))
	img := image.NewNRGBA(image.Rect(0, 0, 10, 8))
	_, err := seg.Segment(context.Background(), img, image.Rect(1, 1, 7, 7))
	require.Error(t, err)
}

func TestInpainterRoundtrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/inpaint", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "diffusion", r.FormValue("backend"))

		maskFile, _, err := r.FormFile("mask")
		require.NoError(t, err)
		maskImg, err := png.Decode(maskFile)
		require.NoError(t, err)
		require.Equal(t, 8, maskImg.Bounds().Dx())

		imgFile, _, err := r.FormFile("file")
		require.NoError(t, err)
		src, err := png.Decode(imgFile)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, src))
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	inp := NewInpainter(NewClient(srv.URL, 5*time.Second), "diffusion")
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	mask := entity.NewMask(8, 8)
	mask.Set(4, 4, true)

	out, err := inp.Inpaint(context.Background(), img, mask)
	require.NoError(t, err)
	require.Equal(t, 8, out.Bounds().Dx())
	require.Equal(t, 8, out.Bounds().Dy())
}
