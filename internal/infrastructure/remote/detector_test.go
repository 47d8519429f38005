package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

func TestFaceDetectorDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect/faces", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		require.Equal(t, "0.5", r.FormValue("conf"))
		w.Write([]byte(`{"detections": [
			{"class": "face", "x1": 10, "y1": 20, "x2": 110, "y2": 140, "confidence": 0.91},
			{"class": "face", "x1": 0, "y1": 0, "x2": 5, "y2": 5, "confidence": 0.3}
		]}`))
	}))
	defer srv.Close()

	det := NewFaceDetector(NewClient(srv.URL, 5*time.Second))
	raws, err := det.Detect(context.Background(), []byte("jpeg"), 0.5)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	require.Equal(t, entity.KindFace, raws[0].Kind)
	require.Equal(t, port.BoxPixelXYXY, raws[0].Shape.Form)
	require.Equal(t, [4]float64{10, 20, 110, 140}, raws[0].Shape.XYXY)
	require.Equal(t, "yolov8-face", raws[0].Source)
}

func TestLandmarkDetectorClassMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detections": [
			{"class": "plate", "x1": 1, "y1": 2, "x2": 30, "y2": 10, "confidence": 0.8},
			{"class": "street_sign", "x1": 5, "y1": 5, "x2": 40, "y2": 40, "confidence": 0.75},
			{"class": "dog", "x1": 0, "y1": 0, "x2": 50, "y2": 50, "confidence": 0.99}
		]}`))
	}))
	defer srv.Close()

	det := NewLandmarkDetector(NewClient(srv.URL, 5*time.Second))
	raws, err := det.Detect(context.Background(), []byte("jpeg"), 0.5)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	require.Equal(t, entity.KindLicensePlate, raws[0].Kind)
	require.Equal(t, entity.KindAddressSign, raws[1].Kind)
}

func TestDetectorBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	det := NewFaceDetector(NewClient(srv.URL, 5*time.Second))
	_, err := det.Detect(context.Background(), []byte("jpeg"), 0.5)
	require.Error(t, err)
}
