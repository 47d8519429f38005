package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"obscura/config"
	"obscura/internal/container"
	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
	"obscura/internal/infrastructure/storage"
)

type stubText struct{}

func (stubText) Recognize(ctx context.Context, imageData []byte) ([]port.TextLine, error) {
	return nil, nil
}

type stubDetector struct {
	dets []port.RawDetection
}

func (d stubDetector) Detect(ctx context.Context, imageData []byte, confThreshold float64) ([]port.RawDetection, error) {
	return d.dets, nil
}

type stubPII struct{}

func (stubPII) Classify(text string) (entity.Kind, bool) { return "", false }

func (stubPII) MaskText(kind entity.Kind, text string) string { return text }

type stubOpener struct{}

func (stubOpener) Open(path string) (port.FrameSource, error) {
	return nil, errors.New("video decoder is not available")
}

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	app := container.New(cfg, container.Deps{
		Text: stubText{},
		Faces: stubDetector{dets: []port.RawDetection{{
			Kind:  entity.KindFace,
			Shape: port.NormXYWH(0.1, 0.1, 0.3, 0.3),
			Conf:  0.9,
		}}},
		Landmarks: stubDetector{},
		PII:       stubPII{},
		Opener:    stubOpener{},
		Reports:   storage.NewMemoryReportRepository(),
	}, zap.NewNop())

	return NewServer(app, cfg.PolicyMode, zap.NewNop())
}

func uploadRequest(t *testing.T, path, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: 80, G: 80, B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["ok"])
	require.Equal(t, "strict", body["policy_mode"])
}

func TestAnalyzeImage(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/analyze/image", "image/png", pngBytes(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var report entity.ImageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Findings, 1)
	require.Equal(t, entity.KindFace, report.Findings[0].Kind)
	require.Equal(t, 30, report.RiskScore)
	require.Equal(t, [2]int{16, 16}, report.ImageShape)
}

func TestAnalyzeImageUnsupportedType(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/analyze/image", "application/pdf", []byte("pdf")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unsupported media type")
}

func TestAnalyzeImageNoFile(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze/image", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "no file uploaded")
}

func TestAnalyzeImageBroken(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/analyze/image", "image/png", []byte("not a png")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "could not read input")
}

func TestAnalyzeVideoOpenerUnavailable(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/analyze/video", "video/mp4", []byte("mp4 bytes")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRoundtrip(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/analyze/image", "image/png", pngBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)

	got := httptest.NewRecorder()
	srv.Handler().ServeHTTP(got, httptest.NewRequest(http.MethodGet, "/reports/"+id, nil))
	require.Equal(t, http.StatusOK, got.Code)

	var record entity.AnalysisRecord
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &record))
	require.Equal(t, id, record.ID)
	require.NotNil(t, record.Image)
	require.Equal(t, 30, record.Image.RiskScore)
}

func TestReportNotFound(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/unknown", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
