package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_text_detector/internal/aidetect"
	"ai_text_detector/internal/humanize"
	"ai_text_detector/internal/workspace"
)

type stubDetector struct {
	got  []string
	resp aidetect.Response
	err  error
}

func (s *stubDetector) Detect(_ context.Context, text string) (aidetect.Response, error) {
	s.got = append(s.got, text)
	if strings.TrimSpace(text) == "" {
		return aidetect.Response{}, aidetect.ErrEmptyInput
	}
	return s.resp, s.err
}

type stubHumanizer struct {
	err error
}

func (s stubHumanizer) Humanize(ctx context.Context, text string) (humanize.Result, error) {
	if s.err != nil {
		return humanize.Result{}, s.err
	}
	return humanize.NewService(nil).Humanize(ctx, text)
}

func newTestRouter(t *testing.T, det *stubDetector, hum Humanizer, maxBytes int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	uploads, err := workspace.EnsureAt(dir, maxBytes)
	require.NoError(t, err)
	r, err := New(det, hum, uploads, nil, Options{CORSOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)
	return r, dir
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sampleResponse() aidetect.Response {
	return aidetect.Response{
		Overall:        aidetect.Verdict{Label: "Fake", Score: 0.9, AILikelihood: "High"},
		Sentences:      []aidetect.SentenceResult{{Sentence: "A long enough sentence.", Label: "Fake", Score: 0.9, AILikelihood: "High"}},
		ChunksAnalyzed: 1,
	}
}

func TestRootAndHealth(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	w := doJSON(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"message": "AI Text Detector API", "version": "2.0"}, decode(t, w))

	w = doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "OK", "service": "ai-text-detector"}, decode(t, w))
}

func TestDetectEndpoint(t *testing.T) {
	det := &stubDetector{resp: sampleResponse()}
	r, _ := newTestRouter(t, det, stubHumanizer{}, 0)

	for _, path := range []string{"/api/detect", "/api/detect/"} {
		w := doJSON(r, http.MethodPost, path, `{"text":"Some text to check."}`)
		require.Equal(t, http.StatusOK, w.Code, path)
		body := decode(t, w)
		assert.Equal(t, float64(1), body["chunks_analyzed"])
		assert.NotContains(t, body, "chunks_skipped")
		overall := body["overall"].(map[string]any)
		assert.Equal(t, "Fake", overall["label"])
		assert.Equal(t, "High", overall["ai_likelihood"])
	}
}

func TestDetectEmptyAndFailed(t *testing.T) {
	det := &stubDetector{}
	r, _ := newTestRouter(t, det, stubHumanizer{}, 0)

	w := doJSON(r, http.MethodPost, "/api/detect", `{"text":"   "}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"error": "Empty text received"}, decode(t, w))

	det.err = aidetect.ErrClassificationFailed
	w = doJSON(r, http.MethodPost, "/api/detect", `{"text":"hello there"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"error": "Failed to analyze text"}, decode(t, w))
}

func TestDetectInvalidBody(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)
	for _, body := range []string{``, `{}`, `{"text": 5}`, `not json`} {
		w := doJSON(r, http.MethodPost, "/api/detect", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Equal(t, "Invalid request body", decode(t, w)["error"])
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	require.NoError(t, mw.WriteField("note", "ignored"))
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &b, mw.FormDataContentType()
}

func doUpload(r http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	return w
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads must be deleted after the request")
}

func TestUploadTXT(t *testing.T) {
	det := &stubDetector{resp: sampleResponse()}
	r, dir := newTestRouter(t, det, stubHumanizer{}, 0)

	body, ct := multipartBody(t, "file", "essay.txt", "An essay about rivers.")
	w := doUpload(r, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"An essay about rivers."}, det.got)
	assert.Equal(t, float64(1), decode(t, w)["chunks_analyzed"])
	assertDirEmpty(t, dir)
}

func TestUploadUnsupportedFormat(t *testing.T) {
	det := &stubDetector{}
	r, dir := newTestRouter(t, det, stubHumanizer{}, 0)

	body, ct := multipartBody(t, "file", "table.csv", "a,b\n1,2\n")
	w := doUpload(r, body, ct)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"error": "Empty text received", "detail": "unsupported file format: .csv"}, decode(t, w))
	assert.Empty(t, det.got)
	assertDirEmpty(t, dir)
}

func TestUploadBrokenDocument(t *testing.T) {
	r, dir := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	body, ct := multipartBody(t, "file", "scan.pdf", "definitely not a pdf")
	w := doUpload(r, body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Failed to extract text from document", decode(t, w)["error"])
	assertDirEmpty(t, dir)
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	body, ct := multipartBody(t, "", "", "")
	w := doUpload(r, body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodPost, "/api/upload", `{"text":"not multipart"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	r, dir := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 16)

	body, ct := multipartBody(t, "file", "big.txt", strings.Repeat("x", 64))
	w := doUpload(r, body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assertDirEmpty(t, dir)
}

func TestHumanizeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	w := doJSON(r, http.MethodPost, "/api/humanize/", `{"text":" Robotic text. "}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Robotic text.", body["original_text"])
	assert.Equal(t, body["original_text"], body["humanized_text"])
	assert.Equal(t, humanize.PlaceholderNote, body["note"])

	w = doJSON(r, http.MethodPost, "/api/humanize", `{"text":""}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"error": "Empty text received"}, decode(t, w))
}

func TestHumanizeBackendFailure(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{err: errors.New("gemini paraphrase: quota exceeded")}, 0)

	w := doJSON(r, http.MethodPost, "/api/humanize", `{"text":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"detail": "gemini paraphrase: quota exceeded"}, decode(t, w))
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/api/detect", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSPreflightAllowsRequestedHeaders(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)

	preflight := func(origin, requested string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/detect", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		if requested != "" {
			req.Header.Set("Access-Control-Request-Headers", requested)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("http://localhost:5173", "content-type,x-client-version")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "content-type,x-client-version", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:5173", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")

	w = preflight("http://evil.example", "x-client-version")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestNewRejectsBadOrigin(t *testing.T) {
	uploads, err := workspace.EnsureAt(t.TempDir(), 0)
	require.NoError(t, err)
	_, err = New(&stubDetector{}, stubHumanizer{}, uploads, nil, Options{CORSOrigins: []string{"localhost:5173"}})
	assert.Error(t, err)
}

func TestSwaggerDocs(t *testing.T) {
	r, _ := newTestRouter(t, &stubDetector{}, stubHumanizer{}, 0)
	w := doJSON(r, http.MethodGet, "/docs/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	for _, route := range r.Routes() {
		if strings.HasPrefix(route.Path, "/docs/") {
			continue
		}
		path := route.Path
		if path != "/" {
			path = strings.TrimSuffix(path, "/")
		}
		ops, ok := doc.Paths[path]
		require.True(t, ok, "route %s missing from docs", route.Path)
		assert.Contains(t, ops, strings.ToLower(route.Method), route.Path)
	}
}
