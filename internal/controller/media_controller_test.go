package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade_backend/internal/middleware"
	"facade_backend/pkg/utils/cloudflare"
)

const fakePublicURL = "https://media.test"

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeMedia) Upload(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.failPut {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.types[key] = contentType
	f.mu.Unlock()
	return f.PublicURL(key), nil
}

func (f *fakeMedia) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://upload.test/%s?ct=%s&ttl=%d", key, contentType, int(ttl.Seconds())), nil
}

func (f *fakeMedia) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://download.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeMedia) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeMedia) PublicURL(key string) string {
	return fakePublicURL + "/" + key
}

func (f *fakeMedia) KeyFromURL(fullURL string) (string, bool) {
	return cloudflare.KeyFromURL(fakePublicURL, fullURL)
}

func (f *fakeMedia) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func TestMediaSign(t *testing.T) {
	env := newTestEnv(t)

	status, data := env.request(t, http.MethodPost, "/api/media/sign", map[string]interface{}{
		"kind":        "pdf",
		"filename":    "Brochure.PDF",
		"contentType": "application/pdf",
		"building":    "Melia Miami",
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))

	body := decodeMap(t, data)
	key := body["key"].(string)
	assert.True(t, strings.HasPrefix(key, "buildings/melia-miami/pdfs/"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.Equal(t, fakePublicURL+"/"+key, body["publicUrl"])
	assert.Contains(t, body["uploadUrl"], key)
	assert.Equal(t, float64(900), body["expiresIn"])
}

func TestMediaSign_Rejects(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]interface{}{
		{"kind": "image", "filename": "facade.gif", "contentType": "image/gif"},
		{"kind": "video", "filename": "intro.mp4", "contentType": "image/png"},
		{"kind": "audio", "filename": "a.mp3", "contentType": "audio/mpeg"},
		{"kind": "image", "contentType": "image/png"},
	}
	for _, body := range cases {
		status, data := env.request(t, http.MethodPost, "/api/media/sign", body, true)
		assert.Equal(t, http.StatusBadRequest, status, string(data))
	}
}

func TestMediaSignURL(t *testing.T) {
	env := newTestEnv(t)

	status, data := env.request(t, http.MethodPost, "/api/media/sign-url", map[string]interface{}{
		"url": fakePublicURL + "/buildings/melia-miami/pdfs/brochure.pdf",
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, "https://download.test/buildings/melia-miami/pdfs/brochure.pdf?ttl=3600", decodeMap(t, data)["signedUrl"])

	status, data = env.request(t, http.MethodPost, "/api/media/sign-url", map[string]interface{}{
		"key": "buildings/melia-miami/pdfs/brochure.pdf",
	}, true)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, decodeMap(t, data)["signedUrl"], "brochure.pdf")

	status, _ = env.request(t, http.MethodPost, "/api/media/sign-url", map[string]interface{}{
		"url": "https://elsewhere.test/brochure.pdf",
	}, true)
	assert.Equal(t, http.StatusBadRequest, status)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, fields map[string]string, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "test-session"})
	return req
}

func TestMediaUpload_Image(t *testing.T) {
	env := newTestEnv(t)

	req := uploadRequest(t, map[string]string{"kind": "image", "building": "Melia Miami"}, "facade.png", "image/png", pngBytes(t))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	body := decodeMap(t, data)
	key := body["key"].(string)
	assert.True(t, strings.HasPrefix(key, "buildings/melia-miami/images/"), key)
	assert.Equal(t, fakePublicURL+"/"+key, body["url"])
	assert.True(t, env.media.has(key))
	assert.Equal(t, "image/png", env.media.types[key])

	_, err = png.Decode(bytes.NewReader(env.media.objects[key]))
	assert.NoError(t, err)
}

func TestMediaUpload_PDFStoredAsIs(t *testing.T) {
	env := newTestEnv(t)
	content := []byte("%PDF-1.4 brochure")

	req := uploadRequest(t, map[string]string{"kind": "pdf"}, "brochure.pdf", "application/pdf", content)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	key := decodeMap(t, data)["key"].(string)
	assert.True(t, strings.HasPrefix(key, "buildings/unassigned/pdfs/"), key)
	assert.Equal(t, content, env.media.objects[key])
}

func TestMediaUpload_Rejects(t *testing.T) {
	env := newTestEnv(t)

	cases := []*http.Request{
		uploadRequest(t, map[string]string{"kind": "image"}, "", "", nil),
		uploadRequest(t, map[string]string{"kind": "image"}, "facade.gif", "image/gif", []byte("GIF89a")),
		uploadRequest(t, map[string]string{"kind": "image"}, "facade.png", "image/png", []byte("not a png")),
		uploadRequest(t, map[string]string{"kind": "sculpture"}, "facade.png", "image/png", pngBytes(t)),
	}
	for i, req := range cases {
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "case %d", i)
	}
}

func TestMediaUpload_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.media.failPut = true

	req := uploadRequest(t, map[string]string{"kind": "pdf"}, "brochure.pdf", "application/pdf", []byte("%PDF"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to upload file", decodeMap(t, data)["error"])
}

func TestMediaDelete(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.media.Upload(context.Background(), "buildings/x/images/a.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	status, data := env.request(t, http.MethodDelete, "/api/media", map[string]interface{}{
		"url": fakePublicURL + "/buildings/x/images/a.jpg",
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.False(t, env.media.has("buildings/x/images/a.jpg"))

	status, _ = env.request(t, http.MethodDelete, "/api/media", map[string]interface{}{}, true)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMediaRoutesNeedBucket(t *testing.T) {
	env := newTestEnv(t)
	app := NewApp(Deps{Config: testConfig(), DB: env.db})

	req := httptest.NewRequest(http.MethodPost, "/api/media/sign", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "test-session"})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
