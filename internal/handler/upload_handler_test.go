package handler_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitecms/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/assets", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAssetLifecycle(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.send(multipartRequest(t, "file", "banner.png", testPNG(t)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[struct {
		Asset struct {
			ID       uint   `json:"id"`
			MimeType string `json:"mimeType"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
		} `json:"asset"`
		URL string `json:"url"`
	}](t, rr)
	assert.Equal(t, "image/png", created.Asset.MimeType)
	assert.Equal(t, 20, created.Asset.Width)
	assert.Equal(t, 10, created.Asset.Height)
	assert.Contains(t, created.URL, "/static/uploads/")

	rr = srv.do(http.MethodPut, fmt.Sprintf("/api/admin/assets/%d", created.Asset.ID), map[string]string{"alt": "Banner"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = srv.do(http.MethodGet, "/api/admin/assets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[struct {
		Total int64 `json:"total"`
	}](t, rr)
	assert.Equal(t, int64(1), page.Total)

	rr = srv.do(http.MethodDelete, fmt.Sprintf("/api/admin/assets/%d", created.Asset.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = srv.do(http.MethodDelete, fmt.Sprintf("/api/admin/assets/%d", created.Asset.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUploadAssetReturnsAbsoluteURL(t *testing.T) {
	srv := newTestServer(t, handler.Options{SiteBaseURL: "https://cdn.example.com/"})
	srv.login()

	rr := srv.send(multipartRequest(t, "file", "logo.png", testPNG(t)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[struct {
		URL         string `json:"url"`
		AbsoluteURL string `json:"absoluteUrl"`
	}](t, rr)
	assert.True(t, strings.HasPrefix(created.URL, "/static/uploads/"), created.URL)
	assert.Equal(t, "https://cdn.example.com"+created.URL, created.AbsoluteURL)

	plain := newTestServer(t, handler.Options{})
	plain.login()
	rr = plain.send(multipartRequest(t, "file", "logo.png", testPNG(t)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "absoluteUrl")
}

func TestUploadAssetRejectsUnsupportedFiles(t *testing.T) {
	srv := newTestServer(t, handler.Options{})
	srv.login()

	rr := srv.send(multipartRequest(t, "file", "notes.txt", []byte("plain text is not an allowed upload")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code, rr.Body.String())

	rr = srv.send(multipartRequest(t, "image", "banner.png", testPNG(t)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.send(multipartRequest(t, "file", "huge.png", bytes.Repeat([]byte{0x89}, 1<<20+1<<19)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
