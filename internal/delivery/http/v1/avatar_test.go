package v1

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (s *testServer) uploadAvatar(t *testing.T, token, field, filename string, content []byte) (int, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := withToken(newRequest(t, http.MethodPost, "/users/me/avatar", &body, w.FormDataContentType()), token)
	rec := serve(s, req)
	if rec.Code == http.StatusOK {
		return rec.Code, ""
	}
	return rec.Code, errorMessage(t, rec)
}

func TestHandleUploadAvatar(t *testing.T) {
	srv := newTestServer(t)
	jane := srv.signup(t, "Jane", "jane@example.com")

	code, _ := srv.uploadAvatar(t, jane.Token, "avatar", "me.jpeg", testPNG(t, 400, 300))
	require.Equal(t, http.StatusOK, code)

	rec := srv.doJSON(t, http.MethodGet, "/users/"+jane.User.ID+"/avatar", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 250, cfg.Height)

	me := srv.doJSON(t, http.MethodGet, "/users/me", jane.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	var profile userResponse
	decodeBody(t, me, &profile)
	assert.Equal(t, "/users/"+jane.User.ID+"/avatar", profile.Avatar)

	rec = srv.doJSON(t, http.MethodDelete, "/users/me/avatar", jane.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.doJSON(t, http.MethodGet, "/users/"+jane.User.ID+"/avatar", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleUploadAvatar_Rejected(t *testing.T) {
	srv := newTestServer(t)
	jane := srv.signup(t, "Jane", "jane@example.com")
	validPNG := testPNG(t, 10, 10)

	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		message  string
	}{
		{
			name:     "not an image filename",
			field:    "avatar",
			filename: "notes.txt",
			content:  validPNG,
			message:  "Please upload an image",
		},
		{
			name:     "image extension in the middle",
			field:    "avatar",
			filename: "me.png.exe",
			content:  validPNG,
			message:  "Please upload an image",
		},
		{
			name:     "uppercase extension",
			field:    "avatar",
			filename: "ME.PNG",
			content:  validPNG,
			message:  "Please upload an image",
		},
		{
			name:     "wrong field",
			field:    "picture",
			filename: "me.png",
			content:  validPNG,
			message:  "Please upload an image",
		},
		{
			name:     "too large",
			field:    "avatar",
			filename: "me.png",
			content:  make([]byte, 1_000_001),
			message:  "File too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := srv.uploadAvatar(t, jane.Token, tt.field, tt.filename, tt.content)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.message, message)
		})
	}

	code, message := srv.uploadAvatar(t, jane.Token, "avatar", "me.png", []byte("not really a png"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, message, "invalid image")

	rec := srv.doJSON(t, http.MethodGet, "/users/"+jane.User.ID+"/avatar", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetAvatar_UnknownUser(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.doJSON(t, http.MethodGet, "/users/nobody/avatar", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
