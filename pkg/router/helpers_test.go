package router

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lanshare-server/pkg/meta"
	"lanshare-server/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const landingPage = "<!doctype html><title>LAN share</title>"

type testEnv struct {
	router    *gin.Engine
	uploadDir string
	publicDir string
}

func newTestEnv(t *testing.T, uploadQPS int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	publicDir := filepath.Join(base, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(publicDir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte(landingPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "css", "app.css"), []byte("body{}"), 0o644))

	uploadDir := filepath.Join(base, "files")
	files, err := service.NewFileService(uploadDir, meta.NewMemoryStore())
	require.NoError(t, err)

	return &testEnv{
		router:    New(Options{Files: files, PublicDir: publicDir, UploadQPS: uploadQPS}),
		uploadDir: uploadDir,
		publicDir: publicDir,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// createUploadRequest 构造 multipart/form-data 的上传请求
func createUploadRequest(t *testing.T, fieldName, filename string, content []byte) *http.Request {
	t.Helper()
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &b)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
