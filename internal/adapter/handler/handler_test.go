package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-sh/depot/internal/auth"
	infra "github.com/depot-sh/depot/internal/infrastructure/repository"
	"github.com/depot-sh/depot/internal/usecase"
	"github.com/depot-sh/depot/pkg/config"
	"github.com/depot-sh/depot/pkg/logging"
	"github.com/depot-sh/depot/pkg/types"
)

type testEnv struct {
	router  *gin.Engine
	storage *infra.DiskStorage
	cookie  *http.Cookie
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := afero.NewMemMapFs()
	storage, err := infra.NewDiskStorage(fs, "/data")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Storage.AllowedExtensions = []string{"jpg", "png", "txt", "pdf"}

	logger := logging.Nop()
	ingest := usecase.NewIngestUseCase(storage, cfg.Storage.AllowedExtensions, 800, 800, logger)
	catalog := usecase.NewCatalogUseCase(storage)

	credStore := auth.NewStore(fs, "/users.txt")
	require.NoError(t, credStore.Register("alice", "s3cret-pass"))
	sessions := auth.NewSessions(time.Hour)

	router := NewRouter(ingest, catalog, credStore, sessions, func() *config.Config { return cfg }, logger)

	env := &testEnv{router: router, storage: storage, cfg: cfg}
	env.login(t, "alice", "s3cret-pass")
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) {
	t.Helper()
	body, _ := json.Marshal(types.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			e.cookie = c
			return
		}
	}
	t.Fatal("no session cookie returned")
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, files map[string][]byte) types.UploadResponse {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := e.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, map[string][]byte{"a.txt": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req) // no cookie
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(types.LoginRequest{Username: "alice", Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadBatchOutcomes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, map[string][]byte{
		"notes.txt": []byte("hello"),
		"bad.exe":   []byte("mz"),
	})

	assert.False(t, resp.Success)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailureCount)
	require.Len(t, resp.Files, 2)

	byName := map[string]types.FileOutcome{}
	for _, f := range resp.Files {
		byName[f.Filename] = f
	}
	assert.True(t, byName["notes.txt"].Success)
	assert.NotEmpty(t, byName["notes.txt"].Hash)
	assert.False(t, byName["bad.exe"].Success)
	assert.Equal(t, "type_not_allowed", byName["bad.exe"].Error)
}

func TestUploadBatchTooLarge(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Storage.MaxContentLength = 4

	body, contentType := multipartBody(t, map[string][]byte{"big.txt": []byte("12345678")})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	entries, err := env.storage.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListAfterUpload(t *testing.T) {
	env := newTestEnv(t)
	env.upload(t, map[string][]byte{"IMG_20240105_081500.txt": []byte("x")})

	req := httptest.NewRequest(http.MethodGet, "/api/files?page=1", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalEntries)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "2024-01-05", resp.Groups[0].Date)
	require.Len(t, resp.Groups[0].Entries, 1)
	assert.Equal(t, "IMG_20240105_081500.txt", resp.Groups[0].Entries[0].Name)
	assert.NotEmpty(t, resp.Groups[0].Entries[0].SizeHuman)
}

func TestListOutOfRangePage(t *testing.T) {
	env := newTestEnv(t)
	env.upload(t, map[string][]byte{"a.txt": []byte("x")})

	req := httptest.NewRequest(http.MethodGet, "/api/files?page=99", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Groups)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestServeRawFile(t *testing.T) {
	env := newTestEnv(t)
	env.upload(t, map[string][]byte{"doc.txt": []byte("contents here")})

	req := httptest.NewRequest(http.MethodGet, "/api/raw/doc.txt", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "contents here", w.Body.String())
}

func TestServeMissingFile(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/raw/ghost.txt", nil)
	w := env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestThumbMissingFallsBackTo404(t *testing.T) {
	env := newTestEnv(t)
	env.upload(t, map[string][]byte{"doc.txt": []byte("x")})

	req := httptest.NewRequest(http.MethodGet, "/api/thumbs/doc.txt", nil)
	w := env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFile(t *testing.T) {
	env := newTestEnv(t)
	env.upload(t, map[string][]byte{"gone.txt": []byte("x")})

	req := httptest.NewRequest(http.MethodDelete, "/api/files/gone.txt", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/files/gone.txt", nil)
	w = env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	w = env.do(req)
	var resp types.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalEntries)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	w = env.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthzUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
