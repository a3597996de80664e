package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/content-graph-api/internal/api"
	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/mocks"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  *gin.Engine
	storage *mocks.MockStorage
	db      *stubDB
}

type stubDB struct {
	err error
}

func (d *stubDB) HealthCheck(context.Context) error { return d.err }

func setupTestRouter(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Storage: config.StorageConfig{UploadDir: t.TempDir(), MaxUploadSize: 1024},
		Content: config.ContentConfig{SlugLocale: "tr", DefaultPageSize: 10, MaxPageSize: 50},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	storage := mocks.NewMockStorage()
	db := &stubDB{}
	log := zerolog.Nop()
	services := service.NewServices(mocks.NewRepositories(), storage, cfg, log)

	return &testServer{router: api.NewRouter(services, db, cfg, log), storage: storage, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doFrom(t *testing.T, ip, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	decode(t, w, &response)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "content-api", response["service"])

	s.db.err = errors.New("connection refused")
	w = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	decode(t, w, &response)
	assert.Equal(t, "unhealthy", response["status"])
	assert.Equal(t, "database unreachable", response["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/tags", models.TagInput{Title: "Go"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Database models.Counts `json:"database"`
	}
	decode(t, w, &response)
	assert.Equal(t, 1, response.Database.Tags)
	assert.Equal(t, 0, response.Database.Articles)
}

func TestArticleLifecycle(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/articles", models.ArticleInput{
		Title: "Merhaba", GUID: "merhaba", Tags: []string{"Teknoloji", "teknoloji"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	decode(t, w, &created)
	id := created["id"].(string)
	assert.Len(t, created["tags"], 1)
	assert.NotContains(t, created, "viewIps")

	w = s.doFrom(t, "10.1.1.1", http.MethodGet, "/v1/articles/guid/merhaba")
	require.Equal(t, http.StatusOK, w.Code)
	w = s.doFrom(t, "10.1.1.2", http.MethodGet, "/v1/articles/guid/merhaba")
	require.Equal(t, http.StatusOK, w.Code)
	w = s.doFrom(t, "10.1.1.2", http.MethodGet, "/v1/articles/guid/merhaba")
	var viewed models.ArticleView
	decode(t, w, &viewed)
	assert.Equal(t, 2, viewed.ViewCount)

	w = s.doFrom(t, "10.1.1.1", http.MethodPost, "/v1/articles/"+id+"/like")
	require.Equal(t, http.StatusOK, w.Code)
	var like models.LikeResult
	decode(t, w, &like)
	assert.Equal(t, 1, like.LikeCount)

	w = s.doFrom(t, "10.1.1.1", http.MethodGet, "/v1/articles/guid/merhaba/liked")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true}`, w.Body.String())

	w = s.do(t, http.MethodPatch, "/v1/articles/"+id, models.ArticleInput{Title: "Selam", GUID: "selam"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodDelete, "/v1/articles/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/v1/articles/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"article not found"}`, w.Body.String())
}

func TestLikesIgnoreForwardedForFromUntrustedPeer(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/articles", models.ArticleInput{Title: "Forwarded", GUID: "forwarded"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	id := created["id"].(string)

	for _, forwarded := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/articles/"+id+"/like", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var like models.LikeResult
		decode(t, w, &like)
		assert.Equal(t, 1, like.LikeCount, "forwarded for %s", forwarded)
	}
}

func TestLikesHonourForwardedForFromTrustedProxy(t *testing.T) {
	s := setupTestRouter(t, func(cfg *config.Config) {
		cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	})

	w := s.do(t, http.MethodPost, "/v1/articles", models.ArticleInput{Title: "Proxied", GUID: "proxied"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	id := created["id"].(string)

	want := []int{1, 2, 2}
	for i, forwarded := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/articles/"+id+"/like", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var like models.LikeResult
		decode(t, w, &like)
		assert.Equal(t, want[i], like.LikeCount)
	}
}

func TestGuidConflictAcrossCollections(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/pages", models.PageInput{Title: "About", GUID: "about-us"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/v1/articles", models.ArticleInput{Title: "About", GUID: "about-us"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"guid \"about-us\" already exists"}`, w.Body.String())
}

func TestListEnvelope(t *testing.T) {
	s := setupTestRouter(t)
	for _, guid := range []string{"one", "two", "three"} {
		w := s.do(t, http.MethodPost, "/v1/pages", models.PageInput{Title: guid, GUID: guid})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/v1/pages?page=1&pageSize=2&sort=guid", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Results []struct {
			GUID string `json:"guid"`
		} `json:"results"`
		CurrentPage     int  `json:"currentPage"`
		CurrentPageSize int  `json:"currentPageSize"`
		PageSize        int  `json:"pageSize"`
		TotalPages      int  `json:"totalPages"`
		TotalResults    int  `json:"totalResults"`
		HasNextPage     bool `json:"hasNextPage"`
	}
	decode(t, w, &envelope)
	assert.Equal(t, 3, envelope.TotalResults)
	assert.Equal(t, 2, envelope.TotalPages)
	assert.Equal(t, 2, envelope.CurrentPageSize)
	assert.True(t, envelope.HasNextPage)
	assert.Equal(t, "one", envelope.Results[0].GUID)
	assert.Equal(t, "three", envelope.Results[1].GUID)

	w = s.do(t, http.MethodGet, "/v1/pages?paging=false&search=TW", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bare []map[string]interface{}
	decode(t, w, &bare)
	require.Len(t, bare, 1)
	assert.Equal(t, "two", bare[0]["guid"])
}

func TestListRejectsBadParameters(t *testing.T) {
	s := setupTestRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"page zero", "/v1/articles?page=0"},
		{"page offset overflows", "/v1/pages?page=4611686018427387905&pageSize=4"},
		{"page size above max", "/v1/articles?pageSize=51"},
		{"non-numeric page", "/v1/tags?page=x"},
		{"unknown sort field", "/v1/categories?sort=nope"},
		{"bad folder", "/v1/files?folderId=nope"},
	}

	// the unknown sort field is only detected once there is something to sort
	w := s.do(t, http.MethodPost, "/v1/categories", models.CategoryInput{Title: "News"})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCategoryDeleteCleansArticles(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/categories", models.CategoryInput{Title: "Spor"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category models.Category
	decode(t, w, &category)
	assert.Equal(t, "spor", category.GUID)

	w = s.do(t, http.MethodPost, "/v1/articles", models.ArticleInput{Title: "Maç", GUID: "mac", Categories: []string{category.ID}})
	require.Equal(t, http.StatusCreated, w.Code)
	var article models.ArticleView
	decode(t, w, &article)

	w = s.do(t, http.MethodGet, "/v1/articles?category="+category.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalResults":1`)

	w = s.do(t, http.MethodDelete, "/v1/categories/"+category.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/v1/articles?category="+category.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalResults":0`)
}

func TestTagConflict(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/tags", models.TagInput{Title: "Haber"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/v1/tags", models.TagInput{Title: "HABER"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func upload(t *testing.T, s *testServer, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestFileUploadAndDelete(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodPost, "/v1/files/folders", models.FolderInput{Title: "Images", Path: "/images"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var folder models.File
	decode(t, w, &folder)

	w = upload(t, s, "photo.jpg", "jpeg-bytes", map[string]string{"folderId": folder.ID, "title": "Photo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var file models.File
	decode(t, w, &file)
	assert.Equal(t, "Photo", file.Title)
	assert.Equal(t, "/images/"+file.Filename, file.Path)
	assert.True(t, s.storage.Has(file.Filename))

	w = s.do(t, http.MethodGet, "/v1/files?folderId="+folder.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), file.ID)

	w = s.do(t, http.MethodDelete, "/v1/files/"+folder.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"file is in use"}`, w.Body.String())

	w = s.do(t, http.MethodPatch, "/v1/files/"+file.ID, models.FileUpdateInput{Title: "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/v1/files/"+file.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, s.storage.Has(file.Filename))

	w = s.do(t, http.MethodDelete, "/v1/files/"+folder.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFileUploadValidation(t *testing.T) {
	s := setupTestRouter(t)

	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
	}{
		{"missing file", "", "", nil},
		{"too large", "big.bin", string(make([]byte, 2048)), nil},
		{"bad folder", "a.txt", "a", map[string]string{"folderId": "nope"}},
		{"missing folder", "a.txt", "a", map[string]string{"folderId": "4a0c51c6-9d47-4d3c-8f2e-6e9cb1a3f0d2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(t, s, tt.filename, tt.content, tt.fields)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/articles", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(t, http.MethodOptions, "/v1/articles", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
