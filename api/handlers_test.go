package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-symptom-mapper/internal/engine"
	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	testutil "github.com/gcbaptista/go-symptom-mapper/internal/testing"
	"github.com/gcbaptista/go-symptom-mapper/model"
	"github.com/gcbaptista/go-symptom-mapper/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng, memory := testutil.CreateTestEngine(t)
	router := gin.New()
	SetupRoutes(router, eng)
	return router, eng, memory
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func resolvePath(query string) string {
	return "/symptoms/resolve?q=" + url.QueryEscape(query)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthCheckHandler(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "go-symptom-mapper", body["service"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHealthCheckHandler_Degraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	memory := store.NewMemoryStore()
	eng := testutil.CreateTestEngineWithStore(t, memory, memory)
	router := gin.New()
	SetupRoutes(router, eng)

	w := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decode[map[string]interface{}](t, w)["status"])

	w = doRequest(router, http.MethodGet, resolvePath("두통"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode[ResolveResponse](t, w)
	assert.True(t, response.Degraded)
	assert.Empty(t, response.Results)
}

func TestResolveHandlers(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCodes  []string
		expectChunks   bool
		expectedError  ErrorCode
	}{
		{
			name:           "query parameter",
			method:         http.MethodGet,
			path:           resolvePath("두통,치통"),
			expectedStatus: http.StatusOK,
			expectedCodes:  []string{"HEADACHE", "TOOTHACHE"},
		},
		{
			name:           "query parameter with explain",
			method:         http.MethodGet,
			path:           resolvePath("츠통") + "&explain=true",
			expectedStatus: http.StatusOK,
			expectedCodes:  []string{"TOOTHACHE"},
			expectChunks:   true,
		},
		{
			name:           "missing query parameter",
			method:         http.MethodGet,
			path:           "/symptoms/resolve",
			expectedStatus: http.StatusBadRequest,
			expectedError:  ErrorCodeValidationFailed,
		},
		{
			name:           "json body",
			method:         http.MethodPost,
			path:           "/symptoms/_resolve",
			body:           ResolveRequest{Query: "두통 치통 심해요"},
			expectedStatus: http.StatusOK,
			expectedCodes:  []string{"HEADACHE", "TOOTHACHE"},
		},
		{
			name:           "json body with explain",
			method:         http.MethodPost,
			path:           "/symptoms/_resolve",
			body:           ResolveRequest{Query: "qwertyuiop", Explain: true},
			expectedStatus: http.StatusOK,
			expectedCodes:  []string{},
			expectChunks:   true,
		},
		{
			name:           "blank query",
			method:         http.MethodPost,
			path:           "/symptoms/_resolve",
			body:           ResolveRequest{Query: "   "},
			expectedStatus: http.StatusBadRequest,
			expectedError:  ErrorCodeValidationFailed,
		},
		{
			name:           "invalid json",
			method:         http.MethodPost,
			path:           "/symptoms/_resolve",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  ErrorCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.method, tt.path, tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedError != "" {
				apiErr := decode[APIError](t, w)
				assert.Equal(t, tt.expectedError, apiErr.Code)
				assert.NotEmpty(t, apiErr.RequestID)
				return
			}

			response := decode[ResolveResponse](t, w)
			assert.NotEmpty(t, response.QueryID)
			assert.ElementsMatch(t, tt.expectedCodes, testutil.Codes(response.Results))
			assert.NotNil(t, response.Results, "results are always a JSON array")
			if tt.expectChunks {
				assert.NotEmpty(t, response.Chunks)
			} else {
				assert.Empty(t, response.Chunks)
			}
		})
	}
}

func TestMultiResolveHandler(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	t.Run("named queries", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/symptoms/_multi_resolve", MultiResolveRequest{
			Queries: []model.NamedQuery{
				{Name: "head", Query: "두통"},
				{Name: "belly", Query: "배아픔"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[model.MultiResolveResult](t, w)
		assert.Equal(t, 2, result.TotalQueries)
		assert.Equal(t, []string{"HEADACHE"}, testutil.Codes(result.Results["head"]))
		assert.Equal(t, []string{"ABDOMINAL_PAIN"}, testutil.Codes(result.Results["belly"]))
	})

	tests := []struct {
		name    string
		request MultiResolveRequest
	}{
		{name: "no queries", request: MultiResolveRequest{}},
		{name: "missing name", request: MultiResolveRequest{Queries: []model.NamedQuery{{Query: "두통"}}}},
		{name: "duplicate name", request: MultiResolveRequest{Queries: []model.NamedQuery{{Name: "a", Query: "두통"}, {Name: "a", Query: "치통"}}}},
		{name: "blank query", request: MultiResolveRequest{Queries: []model.NamedQuery{{Name: "a", Query: ""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/symptoms/_multi_resolve", tt.request)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, ErrorCodeValidationFailed, decode[APIError](t, w).Code)
		})
	}
}

func TestDictionaryStatsHandler(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/dictionary/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[model.DictionaryStats](t, w)
	assert.Equal(t, 6, stats.Symptoms)
	assert.Equal(t, 1, stats.TypoRules)
	assert.Equal(t, uint64(1), stats.Version)
}

func TestReloadHandler(t *testing.T) {
	router, eng, memory := setupTestRouter(t)
	ctx := context.Background()

	_, err := memory.UpsertSymptom(ctx, model.CanonicalSymptom{Code: "COUGH", DisplayName: "기침", Active: true})
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/dictionary/_reload", map[string]string{"target": "dictionary"})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	body := decode[map[string]string](t, w)
	jobID := body["job_id"]
	require.NotEmpty(t, jobID)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err = eng.WaitJob(waitCtx, jobID)
	require.NoError(t, err)

	w = doRequest(router, http.MethodGet, "/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	job := decode[model.Job](t, w)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, model.JobTypeReloadDictionary, job.Type)

	w = doRequest(router, http.MethodGet, resolvePath("기침"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"COUGH"}, testutil.Codes(decode[ResolveResponse](t, w).Results))

	t.Run("empty body reloads everything", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/dictionary/_reload", nil)
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	})

	t.Run("unknown target", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/dictionary/_reload", map[string]string{"target": "drugs"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeValidationFailed, decode[APIError](t, w).Code)
	})
}

func TestJobHandlers(t *testing.T) {
	router, eng, _ := setupTestRouter(t)

	jobID, err := eng.ReloadAsync(model.ReloadTypoRules)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = eng.WaitJob(waitCtx, jobID)
	require.NoError(t, err)

	t.Run("unknown job", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/jobs/does-not-exist", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, ErrorCodeJobNotFound, decode[APIError](t, w).Code)
	})

	t.Run("list jobs", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/jobs?status=completed", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("invalid status filter", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/jobs?status=sleeping", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("job metrics", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/jobs/metrics", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]map[string]interface{}](t, w)
		assert.Equal(t, float64(1), body["metrics"]["jobs_completed"])
	})
}

func TestUnmappedHandlers(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodGet, resolvePath("qwertyuiop"), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(router, http.MethodGet, resolvePath("asdf"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("top unmapped", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/unmapped/top?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Chunks []model.UnmappedChunkCount `json:"chunks"`
			Total  int                        `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Chunks, 1)
		assert.Equal(t, "qwertyuiop", body.Chunks[0].Chunk)
		assert.Equal(t, 2, body.Chunks[0].Count)
	})

	t.Run("stored terms", func(t *testing.T) {
		require.Eventually(t, func() bool {
			w := doRequest(router, http.MethodGet, "/unmapped", nil)
			if w.Code != http.StatusOK {
				return false
			}
			var body struct {
				Total int `json:"total"`
			}
			return json.Unmarshal(w.Body.Bytes(), &body) == nil && body.Total == 3
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("invalid limit", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/unmapped?limit=-3", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeValidationFailed, decode[APIError](t, w).Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	doRequest(router, http.MethodGet, resolvePath("두통"), nil)

	w := doRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "symptom_mapper_resolve_queries_total")
}

func TestRequestIDMiddleware_ReusesHeader(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := doRequest(router, http.MethodOptions, "/ping", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSendEngineError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{"validation", errors.NewValidationError("name", "duplicate"), http.StatusBadRequest, ErrorCodeInvalidRequest},
		{"job not found", errors.NewJobNotFoundError("j1"), http.StatusNotFound, ErrorCodeJobNotFound},
		{"vocabulary unavailable", fmt.Errorf("%w: db down", errors.ErrVocabularyUnavailable), http.StatusServiceUnavailable, ErrorCodeVocabularyUnavailable},
		{"anything else", fmt.Errorf("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set(requestIDKey, "req-1")

			SendEngineError(c, "test", tt.err)

			require.Equal(t, tt.expectedStatus, w.Code)
			apiErr := decode[APIError](t, w)
			assert.Equal(t, tt.expectedCode, apiErr.Code)
			assert.Equal(t, http.StatusText(tt.expectedStatus), apiErr.Error)
			assert.Equal(t, "req-1", apiErr.RequestID)
		})
	}
}
