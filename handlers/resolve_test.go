package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embedgate/config"
	"embedgate/services"
	"embedgate/uriutil"
)

func newResolveRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		HealthPath:      "healthz",
		StreamPath:      "ws/stream",
		ResolveCacheTTL: time.Minute,
	}
	r := gin.New()
	h := NewResolveHandler(services.NewResolver(cfg, nil))
	r.POST("/api/resolve", h.Resolve)
	return r
}

func postResolve(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/resolve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestResolveEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/foo/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	r := newResolveRouter()
	w := postResolve(r, `{"page_url":"`+backend.URL+`/foo/bar"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Base       uriutil.BaseURIParts   `json:"base"`
		Candidates []uriutil.BaseURIParts `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "foo", resp.Base.BasePath)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "foo/bar", resp.Candidates[0].BasePath)
}

func TestResolveEndpointBadRequest(t *testing.T) {
	r := newResolveRouter()

	w := postResolve(r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postResolve(r, `{"page_url":"no-scheme"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveEndpointUnreachableBackend(t *testing.T) {
	r := newResolveRouter()

	w := postResolve(r, `{"page_url":"http://127.0.0.1:1/app"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
