package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/articlefront/client"
	"github.com/SergeyParamoshkin/articlefront/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(client.KeyHeader) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		switch r.URL.Path {
		case "/GetArticles":
			_, _ = w.Write([]byte(`{"data":[{"id":42,"title":"Hello, World!","author":"Smith, Jones"}],"currentPage":1,"totalPages":1}`))
		case "/GetArticleByID":
			if r.URL.Query().Get("id") != "42" {
				http.NotFound(w, r)

				return
			}
			_, _ = w.Write([]byte(`{"D":{"Id":42,"Title":"Hello, World!","Authors":"Smith, Jones","Content":"<p>Body</p>"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(base, key string) *config.Config {
	return &config.Config{
		APIBaseURL:      base,
		APIKey:          key,
		PageSize:        50,
		UpstreamTimeout: time.Second,
		SlugMismatch:    config.SlugRedirect,
		MinifyHTML:      true,
	}
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, string(body)
}

func TestNewAppRequiresAPIKey(t *testing.T) {
	a, err := NewApp(testConfig("https://api.example.com", ""), zap.NewNop().Sugar(), nil)
	require.ErrorIs(t, err, client.ErrMissingKey)
	require.Nil(t, a)
}

func TestRoutesEndToEnd(t *testing.T) {
	up := newUpstream(t)

	a, err := NewApp(testConfig(up.URL, "secret"), zap.NewNop().Sugar(), nil)
	require.NoError(t, err)
	r := a.Routes()

	res, body := get(t, r, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.Header.Get("Content-Type"), "text/html")
	require.Contains(t, body, "/article/42/hello-world")

	res, _ = get(t, r, "/GetArticles/1")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = get(t, r, "/article/42/hello-world")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "Hello, World!")
	require.Contains(t, body, "<p>Body")

	res, _ = get(t, r, "/article/42/stale")
	require.Equal(t, http.StatusMovedPermanently, res.StatusCode)
	require.Equal(t, "/article/42/hello-world", res.Header.Get("Location"))

	res, _ = get(t, r, "/article/42")
	require.Equal(t, http.StatusMovedPermanently, res.StatusCode)

	res, _ = get(t, r, "/article/7/whatever")
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = get(t, r, "/healthz")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, body)

	res, body = get(t, r, "/assets/style.css")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, ".site-header")

	res, _ = get(t, r, "/does/not/exist")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRoutesUpstreamRejectsKey(t *testing.T) {
	up := newUpstream(t)

	a, err := NewApp(testConfig(up.URL, "wrong"), zap.NewNop().Sugar(), nil)
	require.NoError(t, err)

	res, body := get(t, a.Routes(), "/")
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.Contains(t, body, "Could not load article data.")
}
