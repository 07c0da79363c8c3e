package netx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormRequest(t *testing.T) {
	form := url.Values{"grant_type": {"authorization_code"}, "code": {"abc"}}

	req, err := NewFormRequest(context.Background(), http.MethodPost, "http://x/oauth/token", form)
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	body, _ := io.ReadAll(req.Body)
	assert.Equal(t, form.Encode(), string(body))
}

func TestNewJSONRequest(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		req, err := NewJSONRequest(context.Background(), http.MethodPatch, "http://x/y", map[string]int{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, _ := io.ReadAll(req.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
	})

	t.Run("nil body", func(t *testing.T) {
		req, err := NewJSONRequest(context.Background(), http.MethodGet, "http://x/y", nil)
		require.NoError(t, err)
		assert.Empty(t, req.Header.Get("Content-Type"))
		assert.Nil(t, req.Body)
	})

	t.Run("unencodable body", func(t *testing.T) {
		_, err := NewJSONRequest(context.Background(), http.MethodPost, "http://x/y", make(chan int))
		require.Error(t, err)
	})
}

func TestDo(t *testing.T) {
	t.Run("decodes 2xx", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"login":"inspector"}`))
		}))
		defer ts.Close()

		req, _ := NewJSONRequest(context.Background(), http.MethodGet, ts.URL+"/rest/v1.0/me", nil)
		var out struct {
			Login string `json:"login"`
		}
		code, err := Do(ts.Client(), req, &out)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "inspector", out.Login)
	})

	t.Run("non-2xx -> UpstreamError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("no access\n"))
		}))
		defer ts.Close()

		req, _ := NewJSONRequest(context.Background(), http.MethodGet, ts.URL+"/rest/v1.0/companies", nil)
		code, err := Do(ts.Client(), req, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, code)
		assert.True(t, errors.Is(err, common.ErrUpstreamHTTP))

		var ue *common.UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "/rest/v1.0/companies", ue.Path)
		assert.Equal(t, "no access", ue.Body)
	})

	t.Run("bad json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{`))
		}))
		defer ts.Close()

		req, _ := NewJSONRequest(context.Background(), http.MethodGet, ts.URL, nil)
		var out map[string]any
		_, err := Do(ts.Client(), req, &out)
		require.Error(t, err)
		assert.False(t, errors.Is(err, common.ErrUpstreamHTTP))
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		req, _ := NewJSONRequest(context.Background(), http.MethodGet, ts.URL, nil)
		code, err := Do(http.DefaultClient, req, nil)
		require.Error(t, err)
		assert.Zero(t, code)
		assert.False(t, strings.Contains(err.Error(), "status"))
	})
}
