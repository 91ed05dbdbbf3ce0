package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DefaultHeaders(t *testing.T) {
	var gotAccept, gotContentType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL, Token: "tok123"})
	require.NoError(t, err)

	resp, err := tr.Get("/Users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/scim+json", gotAccept)
	assert.Equal(t, "application/scim+json", gotContentType)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestGet_BasicAuthFallback(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL, Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = tr.Get("/Users")
	require.NoError(t, err)
	assert.Contains(t, gotAuth, "Basic ")
}

func TestGet_BearerTakesPrecedenceOverBasic(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL, Token: "tok", Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = tr.Get("/Users")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestPost_EncodesJSONBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := tr.Post("/Users", map[string]interface{}{"userName": "bob"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Contains(t, gotBody, "bob")
}

func TestRequest_RetriesOn429ThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	start := time.Now()
	resp, err := tr.Get("/Users")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, 3, attempts)
	assert.GreaterOrEqual(t, elapsed, 2*time.Second)
}

func TestRequest_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := tr.Get("/Users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, 4, attempts)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, defaultRetryAfter, parseRetryAfter(""))
	assert.Equal(t, defaultRetryAfter, parseRetryAfter("not-a-number"))
	assert.Equal(t, minRetryAfter, parseRetryAfter("0"))
	assert.Equal(t, 5*time.Second, parseRetryAfter("5"))
}

func TestRedactAuth_DoesNotMutateInput(t *testing.T) {
	original := http.Header{}
	original.Set("Authorization", "Bearer secret")
	original.Set("Accept", "application/scim+json")

	redacted := RedactAuth(original)
	assert.Equal(t, "***REDACTED***", redacted.Get("Authorization"))
	assert.Equal(t, "Bearer secret", original.Get("Authorization"))
	assert.Equal(t, "application/scim+json", redacted.Get("Accept"))
}

func TestResponse_JSON_EmptyBody(t *testing.T) {
	r := &Response{Status: 204, Body: ""}
	data, err := r.JSON()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestResponse_JSON_CachesResult(t *testing.T) {
	r := &Response{Status: 200, Body: `{"id":"abc"}`}
	data1, err := r.JSON()
	require.NoError(t, err)
	data2, err := r.JSON()
	require.NoError(t, err)
	assert.Equal(t, data1, data2)
	assert.Equal(t, "abc", data1["id"])
}
