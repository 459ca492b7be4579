package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objectKeyPattern = regexp.MustCompile(`^/storage/v1/object/covers/(\d+)_tg_42\.jpg$`)

func TestClient_UploadCover(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotUpsert string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)

		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:    server.URL,
		Bucket:     "covers",
		ServiceKey: "service-key",
	})

	url, err := client.UploadCover(context.Background(), []byte("jpeg bytes"), "tg_42.jpg")
	require.NoError(t, err)

	assert.Regexp(t, objectKeyPattern, gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, []byte("jpeg bytes"), gotBody)

	// The public URL points at the same object the upload targeted.
	key := strings.TrimPrefix(gotPath, "/storage/v1/object/covers/")
	assert.Equal(t, server.URL+"/storage/v1/object/public/covers/"+key, url)
}

func TestClient_UploadCover_StoreFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:    server.URL,
		Bucket:     "covers",
		ServiceKey: "service-key",
	})

	url, err := client.UploadCover(context.Background(), []byte("jpeg bytes"), "tg_42.jpg")
	assert.Error(t, err)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "status 409")
}

func TestClient_PublicURL(t *testing.T) {
	client := NewClient(Config{
		BaseURL: "https://project.supabase.co/",
		Bucket:  "covers",
	})

	url := client.PublicURL("123_tg_7.jpg")
	assert.Equal(t, "https://project.supabase.co/storage/v1/object/public/covers/123_tg_7.jpg", url)
}
