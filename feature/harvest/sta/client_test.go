package sta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchThings_FollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{"value": [{"@iot.id": 1}], "@iot.nextLink": %q}`, server.URL+"/Things?page=2")
		case "2":
			fmt.Fprint(w, `{"value": [{"@iot.id": 2}, {"@iot.id": 3}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Timeout: 5 * time.Second}, zap.NewNop())

	things, err := client.FetchThings(context.Background())
	require.NoError(t, err)
	require.Len(t, things, 3)
	assert.Equal(t, json.Number("1"), things[0]["@iot.id"])
	assert.Equal(t, json.Number("3"), things[2]["@iot.id"])
}

func TestFetchThings_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Token: "secret", Timeout: 5 * time.Second}, zap.NewNop())

	things, err := client.FetchThings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, things)
}

func TestFetchThings_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Timeout: 5 * time.Second}, zap.NewNop())

	_, err := client.FetchThings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestLogin_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "wonder", r.PostForm.Get("password"))
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		fmt.Fprint(w, `{"access_token": "tok-123"}`)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Timeout: 5 * time.Second}, zap.NewNop())

	token, err := client.Login(context.Background(), "alice", "wonder")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLogin_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Timeout: 5 * time.Second}, zap.NewNop())

	_, err := client.Login(context.Background(), "alice", "wonder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}

func TestFetchThings_LazyLoginWithCredentials(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Login" {
			logins++
			fmt.Fprint(w, `{"access_token": "tok-lazy"}`)
			return
		}
		assert.Equal(t, "Bearer tok-lazy", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	client := NewClient(Options{
		Endpoint: server.URL,
		Username: "alice",
		Password: "wonder",
		Timeout:  5 * time.Second,
	}, zap.NewNop())

	_, err := client.FetchThings(context.Background())
	require.NoError(t, err)
	_, err = client.FetchThings(context.Background())
	require.NoError(t, err)

	// The token is cached after the first exchange.
	assert.Equal(t, 1, logins)
}

func TestLogin_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, Timeout: 5 * time.Second}, zap.NewNop())

	_, err := client.Login(context.Background(), "alice", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login rejected")
}
