package jira_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/jira-requester/internal/adapter/outbound/jira"
)

func newTestClient(t *testing.T, handler http.Handler) (*jira.Client, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := jira.NewClient(jira.Config{
		BaseURL:  server.URL,
		Email:    "test@example.com",
		APIToken: "test-token",
		Timeout:  5 * time.Second,
	}, logger)
	require.NoError(t, err)
	return client, &hits
}

func TestClient_FetchTicket(t *testing.T) {
	issueBody := `{"id":"10001","key":"PROJ-123","fields":{"summary":"Test"}}`

	tests := []struct {
		name       string
		inExpand   []string
		inFields   []string
		wantFields string
		wantExpand string
	}{
		{
			name:       "Default fields when none given",
			wantFields: "summary,description,comment",
			wantExpand: "",
		},
		{
			name:       "Default fields when empty slice given",
			inFields:   []string{},
			wantFields: "summary,description,comment",
		},
		{
			name:       "Explicit fields and expand",
			inExpand:   []string{"names"},
			inFields:   []string{"summary"},
			wantFields: "summary",
			wantExpand: "names",
		},
		{
			name:       "Multiple expand values are comma-joined",
			inExpand:   []string{"names", "renderedFields"},
			inFields:   []string{"summary", "status"},
			wantFields: "summary,status",
			wantExpand: "names,renderedFields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			client, hits := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(http.MethodGet, r.Method)
				assert.Equal("/rest/api/2/issue/PROJ-123", r.URL.Path)
				assert.Equal(tt.wantFields, r.URL.Query().Get("fields"))
				assert.Equal(tt.wantExpand, r.URL.Query().Get("expand"))

				user, pass, ok := r.BasicAuth()
				assert.True(ok)
				assert.Equal("test@example.com", user)
				assert.Equal("test-token", pass)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(issueBody))
			}))

			result, err := client.FetchTicket(context.Background(), "PROJ-123", tt.inExpand, tt.inFields)
			require.NoError(err)
			raw, ok := result.(json.RawMessage)
			require.True(ok, "expected json.RawMessage, got %T", result)
			assert.JSONEq(issueBody, string(raw))
			assert.Equal(int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestClient_FetchTicket_KeepsUpstreamBody(t *testing.T) {
	issueBody := `{
		"expand": "renderedFields,names,schema",
		"id": "10001",
		"key": "PROJ-123",
		"fields": {
			"summary": "Login fails",
			"description": null,
			"status": {"name": "Open"},
			"comment": {"comments": [{"id": "1", "body": "Confirmed"}], "maxResults": 1, "total": 1, "startAt": 0},
			"customfield_10010": [1, 2]
		},
		"renderedFields": {"description": "<p>hi</p>"},
		"names": {"summary": "Summary"},
		"schema": {"summary": {"type": "string", "system": "summary"}}
	}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "names,renderedFields,schema", r.URL.Query().Get("expand"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(issueBody))
	}))

	result, err := client.FetchTicket(context.Background(), "PROJ-123", []string{"names", "renderedFields", "schema"}, nil)
	require.NoError(t, err)
	raw, ok := result.(json.RawMessage)
	require.True(t, ok, "expected json.RawMessage, got %T", result)
	assert.JSONEq(t, issueBody, string(raw))
}

func TestClient_FetchTicket_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key":`))
	}))

	result, err := client.FetchTicket(context.Background(), "PROJ-1", nil, nil)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to fetch Jira ticket PROJ-1")
}

func TestClient_FetchTicket_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist or you do not have permission to see it."],"errors":{}}`))
	}))

	result, err := client.FetchTicket(context.Background(), "PROJ-404", nil, nil)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "failed to fetch Jira ticket PROJ-404")
	assert.ErrorContains(t, err, "Issue does not exist")
}

func TestClient_FetchTicket_InvalidID(t *testing.T) {
	invalidIDs := []string{
		"INVALID_FORMAT",
		"../etc/passwd",
		"PROJ-123/../../admin",
		"proj-123",
	}

	for _, id := range invalidIDs {
		t.Run(id, func(t *testing.T) {
			client, hits := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			result, err := client.FetchTicket(context.Background(), id, nil, nil)
			assert.Nil(t, result)
			assert.EqualError(t, err, "invalid ticket ID format: "+id)
			assert.Zero(t, atomic.LoadInt32(hits), "no request should reach Jira")
		})
	}
}

func TestClient_FetchTicket_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchTicket(ctx, "PROJ-1", nil, nil)
	assert.ErrorContains(t, err, "failed to fetch Jira ticket PROJ-1")
}
