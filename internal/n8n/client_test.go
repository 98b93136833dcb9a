package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binalyze/n8n-workflow-tool/internal/errors"
	"github.com/binalyze/n8n-workflow-tool/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.InitLogger(logger.DefaultConfig()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer serves a workflow list and per-id workflow details,
// checking the API key header on every request.
func newTestServer(t *testing.T, token string, list []WorkflowSummary, details map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-N8N-API-KEY") != token {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"unauthorized"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": list})
	})
	mux.HandleFunc("/api/v1/workflows/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-N8N-API-KEY") != token {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"unauthorized"}`)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/workflows/")
		body, ok := details[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	return httptest.NewServer(mux)
}

func TestFetchWorkflowByNameFirstMatchWins(t *testing.T) {
	list := []WorkflowSummary{
		{ID: "1", Name: "a"},
		{ID: "2", Name: "target"},
		{ID: "3", Name: "target"},
	}
	details := map[string]string{
		"2": `{"id":"2","name":"target","nodes":[]}`,
		"3": `{"id":"3","name":"target","nodes":["should not be fetched"]}`,
	}
	srv := newTestServer(t, "tok", list, details)
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	doc, err := client.FetchWorkflowByName(context.Background(), "target")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &got))
	assert.Equal(t, "2", got["id"])
}

func TestFetchWorkflowByNameNotFound(t *testing.T) {
	srv := newTestServer(t, "tok", []WorkflowSummary{{ID: "1", Name: "a"}}, nil)
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.FetchWorkflowByName(context.Background(), "missing-workflow")
	require.ErrorIs(t, err, errors.ErrWorkflowNotFound)
	assert.Contains(t, err.Error(), "missing-workflow")
}

func TestFetchWorkflowByNameIsCaseSensitive(t *testing.T) {
	srv := newTestServer(t, "tok", []WorkflowSummary{{ID: "1", Name: "Target"}}, nil)
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.FetchWorkflowByName(context.Background(), "target")
	require.ErrorIs(t, err, errors.ErrWorkflowNotFound)
}

func TestListWorkflowsSurfacesJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"bad token"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong")
	_, err := client.ListWorkflows(context.Background())
	require.ErrorIs(t, err, errors.ErrAPIRequestFailed)
	assert.Contains(t, err.Error(), "bad token")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestListWorkflowsTruncatesRawErrorBody(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, long)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.ListWorkflows(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Message, 200)
}

func TestGetWorkflowReturnsBodyVerbatim(t *testing.T) {
	body := `{"id":"42","name":"wf","note":"café — non-ASCII stays literal"}`
	srv := newTestServer(t, "tok", nil, map[string]string{"42": body})
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	doc, err := client.GetWorkflow(context.Background(), "42")
	require.NoError(t, err)
	assert.JSONEq(t, body, string(doc))
}

func TestProbe(t *testing.T) {
	t.Run("true on 2xx", func(t *testing.T) {
		srv := newTestServer(t, "tok", nil, nil)
		defer srv.Close()

		var out bytes.Buffer
		client := NewClient(srv.URL, "tok")
		assert.True(t, client.Probe(context.Background(), &out))
		assert.Empty(t, out.String())
	})

	t.Run("false on non-2xx with message detail", func(t *testing.T) {
		srv := newTestServer(t, "tok", nil, nil)
		defer srv.Close()

		var out bytes.Buffer
		client := NewClient(srv.URL, "wrong-token")
		assert.False(t, client.Probe(context.Background(), &out))
		assert.Contains(t, out.String(), "Status Code: 401")
		assert.Contains(t, out.String(), "unauthorized")
	})

	t.Run("false on connection failure without panicking", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // no listener anymore

		var out bytes.Buffer
		client := NewClient(srv.URL, "tok")
		assert.False(t, client.Probe(context.Background(), &out))
		assert.Contains(t, out.String(), "API Connection Test Failed")
	})
}
