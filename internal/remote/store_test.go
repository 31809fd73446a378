package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/clasp-sub000/internal/types"
)

func TestFetch(t *testing.T) {
	const scriptID = "script-123"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/projects/"+scriptID+"/content" {
			t.Errorf("path = %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"scriptId": scriptID,
			"files": []map[string]string{
				{"name": "appsscript", "type": "JSON", "source": "{}"},
				{"name": "Code", "type": "SERVER_JS", "source": "function f() {}"},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.Client(), server.URL)

	files, err := client.Fetch(context.Background(), scriptID, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("file count = %d, want 2", len(files))
	}
	if files[0].Name != "appsscript" || files[0].Type != types.JSON {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[1].Source != "function f() {}" {
		t.Errorf("files[1].Source = %q", files[1].Source)
	}
}

func TestFetchVersionNumber(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"files": []map[string]string{}})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.Client(), server.URL)

	version := 7
	if _, err := client.Fetch(context.Background(), "id", &version); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotQuery != "versionNumber=7" {
		t.Errorf("query = %q, want versionNumber=7", gotQuery)
	}
}

func TestUpdate(t *testing.T) {
	const scriptID = "script-123"
	var gotBody contentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"scriptId": scriptID})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.Client(), server.URL)

	files := []types.RemoteFile{
		{Name: "appsscript", Type: types.JSON, Source: "{}"},
		{Name: "Code", Type: types.ServerJS, Source: "function f() {}"},
	}
	if err := client.Update(context.Background(), scriptID, files); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(gotBody.Files) != 2 {
		t.Fatalf("uploaded file count = %d, want 2", len(gotBody.Files))
	}
	if gotBody.Files[1].Type != types.ServerJS {
		t.Errorf("uploaded type = %q, want SERVER_JS", gotBody.Files[1].Type)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Requested entity was not found.",
				"status":  "NOT_FOUND",
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "missing", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Status != "NOT_FOUND" {
		t.Errorf("Status = %q, want NOT_FOUND", apiErr.Status)
	}
	if apiErr.Message != "Requested entity was not found." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestAPIErrorUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.Client(), server.URL)

	err := client.Update(context.Background(), "id", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}
