package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "vector_store": "available"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if status != "healthy" {
		t.Fatalf("unexpected status: %s", status)
	}
}

func TestListDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]any{
				{"filename": "dracula.txt", "type": "txt", "size_mb": 0.83},
				{"filename": "handbook.pdf", "type": "pdf", "size_mb": 2.4},
			},
			"count": 2,
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Filename != "dracula.txt" || docs[0].SizeMB != 0.83 {
		t.Fatalf("unexpected first document: %+v", docs[0])
	}
}

func TestAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["question"] != "who is dracula?" {
			t.Errorf("unexpected question: %q", body["question"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":  "A vampire.",
			"sources": []string{"dracula.txt"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	answer, err := client.Ask(context.Background(), "who is dracula?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if answer.Text != "A vampire." {
		t.Fatalf("unexpected answer: %q", answer.Text)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "dracula.txt" {
		t.Fatalf("unexpected sources: %v", answer.Sources)
	}
}

func TestAskSurfacesBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Vector store not found. Please upload documents first."})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Ask(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Vector store not found") {
		t.Fatalf("expected backend error string, got %q", err)
	}
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Ask(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "504") {
		t.Fatalf("expected HTTP status in error, got %q", err)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart file field: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{"message": "ok", "vector_store_updated": true})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	err := client.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
}

func TestUploadSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid file type. Allowed types: txt, pdf, doc, docx"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	err := client.Upload(context.Background(), "notes.exe", strings.NewReader("MZ"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid file type") {
		t.Fatalf("expected backend error string, got %q", err)
	}
}
