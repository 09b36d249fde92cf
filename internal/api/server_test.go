package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/filingest/internal/config"
	"github.com/dgallion1/filingest/internal/edgar"
	"github.com/dgallion1/filingest/internal/pipeline"
)

const testAPIKey = "test-key"

func testServer(t *testing.T) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	cfg := config.Config{
		APIKey:              testAPIKey,
		EdgarUserAgent:      "Test Co admin@test.example",
		MaxFetchBytes:       1 << 20,
		WorkerCount:         1,
		MaxQueueSize:        10,
		MaxUploadBytes:      1 << 20,
		DefaultChunkSize:    1500,
		DefaultChunkOverlap: 200,
		JobTTL:              time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := edgar.NewClient(cfg.EdgarUserAgent, cfg.MaxFetchBytes)
	orch := pipeline.NewOrchestrator(cfg, fetcher, log)
	return NewServer(orch, log, cfg), orch
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_RejectsMissingAndWrongKey(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("<p>x</p>")))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("<p>x</p>"))
	req.Header.Set("Authorization", "Bearer wrong-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}
}

func TestParse_MergesSplitTitle(t *testing.T) {
	srv, _ := testServer(t)

	input := `<html><head><title>Form 10-Q</title></head><body>
<div><span style="font-weight:bold;font-size:10pt">PART I. FINANCI</span><span style="font-weight:bold;font-size:10pt">AL INFORMATION</span></div>
<p>Statements follow.</p>
</body></html>`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/parse?markdown=true", strings.NewReader(input)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Title    string `json:"title"`
		Elements []struct {
			Kind  string `json:"kind"`
			Tag   string `json:"tag"`
			Text  string `json:"text"`
			Level *int   `json:"level"`
		} `json:"elements"`
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Title != "Form 10-Q" {
		t.Errorf("expected title %q, got %q", "Form 10-Q", resp.Title)
	}
	if len(resp.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(resp.Elements))
	}
	if resp.Elements[0].Kind != "title" || resp.Elements[0].Text != "PART I. FINANCIAL INFORMATION" {
		t.Errorf("unexpected first element: %+v", resp.Elements[0])
	}
	if resp.Elements[0].Level == nil {
		t.Error("expected title element to carry a level")
	}
	if resp.Elements[1].Kind != "text" {
		t.Errorf("expected second element kind text, got %q", resp.Elements[1].Kind)
	}
	if !strings.Contains(resp.Markdown, "PART I. FINANCIAL INFORMATION") {
		t.Errorf("expected markdown to contain the merged heading, got %q", resp.Markdown)
	}
}

func TestParse_EmptyBody(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/parse", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
}

func TestIngest_UploadToCompletion(t *testing.T) {
	srv, orch := testServer(t)
	orch.Start(context.Background())
	defer orch.Stop()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "10q.html")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(`<html><body><h1>PART I</h1><p>` + strings.Repeat("Filing text. ", 150) + `</p></body></html>`))
	mw.Close()

	req := authedRequest(http.MethodPost, "/api/ingest", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var submitted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.JobID == "" {
		t.Fatal("expected a job_id")
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(5 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/ingest/"+submitted.JobID+"/status", nil))
		var st struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		status = st.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "completed" {
		t.Fatalf("expected job to complete, final status %q", status)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/ingest/"+submitted.JobID+"/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for result, got %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Outline struct {
			Sections []struct {
				Heading string `json:"heading"`
			} `json:"sections"`
		} `json:"outline"`
		Chunks []struct {
			Text string `json:"text"`
		} `json:"chunks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Outline.Sections) != 1 || result.Outline.Sections[0].Heading != "PART I" {
		t.Errorf("unexpected outline: %+v", result.Outline)
	}
	if len(result.Chunks) == 0 {
		t.Error("expected at least one chunk")
	}
}

func TestIngest_RejectsUnsupportedExtension(t *testing.T) {
	srv, _ := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "malware.exe")
	fw.Write([]byte("nope"))
	mw.Close()

	req := authedRequest(http.MethodPost, "/api/ingest", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIngestURL_RejectsNonHTTP(t *testing.T) {
	srv, _ := testServer(t)

	body := strings.NewReader(`{"url":"file:///etc/passwd"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/ingest/url", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIngestStatus_UnknownJob(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/ingest/nope/status", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestIngestResult_NotCompleted(t *testing.T) {
	srv, orch := testServer(t)

	// Submit without starting workers, so the job stays queued.
	job := &pipeline.Job{ID: pipeline.NewJobID(), Status: pipeline.StatusQueued, UpdatedAt: time.Now()}
	if err := orch.Submit(job); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/ingest/"+job.ID+"/result", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
