package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["username"] != "alice" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "user_id": "u-1"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	creds, err := client.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if creds.Token != "tok-1" || creds.UserID != "u-1" {
		t.Errorf("got %+v", creds)
	}
}

func TestLoginInstallsToken(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-2", "user_id": "u-1"})
		case "/topics":
			authHeader = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{"topics": []Topic{}})
		}
	}))
	defer srv.Close()

	client := New(srv.URL)
	if _, err := client.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := client.ListTopics(context.Background(), "u-1"); err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if authHeader != "Bearer tok-2" {
		t.Errorf("expected bearer token on follow-up call, got %q", authHeader)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Login(context.Background(), "alice", "wrong")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
}

func TestSaveSectionRequiresUserID(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.SaveSection(context.Background(), "", "t-1", "Title", SectionBody, "content")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if calls != 0 {
		t.Errorf("expected no network calls, got %d", calls)
	}
}

func TestFetchSectionsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchSections(context.Background(), "u-1", "t-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchSectionsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Backend omits slots it has no content for.
		json.NewEncoder(w).Encode(map[string]string{"title": "Hello"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	secs, err := client.FetchSections(context.Background(), "u-1", "t-1")
	if err != nil {
		t.Fatalf("FetchSections: %v", err)
	}
	if secs.Title != "Hello" {
		t.Errorf("title: got %q", secs.Title)
	}
	if secs.Introduction != "" || secs.Body != "" {
		t.Errorf("expected empty slots, got %+v", secs)
	}
}

func TestGenerateSectionReadsSectionField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["section"] != "INTRODUCTION" {
			t.Errorf("section: got %q", body["section"])
		}
		if body["topic"] != "Go Generics" {
			t.Errorf("topic: got %q", body["topic"])
		}
		json.NewEncoder(w).Encode(map[string]string{"introduction": "An intro."})
	}))
	defer srv.Close()

	client := New(srv.URL)
	content, err := client.GenerateSection(context.Background(), GenerateRequest{
		UserID:  "u-1",
		TopicID: "t-1",
		Topic:   "Go Generics",
		Section: SectionIntroduction,
	})
	if err != nil {
		t.Fatalf("GenerateSection: %v", err)
	}
	if content != "An intro." {
		t.Errorf("content: got %q", content)
	}
}

func TestGenerateSectionEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.GenerateSection(context.Background(), GenerateRequest{
		UserID: "u-1", TopicID: "t-1", Topic: "x", Section: SectionTitle,
	})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
}

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["prompt"] != "make it shorter" {
			t.Errorf("prompt: got %q", body["prompt"])
		}
		if body["content"] != "<p>long text</p>" {
			t.Errorf("content: got %q", body["content"])
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "<p>short</p>"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	out, err := client.GenerateContent(context.Background(), "u-1", "t-1", "make it shorter", "<p>long text</p>")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != "<p>short</p>" {
		t.Errorf("got %q", out)
	}
}

func TestFetchWebpageEmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"html_content": ""})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.FetchWebpage(context.Background(), "u-1", "t-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty page, got %v", err)
	}
}

func TestUploadWebpage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_to_s3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"s3_url": "https://bucket/u-1/t-1.html"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	url, err := client.UploadWebpage(context.Background(), "u-1", "t-1", "<!DOCTYPE html>")
	if err != nil {
		t.Fatalf("UploadWebpage: %v", err)
	}
	if url != "https://bucket/u-1/t-1.html" {
		t.Errorf("got %q", url)
	}
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("user_id") != "u-1" || r.FormValue("topic_id") != "t-1" {
			t.Errorf("form values: user_id=%q topic_id=%q", r.FormValue("user_id"), r.FormValue("topic_id"))
		}
		f, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "pic.png" {
			t.Errorf("filename: got %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"image_url": "https://bucket/pic.png"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	url, err := client.UploadImage(context.Background(), "u-1", "t-1", "pic.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "https://bucket/pic.png" {
		t.Errorf("got %q", url)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database down"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListTopics(context.Background(), "u-1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status: got %d", reqErr.StatusCode)
	}
	if reqErr.Message != "database down" {
		t.Errorf("message: got %q", reqErr.Message)
	}
}

func TestParseSection(t *testing.T) {
	for name, want := range map[string]Section{
		"title":        SectionTitle,
		"TITLE":        SectionTitle,
		"intro":        SectionIntroduction,
		"introduction": SectionIntroduction,
		"body":         SectionBody,
	} {
		got, ok := ParseSection(name)
		if !ok || got != want {
			t.Errorf("ParseSection(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if _, ok := ParseSection("footer"); ok {
		t.Error("expected footer to be rejected")
	}
}
