package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Response{Status: StatusSuccess, Data: json.RawMessage(`{"ok":true}`)})
	}))
	defer srv.Close()

	client := New(srv.URL, WithTokenSource(func() string { return "tok-123" }))
	resp, err := client.Get(context.Background(), "/v1/profile")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestClientPostJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "ayu@example.com" {
			t.Errorf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(Response{Status: StatusSuccess})
	}))
	defer srv.Close()

	client := New(srv.URL)
	resp, err := client.Post(context.Background(), "/v1/auth/login", map[string]string{"email": "ayu@example.com"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestClientPostFormMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("tag"); got != "hero-banner" {
			t.Errorf("unexpected tag field: %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if string(data) != "fake-png" || header.Filename != "hero.png" {
				t.Errorf("unexpected file: %q %q", data, header.Filename)
			}
		}
		_ = json.NewEncoder(w).Encode(Response{Status: StatusSuccess})
	}))
	defer srv.Close()

	client := New(srv.URL)
	resp, err := client.PostForm(context.Background(), "/v1/content/hero-banner/upload",
		map[string]string{"tag": "hero-banner"}, "image", "hero.png", strings.NewReader("fake-png"))
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestClientNormalizesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(Response{Status: StatusError, Message: "order not found"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	resp, err := client.Get(context.Background(), "/v1/orders/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.OK() || resp.Message != "order not found" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestClientNormalizesNonEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	resp, err := client.Get(context.Background(), "/v1/armada")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.OK() || resp.Message == "" {
		t.Fatalf("expected normalized error, got %+v", resp)
	}
}

func TestClientTransportFailure(t *testing.T) {
	client := New("http://127.0.0.1:1")
	resp, err := client.Get(context.Background(), "/v1/armada")
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if resp.Status != StatusError {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
}

func TestResponseDecodeData(t *testing.T) {
	resp := Response{Status: StatusSuccess, Data: json.RawMessage(`{"name":"Bali 3D2N"}`)}
	var out struct {
		Name string `json:"name"`
	}
	if err := resp.DecodeData(&out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if out.Name != "Bali 3D2N" {
		t.Fatalf("unexpected data: %+v", out)
	}
	if err := (Response{}).DecodeData(&out); err == nil {
		t.Fatalf("expected error for empty data")
	}
}
