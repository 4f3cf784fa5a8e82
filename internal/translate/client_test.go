package translate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"subvox/internal/translate"
)

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("q"); got != "Hello there" {
			t.Errorf("q = %q", got)
		}
		if got := r.PostForm.Get("source"); got != "en" {
			t.Errorf("source = %q", got)
		}
		if got := r.PostForm.Get("target"); got != "fr" {
			t.Errorf("target = %q", got)
		}
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Bonjour"}]}}`))
	}))
	defer server.Close()

	client := translate.NewClient(translate.Config{APIKey: "key", BaseURL: server.URL})
	got, err := client.Translate(context.Background(), "Hello there", "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Bonjour" {
		t.Fatalf("translated = %q", got)
	}
}

func TestTranslateEmptySentencePassesThrough(t *testing.T) {
	client := translate.NewClient(translate.Config{APIKey: "key", BaseURL: "http://localhost:1"})
	got, err := client.Translate(context.Background(), "", "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty passthrough, got %q", got)
	}
}

func TestTranslateRequiresAPIKey(t *testing.T) {
	client := translate.NewClient(translate.Config{})
	if _, err := client.Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestTranslateSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := translate.NewClient(translate.Config{APIKey: "key", BaseURL: server.URL})
	if _, err := client.Translate(context.Background(), "hello", "en", "fr"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
