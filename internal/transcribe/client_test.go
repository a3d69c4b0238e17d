package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
)

func testConfig(srv *httptest.Server) *config.Config {
	return &config.Config{
		BackendBaseURL:  srv.URL,
		BackendAPIKey:   "test-key",
		TranscribeModel: "whisper-1",
		MaxRetries:      0,
		RequestTimeout:  5 * time.Second,
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("response_format"); got != "text" {
			t.Errorf("response_format = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "visit.mp3" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake audio" {
			t.Errorf("audio = %q", data)
		}
		w.Write([]byte("Patient reports back pain.\n"))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv), zerolog.Nop())
	text, err := c.Transcribe(context.Background(), []byte("fake audio"), "visit.mp3")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "Patient reports back pain." {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv), zerolog.Nop())
	_, err := c.Transcribe(context.Background(), []byte("x"), "a.mp3")
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}
