package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
	"github.com/AnikS22/Scribe-checker/internal/model"
)

type stubRunner struct {
	report *model.FinalReport
	err    error
	gotIn  string
	calls  int
}

func (s *stubRunner) Run(_ context.Context, transcript string) (*model.FinalReport, error) {
	s.calls++
	s.gotIn = transcript
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func testRouter(runner *stubRunner, tr *stubTranscriber) http.Handler {
	cfg := &config.Config{APIKey: "secret"}
	h := NewHandlers(runner, tr, zerolog.Nop())
	return NewRouter(cfg, h, zerolog.Nop())
}

func emptyReport() *model.FinalReport {
	return &model.FinalReport{
		ICDCodes:            []string{"M54.5"},
		RecommendedCPTCodes: []model.CandidateCode{},
		LCDValidation:       []model.LCDValidation{},
		QPPMeasures:         []model.QPPMeasure{},
	}
}

func TestSubmitTranscript(t *testing.T) {
	runner := &stubRunner{report: emptyReport()}
	router := testRouter(runner, &stubTranscriber{})

	body := `{"transcript": "patient reports back pain", "patient_id": "p-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts", strings.NewReader(body))
	req.Header.Set("X-API-Key", "secret")
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if runner.gotIn != "patient reports back pain" {
		t.Errorf("pipeline received %q", runner.gotIn)
	}

	var out model.FinalReport
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.ICDCodes) != 1 || out.ICDCodes[0] != "M54.5" {
		t.Errorf("icd_codes = %v", out.ICDCodes)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestSubmitTranscript_AuthRequired(t *testing.T) {
	runner := &stubRunner{report: emptyReport()}
	router := testRouter(runner, &stubTranscriber{})

	for name, key := range map[string]string{"missing": "", "wrong": "nope"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts",
				strings.NewReader(`{"transcript": "x"}`))
			if key != "" {
				req.Header.Set("X-API-Key", key)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "API key") {
				t.Errorf("body = %s", rr.Body)
			}
		})
	}
	if runner.calls != 0 {
		t.Errorf("pipeline ran %d times for unauthenticated requests", runner.calls)
	}
}

func TestSubmitTranscript_BadRequests(t *testing.T) {
	for name, body := range map[string]string{
		"not json":         `{{{`,
		"empty transcript": `{"transcript": ""}`,
		"no transcript":    `{"patient_id": "p-1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			runner := &stubRunner{report: emptyReport()}
			router := testRouter(runner, &stubTranscriber{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts", strings.NewReader(body))
			req.Header.Set("X-API-Key", "secret")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
			}
			if runner.calls != 0 {
				t.Errorf("pipeline ran %d times", runner.calls)
			}
		})
	}
}

func TestSubmitTranscript_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"backend down", fmt.Errorf("%w: dial refused", apperrors.ErrBackendUnavailable), http.StatusBadGateway},
		{"bad upstream output", fmt.Errorf("%w: not json", apperrors.ErrMalformedResponse), http.StatusBadGateway},
		{"validation", fmt.Errorf("%w: empty transcript", apperrors.ErrValidation), http.StatusBadRequest},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router := testRouter(&stubRunner{err: c.err}, &stubTranscriber{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts",
				strings.NewReader(`{"transcript": "x"}`))
			req.Header.Set("X-API-Key", "secret")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != c.status {
				t.Fatalf("status = %d, want %d", rr.Code, c.status)
			}
			// Bodies stay opaque regardless of the internal cause.
			if strings.Contains(rr.Body.String(), "dial refused") || strings.Contains(rr.Body.String(), "boom") {
				t.Errorf("internal cause leaked: %s", rr.Body)
			}
		})
	}
}

func audioRequest(t *testing.T, contentType string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="visit.mp3"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audio", &buf)
	req.Header.Set("X-API-Key", "secret")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSubmitAudio(t *testing.T) {
	runner := &stubRunner{report: emptyReport()}
	tr := &stubTranscriber{text: "patient reports knee pain"}
	router := testRouter(runner, tr)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, audioRequest(t, "audio/mpeg", []byte("fake mp3 bytes")))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if tr.calls != 1 {
		t.Errorf("transcriber calls = %d", tr.calls)
	}
	if runner.gotIn != "patient reports knee pain" {
		t.Errorf("pipeline received %q", runner.gotIn)
	}
}

func TestSubmitAudio_RejectsUnsupportedType(t *testing.T) {
	runner := &stubRunner{report: emptyReport()}
	tr := &stubTranscriber{text: "x"}
	router := testRouter(runner, tr)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, audioRequest(t, "video/mp4", []byte("not audio")))

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	// Rejected before any backend work.
	if tr.calls != 0 || runner.calls != 0 {
		t.Errorf("transcriber calls = %d, pipeline calls = %d", tr.calls, runner.calls)
	}
}

func TestSubmitAudio_MissingFilePart(t *testing.T) {
	router := testRouter(&stubRunner{report: emptyReport()}, &stubTranscriber{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audio", strings.NewReader("no multipart"))
	req.Header.Set("X-API-Key", "secret")
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
}

func TestHealthIsOpen(t *testing.T) {
	router := testRouter(&stubRunner{}, &stubTranscriber{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("body = %s", rr.Body)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(&stubRunner{}, &stubTranscriber{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transcripts", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}
