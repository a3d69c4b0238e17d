package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
	"github.com/AnikS22/Scribe-checker/internal/model"
	"github.com/AnikS22/Scribe-checker/internal/transcribe"
)

// maxAudioBytes bounds audio uploads (the transcription backend's own cap).
const maxAudioBytes = 25 << 20

// allowedAudioTypes is the fixed inbound content-type allow-list. Anything
// else is rejected before any backend call is made.
var allowedAudioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp3":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/mp4":   true,
}

// Runner is the pipeline surface the handlers depend on.
type Runner interface {
	Run(ctx context.Context, transcript string) (*model.FinalReport, error)
}

// Handlers serves the gateway endpoints.
type Handlers struct {
	pipeline    Runner
	transcriber transcribe.Transcriber
	log         zerolog.Logger
}

// NewHandlers wires the handler set.
func NewHandlers(p Runner, t transcribe.Transcriber, log zerolog.Logger) *Handlers {
	return &Handlers{pipeline: p, transcriber: t, log: log}
}

// transcriptRequest is the inbound JSON body for text submissions.
type transcriptRequest struct {
	Transcript string `json:"transcript"`
	PatientID  string `json:"patient_id,omitempty"`
	VisitDate  string `json:"visit_date,omitempty"`
}

// SubmitTranscript processes a text transcript into a final report.
func (h *Handlers) SubmitTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: body is not valid JSON", apperrors.ErrValidation))
		return
	}
	if req.Transcript == "" {
		h.fail(w, r, fmt.Errorf("%w: transcript is required", apperrors.ErrValidation))
		return
	}

	h.log.Info().
		Str("request_id", RequestIDFrom(r.Context())).
		Str("patient_id", req.PatientID).
		Msg("processing transcript")

	report, err := h.pipeline.Run(r.Context(), req.Transcript)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// SubmitAudio transcribes an uploaded recording, then runs the same
// pipeline over the transcript.
func (h *Handlers) SubmitAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: file part is required", apperrors.ErrValidation))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedAudioTypes[contentType] {
		h.fail(w, r, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedMedia, contentType))
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: reading upload", apperrors.ErrValidation))
		return
	}

	h.log.Info().
		Str("request_id", RequestIDFrom(r.Context())).
		Str("file", header.Filename).
		Int("bytes", len(audio)).
		Msg("transcribing audio")

	transcript, err := h.transcriber.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report, err := h.pipeline.Run(r.Context(), transcript)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// fail logs the real cause server-side and renders the opaque body.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().
		Err(err).
		Str("request_id", RequestIDFrom(r.Context())).
		Msg("request failed")
	writeError(w, r, err)
}

// errorBody is the opaque failure shape returned to clients. Internal causes
// are logged server-side, never rendered here.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func errUnauthorized() error {
	return apperrors.ErrUnauthorized
}

// writeError maps the failure taxonomy to status codes with generic bodies.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "invalid or missing API key"
	case errors.Is(err, apperrors.ErrUnsupportedMedia):
		status, msg = http.StatusUnsupportedMediaType, "unsupported audio content type"
	case errors.Is(err, apperrors.ErrValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, apperrors.ErrBackendUnavailable):
		status, msg = http.StatusBadGateway, "upstream service unavailable"
	case errors.Is(err, apperrors.ErrMalformedResponse):
		status, msg = http.StatusBadGateway, "upstream service returned an unusable response"
	}

	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: msg, RequestID: RequestIDFrom(r.Context())})
}
