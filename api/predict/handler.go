// Package predict serves travel duration predictions over HTTP.
package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/routetime/core/logger"
	"github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/core/prediction"
)

// SuccessMessage is returned with every successful prediction.
const SuccessMessage = "Prediction successful"

// RequestIDHeader carries the request id set by the router middleware.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 1 << 20

// Predictor produces a duration estimate for one request.
type Predictor interface {
	Predict(ctx context.Context, in prediction.Input) (prediction.Result, error)
}

// Response is the body of a successful prediction.
type Response struct {
	PredictedDurationSec float64 `json:"predicted_duration_sec"`
	Message              string  `json:"message"`
}

// ErrorResponse is the body of a failed prediction.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Handler answers POST /predict.
type Handler struct {
	pred    Predictor
	modelID string
	metrics metrics.MetricsSink
	logger  logger.Logger
	now     func() time.Time
}

// NewHandler returns a prediction handler. sink may be nil.
func NewHandler(pred Predictor, modelID string, sink metrics.MetricsSink, log logger.Logger) *Handler {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Handler{pred: pred, modelID: modelID, metrics: sink, logger: log, now: time.Now}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	start := h.now()

	var res prediction.Result
	in, err := decode(w, r)
	if err == nil {
		res, err = h.pred.Predict(r.Context(), in)
	}

	ev := metrics.PredictionEvent{
		RequestID: r.Header.Get(RequestIDHeader),
		ModelID:   h.modelID,
		Features:  res.Features,
		Time:      start.UTC(),
	}
	if err != nil {
		kind := prediction.KindOf(err)
		status := http.StatusBadRequest
		if kind == prediction.KindInference {
			status = http.StatusInternalServerError
			h.logger.Errorf("prediction %s failed: %v", ev.RequestID, err)
		} else {
			h.logger.Debugf("prediction %s rejected: %v", ev.RequestID, err)
		}
		ev.Outcome = kind
		ev.Error = err.Error()
		writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
	} else {
		ev.Outcome = metrics.OutcomeOK
		ev.DurationSec = res.DurationSec
		writeJSON(w, http.StatusOK, Response{PredictedDurationSec: res.DurationSec, Message: SuccessMessage})
	}
	ev.Latency = h.now().Sub(start)
	if rerr := h.metrics.RecordPrediction(ev); rerr != nil {
		h.logger.Warnf("record prediction metrics: %v", rerr)
	}
}

// decode reads the request body into an Input. The body must hold exactly
// one JSON value. Every decoding problem is an InputError so the client gets
// a 400.
func decode(w http.ResponseWriter, r *http.Request) (prediction.Input, error) {
	var in prediction.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return in, &prediction.InputError{Reason: "request body must be a JSON object"}
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return in, &prediction.InputError{Field: typeErr.Field, Reason: "must be a number"}
		case errors.As(err, &typeErr):
			return in, &prediction.InputError{Reason: "request body must be a JSON object"}
		case errors.As(err, &maxErr):
			return in, &prediction.InputError{Reason: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		default:
			return in, &prediction.InputError{Reason: "malformed JSON: " + err.Error()}
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return in, &prediction.InputError{Reason: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		}
		return in, &prediction.InputError{Reason: "malformed JSON: trailing data"}
	}
	return in, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
