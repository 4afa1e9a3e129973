package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/core/model"
)

func captureServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, strings.TrimSpace(string(data)))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestInfluxSink_RecordPrediction(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.PredictionEvent{
		RequestID:   "req-1",
		ModelID:     "m1",
		Features:    model.NewFeatureVector(5, 14, 3, 3, 500),
		DurationSec: 612.35,
		Outcome:     coremetrics.OutcomeOK,
		Latency:     1500 * time.Microsecond,
		Time:        now,
	}
	if err := sink.RecordPrediction(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("prediction").
		AddTag("outcome", "ok").
		AddTag("component", "predictor").
		AddTag("model_id", "m1").
		AddField("latency_ms", 1.5).
		AddField("predicted_duration_sec", 612.35).
		AddField("distance_km", 5.0).
		AddField("hour", 14.0).
		AddField("day_of_week", 3.0).
		AddField("traffic_congestion", 3.0).
		AddField("osrm_time_est", 500.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(*bodies) != 1 || (*bodies)[0] != expected {
		t.Errorf("unexpected bodies: %#v", *bodies)
	}
}

func TestInfluxSink_RecordPredictionFailureOmitsFeatures(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeInvalidInput, Latency: time.Millisecond, Time: now}
	if err := sink.RecordPrediction(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("prediction").
		AddTag("outcome", "invalid_input").
		AddTag("component", "predictor").
		AddField("latency_ms", 1.0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(*bodies) != 1 || (*bodies)[0] != expected {
		t.Errorf("unexpected bodies: %#v", *bodies)
	}
}

func TestInfluxSink_RecordTraining(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.TrainingEvent{
		ModelID:  "m1",
		Samples:  120,
		Trees:    100,
		RMSE:     42.12345,
		R2:       0.91,
		Duration: 2 * time.Second,
		Time:     now,
	}
	if err := sink.RecordTraining(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("training_run").
		AddTag("model_id", "m1").
		AddTag("component", "trainer").
		AddField("samples", 120).
		AddField("trees", 100).
		AddField("rmse", 42.123).
		AddField("r2", 0.91).
		AddField("duration_ms", int64(2000)).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(*bodies) != 1 || (*bodies)[0] != exp {
		t.Errorf("bodies: %#v", *bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
