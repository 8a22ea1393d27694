package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signal-enginev1/internal/model"
)

func sampleSized() *model.SizedSignal {
	return &model.SizedSignal{
		Signal: model.Signal{
			Symbol:      "BTC/USDT",
			Timeframe:   "1h",
			Direction:   model.DirectionLong,
			EntryPrice:  109.8,
			StopLoss:    106.8,
			TakeProfit:  118.8,
			GeneratedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
			Trend:       model.TrendBullish,
			RSI:         55.2,
			VolumeRatio: 1.8,
		},
		PositionSize:    66.6667,
		RiskAmount:      200,
		ProfitPotential: 600,
		RiskPercent:     2,
		CapitalSnapshot: 10000,
	}
}

func TestWebhookSend_SignalPayloadIsStructured(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Send(context.Background(), SignalAlert(sampleSized())); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Event != "signal" {
		t.Errorf("event = %q, want signal", got.Event)
	}
	if got.Signal == nil {
		t.Fatal("payload is missing the structured signal")
	}
	if got.Signal.Symbol != "BTC/USDT" || got.Signal.Direction != model.DirectionLong {
		t.Errorf("signal identity: %+v", got.Signal.Signal)
	}
	if got.Signal.EntryPrice != 109.8 || got.Signal.StopLoss != 106.8 || got.Signal.TakeProfit != 118.8 {
		t.Errorf("signal prices: %+v", got.Signal.Signal)
	}
	if got.Signal.PositionSize != 66.6667 || got.Signal.RiskAmount != 200 {
		t.Errorf("signal sizing: %+v", got.Signal)
	}
	if got.SentAt == "" {
		t.Error("sent_at missing")
	}
}

func TestWebhookSend_ReportPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	alert := Alert{Level: AlertInfo, Title: "Daily trading report", Message: "Capital: 10000.00"}
	if err := n.Send(context.Background(), alert); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Event != "report" {
		t.Errorf("event = %q, want report", got.Event)
	}
	if got.Signal != nil {
		t.Error("report payload should not carry a signal")
	}
}

func TestWebhookSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Send(context.Background(), Alert{Title: "x"}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
