package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/create-payment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req CreatePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ServiceID != "svc-1" {
			t.Errorf("service_id = %q, want svc-1", req.ServiceID)
		}
		if req.Currency != "IRR" {
			t.Errorf("currency = %q, want IRR", req.Currency)
		}
		json.NewEncoder(w).Encode(CreatePaymentResponse{
			URL:     "https://pay.example/redirect/42",
			OrderID: req.OrderID,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "svc-1", 5*time.Second)
	resp, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{
		OrderID:     "hb_lite_1700000000000_x7y2z9",
		Amount:      500000,
		Currency:    "IRR",
		Description: "HistoryBox lite bundle",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if resp.URL != "https://pay.example/redirect/42" {
		t.Errorf("url = %q", resp.URL)
	}
	if resp.OrderID != "hb_lite_1700000000000_x7y2z9" {
		t.Errorf("order_id = %q", resp.OrderID)
	}
}

func TestCreatePaymentNoURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "svc-1", 5*time.Second)
	if _, err := client.CreatePayment(context.Background(), &CreatePaymentRequest{OrderID: "x"}); err == nil {
		t.Fatal("expected error for empty redirect url")
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/verify/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","transaction_id":"abc123","order_id":"hb_lite_1700000000000_x7y2z9","amount":500000,"currency":"IRR"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "svc-1", 5*time.Second)
	resp, err := client.Verify(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Success() {
		t.Errorf("Success() = false, status %q", resp.Status)
	}
	if resp.OrderID != "hb_lite_1700000000000_x7y2z9" {
		t.Errorf("order_id = %q", resp.OrderID)
	}
	if len(resp.Raw) == 0 {
		t.Error("raw payload not retained")
	}
}

func TestVerifyFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "svc-1", 5*time.Second)
	resp, err := client.Verify(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Success() {
		t.Error("failed status reported as success")
	}
	// id backfilled from the request when the provider omits it
	if resp.TransactionID != "abc123" {
		t.Errorf("transaction_id = %q", resp.TransactionID)
	}
}

func TestVerifyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "svc-1", 5*time.Second)
	if _, err := client.Verify(context.Background(), "abc123"); err == nil {
		t.Fatal("expected error for non-200 provider response")
	}
}
