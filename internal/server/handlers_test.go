package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saps13/sip/internal/repository"
	"github.com/saps13/sip/internal/service"
	"github.com/saps13/sip/internal/supabase"
)

func newTestRouter(t *testing.T, client *supabase.MemoryClient, now time.Time) http.Handler {
	t.Helper()
	svc := service.NewSIPService(client, repository.New(client))
	svc.WithClock(func() time.Time { return now })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := NewSIPHandlers(logger, svc, nil)
	return NewRouter(logger, RouterDependencies{
		Health: BackendHealthService{Client: client},
		API:    handlers,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestSignupCreatesUser(t *testing.T) {
	client := supabase.NewMemoryClient()
	router := newTestRouter(t, client, time.Now().UTC())

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", map[string]any{
		"username": "John_Doe!",
		"password": "secret123",
		"metadata": map[string]any{"plan": "basic"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload authResponse
	decodeBody(t, rec, &payload)
	if payload.Message != "User created successfully." {
		t.Fatalf("unexpected message: %q", payload.Message)
	}
	if payload.UserID == "" {
		t.Fatal("expected a user_id in the response")
	}

	account, err := client.AccountByID(context.Background(), payload.UserID)
	if err != nil {
		t.Fatalf("account lookup failed: %v", err)
	}
	if account.Email != "johndoe@gmail.com" {
		t.Fatalf("expected derived email johndoe@gmail.com, got %q", account.Email)
	}
}

func TestSignupDuplicateIsClientError(t *testing.T) {
	client := supabase.NewMemoryClient()
	router := newTestRouter(t, client, time.Now().UTC())
	body := map[string]any{"username": "johndoe", "password": "secret123"}

	if rec := doJSON(t, router, http.MethodPost, "/auth/signup", body); rec.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var payload errorResponse
	decodeBody(t, rec, &payload)
	if payload.Error != "User already registered" {
		t.Fatalf("expected provider message to pass through, got %q", payload.Error)
	}
	if payload.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status_code 400 in envelope, got %d", payload.StatusCode)
	}
}

func TestSignupRejectsShortUsername(t *testing.T) {
	router := newTestRouter(t, supabase.NewMemoryClient(), time.Now().UTC())

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", map[string]any{
		"username": "ab",
		"password": "secret123",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, supabase.NewMemoryClient(), time.Now().UTC())

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateSIPUnknownUserIs404(t *testing.T) {
	router := newTestRouter(t, supabase.NewMemoryClient(), time.Now().UTC())

	rec := doJSON(t, router, http.MethodPost, "/auth/sip", map[string]any{
		"user_id":        "ghost",
		"scheme_name":    "Bluechip",
		"monthly_amount": 100,
		"start_date":     "2026-01-01",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload errorResponse
	decodeBody(t, rec, &payload)
	if payload.Error != "User not found" {
		t.Fatalf("unexpected error message: %q", payload.Error)
	}
	if payload.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status_code 404 in envelope, got %d", payload.StatusCode)
	}
}

func TestCreateSIPRejectsMalformedDate(t *testing.T) {
	client := supabase.NewMemoryClient()
	userID := client.SeedAccount("johndoe@gmail.com")
	router := newTestRouter(t, client, time.Now().UTC())

	rec := doJSON(t, router, http.MethodPost, "/auth/sip", map[string]any{
		"user_id":        userID,
		"scheme_name":    "Bluechip",
		"monthly_amount": 100,
		"start_date":     "01-06-2026",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSummaryFlow(t *testing.T) {
	client := supabase.NewMemoryClient()
	userID := client.SeedAccount("johndoe@gmail.com")
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	router := newTestRouter(t, client, now)

	sips := []map[string]any{
		{"user_id": userID, "scheme_name": "Bluechip", "monthly_amount": 100, "start_date": "2026-05-31"},
		{"user_id": userID, "scheme_name": "Midcap", "monthly_amount": 200, "start_date": "2026-06-15"},
		{"user_id": userID, "scheme_name": "Bluechip", "monthly_amount": 50, "start_date": "2026-03-01"},
	}
	for _, sip := range sips {
		if rec := doJSON(t, router, http.MethodPost, "/auth/sip", sip); rec.Code != http.StatusCreated {
			t.Fatalf("sip creation failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/auth/sips/summary/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload summaryResponse
	decodeBody(t, rec, &payload)
	if len(payload.Schemes) != 2 {
		t.Fatalf("expected 2 schemes, got %d", len(payload.Schemes))
	}
	bluechip := payload.Schemes[0]
	if bluechip.SchemeName != "Bluechip" {
		t.Fatalf("expected Bluechip first (store order), got %q", bluechip.SchemeName)
	}
	if bluechip.TotalInvestment != 100*3+50*5 {
		t.Fatalf("unexpected Bluechip total: %d", bluechip.TotalInvestment)
	}
	if bluechip.MonthsInvested != 3 {
		t.Fatalf("months_invested must come from the first stored record, got %d", bluechip.MonthsInvested)
	}
	if payload.TotalInvestment != 100*3+50*5+200*2 {
		t.Fatalf("unexpected grand total: %d", payload.TotalInvestment)
	}
}

func TestSummaryUnknownUserIs404(t *testing.T) {
	router := newTestRouter(t, supabase.NewMemoryClient(), time.Now().UTC())

	rec := doJSON(t, router, http.MethodGet, "/auth/sips/summary/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSummaryEmptyRecordsIsOK(t *testing.T) {
	client := supabase.NewMemoryClient()
	userID := client.SeedAccount("johndoe@gmail.com")
	router := newTestRouter(t, client, time.Now().UTC())

	rec := doJSON(t, router, http.MethodGet, "/auth/sips/summary/"+userID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload summaryResponse
	decodeBody(t, rec, &payload)
	if payload.Schemes == nil || len(payload.Schemes) != 0 {
		t.Fatalf("expected empty schemes array, got %v", payload.Schemes)
	}
	if payload.TotalInvestment != 0 {
		t.Fatalf("expected zero total, got %d", payload.TotalInvestment)
	}
}

func TestHealthzReportsBackendState(t *testing.T) {
	client := supabase.NewMemoryClient()
	router := newTestRouter(t, client, time.Now().UTC())

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	client.WithConnectivityError(io.ErrUnexpectedEOF)
	rec = doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
