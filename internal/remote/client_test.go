package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ray/billdesk/internal/domain"
)

func TestResourceList_DecodesCollection(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]*domain.Builder{
			{ID: "b1", CompanyName: "ACME Homes", Email: "billing@acme.test"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", nil)
	builders, err := client.Builders().List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(builders) != 1 || builders[0].CompanyName != "ACME Homes" {
		t.Errorf("unexpected result: %+v", builders)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/builders" {
		t.Errorf("expected /builders, got %q", gotPath)
	}
}

func TestResourceAdd_ReturnsStoredCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var in domain.Expense
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// The server owns canonical state and may rewrite fields.
		in.ID = "server-assigned"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&in)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", nil)
	created, err := client.Expenses().Add(context.Background(), &domain.Expense{Category: "materials"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "server-assigned" {
		t.Errorf("expected the stored copy back, got %+v", created)
	}
}

func TestResourceUpdate_PutsToEntityPath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&domain.Invoice{ID: "inv-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", nil)
	_, err := client.Invoices().Update(context.Background(), &domain.Invoice{ID: "inv-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/invoices/inv-1" {
		t.Errorf("expected PUT /invoices/inv-1, got %s %s", gotMethod, gotPath)
	}
}

func TestResourceDelete_NoBody(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", nil)
	if err := client.Expenses().Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/expenses/e1" {
		t.Errorf("expected DELETE /expenses/e1, got %s %s", gotMethod, gotPath)
	}
}

func TestClient_ErrorsCarrySyncContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invoice number already taken", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", nil)
	_, err := client.Invoices().Add(context.Background(), &domain.Invoice{})
	if err == nil {
		t.Fatal("expected error")
	}

	var serr *SyncError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SyncError, got %T", err)
	}
	if serr.Op != "add" || serr.Entity != "invoices" {
		t.Errorf("expected add/invoices, got %s/%s", serr.Op, serr.Entity)
	}
	if serr.StatusCode != http.StatusConflict {
		t.Errorf("expected status 409, got %d", serr.StatusCode)
	}
}

func TestClient_NetworkFailureHasNoStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, "", nil)
	_, err := client.Builders().List(context.Background())

	var serr *SyncError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SyncError, got %v", err)
	}
	if serr.StatusCode != 0 {
		t.Errorf("expected zero status for a network failure, got %d", serr.StatusCode)
	}
}
