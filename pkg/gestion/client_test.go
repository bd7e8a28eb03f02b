package gestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urbandrive/storefront/pkg/config"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.GestionConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client, server
}

func TestGetReservationNormalizesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservas/7" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"IdReserva": 7, "Total": 100, "Estado": "Pendiente"}}`))
	}))

	reservation, err := client.GetReservation(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetReservation returned error: %v", err)
	}
	if reservation.ID != 7 || reservation.Status != "Pendiente" {
		t.Fatalf("unexpected reservation %+v", reservation)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		_, err := client.GetReservation(context.Background(), 1)
		if err == nil {
			t.Fatalf("expected error for status %d", tc.status)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != tc.code {
			t.Fatalf("status %d: expected code %s, got %v", tc.status, tc.code, err)
		}
	}
}

func TestAddCartItemAcceptsNumberAndObjectResponses(t *testing.T) {
	params := AddCartItemParams{UserID: 3, VehicleID: 5, StartDate: "2025-06-10", EndDate: "2025-06-15"}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`42`))
	}))
	cartID, err := client.AddCartItem(context.Background(), params)
	if err != nil || cartID != 42 {
		t.Fatalf("expected cart id 42 from numeric body, got %d (err %v)", cartID, err)
	}

	client, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"carritoId": 42}`))
	}))
	cartID, err = client.AddCartItem(context.Background(), params)
	if err != nil || cartID != 42 {
		t.Fatalf("expected cart id 42 from object body, got %d (err %v)", cartID, err)
	}
}

func TestListTransmissionsFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	transmissions := client.ListTransmissions(context.Background())
	if len(transmissions) != 3 {
		t.Fatalf("expected fallback transmissions, got %v", transmissions)
	}
	if transmissions[0].Code != "MT" {
		t.Fatalf("expected MT first, got %v", transmissions[0])
	}
}

func TestGetCartByUserReturnsNilWhenEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))

	cart, err := client.GetCartByUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetCartByUser returned error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}
