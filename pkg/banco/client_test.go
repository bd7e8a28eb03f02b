package banco

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

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.BancoConfig{
		BaseURL:         server.URL,
		MerchantLegalID: "1725985302",
		Timeout:         2 * time.Second,
	}, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestAccountsByHolderAcceptsArrayAndSingleObject(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Cuentas/cliente/0102030405" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"cuenta_id": 4411, "cliente_id": "0102030405", "saldo": 900}]`))
	}))

	accounts, err := client.AccountsByHolder(context.Background(), "0102030405")
	if err != nil {
		t.Fatalf("AccountsByHolder returned error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != 4411 {
		t.Fatalf("unexpected accounts %+v", accounts)
	}

	client = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cuenta_id": 9900, "cliente_id": "1725985302"}`))
	}))
	accounts, err = client.AccountsByHolder(context.Background(), "1725985302")
	if err != nil {
		t.Fatalf("AccountsByHolder returned error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].AccountID != 9900 {
		t.Fatalf("expected single object wrapped as one account, got %+v", accounts)
	}
}

func TestAccountsByHolderRequiresLegalID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.AccountsByHolder(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTransferValidatesParams(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.CreateTransfer(context.Background(), TransferParams{OriginAccount: 1, DestinationAccount: 2, Amount: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestTransferConfirmed(t *testing.T) {
	cases := []struct {
		transfer Transfer
		want     bool
	}{
		{Transfer{Response: "OK"}, true},
		{Transfer{BankResponse: "ok"}, true},
		{Transfer{Status: " OK "}, true},
		{Transfer{Response: "PENDIENTE"}, false},
		{Transfer{}, false},
	}
	for _, tc := range cases {
		if got := tc.transfer.Confirmed(); got != tc.want {
			t.Fatalf("Confirmed() = %v for %+v, want %v", got, tc.transfer, tc.want)
		}
	}
}

func TestCreateTransferPostsExpectedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Transacciones" || r.Method != http.MethodPost {
			t.Fatalf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"transaccion_id": 88, "respuesta": "OK", "fecha_transaccion": "2025-06-10T12:00:00Z"}`))
	}))

	transfer, err := client.CreateTransfer(context.Background(), TransferParams{
		OriginAccount:      4411,
		DestinationAccount: 9900,
		Amount:             108.89,
		Memo:               "Pago reserva UrbanDrive #7",
	})
	if err != nil {
		t.Fatalf("CreateTransfer returned error: %v", err)
	}
	if transfer.TransactionID != 88 || !transfer.Confirmed() {
		t.Fatalf("unexpected transfer %+v", transfer)
	}
}
