package gestion

import (
	"testing"
)

func TestNormalizeReservationAcceptsEnvelopeAndCasing(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"pascal bare", `{"IdReserva": 7, "IdUsuario": 3, "FechaInicio": "2025-06-10T00:00:00", "FechaFin": "2025-06-15", "Total": 250.5, "Estado": "Pendiente"}`},
		{"camel wrapped", `{"data": {"idReserva": 7, "idUsuario": 3, "fechaInicio": "2025-06-10", "fechaFin": "2025-06-15", "total": 250.5, "estado": "Pendiente"}}`},
		{"snake bare", `{"id_reserva": 7, "id_usuario": 3, "fecha_inicio": "2025-06-10", "fecha_fin": "2025-06-15", "total": 250.5, "estado": "Pendiente"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reservation, err := normalizeReservation([]byte(tc.payload))
			if err != nil {
				t.Fatalf("normalizeReservation returned error: %v", err)
			}
			if reservation.ID != 7 {
				t.Fatalf("expected id 7, got %d", reservation.ID)
			}
			if reservation.UserID != 3 {
				t.Fatalf("expected user id 3, got %d", reservation.UserID)
			}
			if reservation.StartDate != "2025-06-10" {
				t.Fatalf("expected date-only start, got %q", reservation.StartDate)
			}
			if reservation.Total != 250.5 {
				t.Fatalf("expected total 250.5, got %v", reservation.Total)
			}
		})
	}
}

func TestNormalizeReservationFailsOnMissingID(t *testing.T) {
	if _, err := normalizeReservation([]byte(`{"Total": 100}`)); err == nil {
		t.Fatal("expected error for payload without IdReserva")
	}
}

func TestNormalizePaymentPrefersExternalRef(t *testing.T) {
	payment, err := normalizePayment([]byte(`{"IdPago": 2, "IdReserva": 9, "Monto": 108.89, "ReferenciaExterna": "4411", "Estado": "Exitoso"}`))
	if err != nil {
		t.Fatalf("normalizePayment returned error: %v", err)
	}
	if payment.ExternalRef != "4411" {
		t.Fatalf("expected external ref 4411, got %q", payment.ExternalRef)
	}

	payment, err = normalizePayment([]byte(`{"idPago": 2, "id_reserva": 9, "monto": 108.89, "cuenta_origen": 4411}`))
	if err != nil {
		t.Fatalf("normalizePayment returned error: %v", err)
	}
	if payment.ExternalRef != "4411" {
		t.Fatalf("expected fallback to cuenta_origen, got %q", payment.ExternalRef)
	}
}

func TestDecodeListShapes(t *testing.T) {
	fromArray, err := decodeList([]byte(`[{"a":1},{"a":2}]`))
	if err != nil || len(fromArray) != 2 {
		t.Fatalf("expected 2 elements from bare array, got %d (err %v)", len(fromArray), err)
	}

	fromEnvelope, err := decodeList([]byte(`{"data":[{"a":1}]}`))
	if err != nil || len(fromEnvelope) != 1 {
		t.Fatalf("expected 1 element from envelope, got %d (err %v)", len(fromEnvelope), err)
	}

	fromSingle, err := decodeList([]byte(`{"a":1}`))
	if err != nil || len(fromSingle) != 1 {
		t.Fatalf("expected single object as one element, got %d (err %v)", len(fromSingle), err)
	}

	fromNull, err := decodeList([]byte(`null`))
	if err != nil || fromNull != nil {
		t.Fatalf("expected empty result for null, got %v (err %v)", fromNull, err)
	}

	if _, err := decodeList([]byte(`"nope"`)); err == nil {
		t.Fatal("expected error for scalar payload")
	}
}

func TestNormalizeCartCollectsItems(t *testing.T) {
	payload := `{"data": {"IdCarrito": 11, "Items": [
		{"IdItem": 1, "IdVehiculo": 5, "FechaInicio": "2025-06-10", "FechaFin": "2025-06-15", "Subtotal": 200},
		{"idItem": 2, "id_vehiculo": 6, "fecha_inicio": "2025-07-01T00:00:00", "fecha_fin": "2025-07-03", "subtotal": 90}
	]}}`

	cart, err := normalizeCart([]byte(payload), 3)
	if err != nil {
		t.Fatalf("normalizeCart returned error: %v", err)
	}
	if cart.ID != 11 {
		t.Fatalf("expected cart id 11, got %d", cart.ID)
	}
	if cart.UserID != 3 {
		t.Fatalf("expected fallback user id 3, got %d", cart.UserID)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if cart.Items[1].StartDate != "2025-07-01" {
		t.Fatalf("expected truncated date, got %q", cart.Items[1].StartDate)
	}
}

func TestNormalizeUserDefaultsRole(t *testing.T) {
	user, err := normalizeUser([]byte(`{"IdUsuario": 4, "Email": "a@b.c", "Rol": "cliente"}`))
	if err != nil {
		t.Fatalf("normalizeUser returned error: %v", err)
	}
	if !user.Role.IsValid() || user.Role.IsAdmin() {
		t.Fatalf("expected client role, got %q", user.Role)
	}

	user, err = normalizeUser([]byte(`{"IdUsuario": 4, "Rol": "algo-raro"}`))
	if err != nil {
		t.Fatalf("normalizeUser returned error: %v", err)
	}
	if user.Role != "Cliente" {
		t.Fatalf("expected unknown role to default to Cliente, got %q", user.Role)
	}
}
