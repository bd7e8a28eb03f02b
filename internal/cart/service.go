package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

// cartClient is the slice of the gestion client the cart flows need.
type cartClient interface {
	GetCartByUser(ctx context.Context, userID int64) (*gestion.Cart, error)
	GetCartDetail(ctx context.Context, cartID int64) ([]gestion.CartItem, error)
	AddCartItem(ctx context.Context, params gestion.AddCartItemParams) (int64, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
	CreateReservation(ctx context.Context, params gestion.CreateReservationParams) (gestion.Reservation, error)
}

// Service owns the cart view, the add-with-precheck flow and checkout.
type Service struct {
	carts cartClient
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the cart service.
func NewService(carts cartClient, logg *logger.Logger) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{carts: carts, logg: logg, now: time.Now}, nil
}

// View is the rendered cart: items plus the summed subtotal.
type View struct {
	CartID int64
	Items  []gestion.CartItem
	Total  float64
}

// resolveCartID finds the user's cart id, preferring the session copy and
// falling back to the by-user lookup. The session state is updated in place
// so the caller can persist it.
func (s *Service) resolveCartID(ctx context.Context, state *session.State) (int64, error) {
	if state.CartID != 0 {
		return state.CartID, nil
	}
	if !state.LoggedIn() {
		return 0, nil
	}
	cart, err := s.carts.GetCartByUser(ctx, state.User.ID)
	if err != nil {
		return 0, err
	}
	if cart == nil {
		return 0, nil
	}
	state.CartID = cart.ID
	return cart.ID, nil
}

// Load returns the cart view for the logged-in user.
func (s *Service) Load(ctx context.Context, state *session.State) (View, error) {
	cartID, err := s.resolveCartID(ctx, state)
	if err != nil {
		return View{}, err
	}
	if cartID == 0 {
		return View{}, nil
	}

	items, err := s.carts.GetCartDetail(ctx, cartID)
	if err != nil {
		return View{}, err
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal
	}
	return View{CartID: cartID, Items: items, Total: total}, nil
}

// AddResult is the JSON contract of the fetch-style add endpoint.
type AddResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"mensaje"`
	CartID  int64  `json:"carritoId,omitempty"`
}

// Add runs the overlap precheck and posts the item. A failing precheck
// lookup is logged and ignored, the upstream API stays the authority.
func (s *Service) Add(ctx context.Context, state *session.State, vehicleID int64, startDate, endDate string) (AddResult, error) {
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)
	if vehicleID == 0 || startDate == "" || endDate == "" {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "vehicle and dates are required")
	}

	if cartID, err := s.resolveCartID(ctx, state); err != nil {
		s.logg.Warn(ctx, "cart lookup before add failed, skipping overlap precheck")
	} else if cartID != 0 {
		items, err := s.carts.GetCartDetail(ctx, cartID)
		if err != nil {
			s.logg.Warn(ctx, "cart detail before add failed, skipping overlap precheck")
		} else if hasOverlap(items, vehicleID, startDate, endDate) {
			return AddResult{}, pkgerrors.New(pkgerrors.CodeConflict,
				"Ya tienes este vehiculo en tu carrito en fechas que se cruzan con las seleccionadas.")
		}
	}

	cartID, err := s.carts.AddCartItem(ctx, gestion.AddCartItemParams{
		UserID:    state.User.ID,
		VehicleID: vehicleID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return AddResult{}, err
	}
	if cartID != 0 {
		state.CartID = cartID
	}

	return AddResult{
		OK:      true,
		Message: "Vehiculo agregado al carrito correctamente.",
		CartID:  state.CartID,
	}, nil
}

// Remove deletes one item. Failures are logged, the cart view is reloaded
// either way.
func (s *Service) Remove(ctx context.Context, itemID int64) {
	if itemID == 0 {
		return
	}
	if err := s.carts.RemoveCartItem(ctx, itemID); err != nil {
		s.logg.Error(ctx, "cart item removal failed", err)
	}
}

// Checkout creates one Pendiente reservation per cart item, removes each
// item afterwards and clears the session cart id. Per-item failures are
// logged and the loop continues, mirroring a best-effort batch.
func (s *Service) Checkout(ctx context.Context, state *session.State) ([]gestion.Reservation, error) {
	cartID, err := s.resolveCartID(ctx, state)
	if err != nil {
		return nil, err
	}
	if cartID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Tu carrito esta vacio.")
	}

	items, err := s.carts.GetCartDetail(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Tu carrito esta vacio.")
	}

	user := state.User
	var created []gestion.Reservation
	for _, item := range items {
		reservation, err := s.carts.CreateReservation(ctx, gestion.CreateReservationParams{
			UserID:      user.ID,
			UserName:    strings.TrimSpace(user.Name),
			UserEmail:   user.Email,
			VehicleID:   item.VehicleID,
			VehicleName: item.VehicleName,
			StartDate:   item.StartDate,
			EndDate:     item.EndDate,
			Total:       item.Subtotal,
			Status:      string(enums.ReservationStatusPending),
			CreatedAt:   s.now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			s.logg.Error(s.logg.WithField(ctx, "vehicle_id", item.VehicleID), "reservation create failed for cart item", err)
		} else {
			created = append(created, reservation)
		}

		if item.ID != 0 {
			if err := s.carts.RemoveCartItem(ctx, item.ID); err != nil {
				s.logg.Error(s.logg.WithField(ctx, "item_id", item.ID), "cart item cleanup failed", err)
			}
		}
	}

	state.CartID = 0
	return created, nil
}

func dateOnly(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}
