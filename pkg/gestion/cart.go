package gestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AddCartItem posts a new item and returns the cart id the upstream placed
// it in. The endpoint sometimes answers a bare number, sometimes an object.
func (c *Client) AddCartItem(ctx context.Context, params AddCartItemParams) (int64, error) {
	payload, err := c.do(ctx, http.MethodPost, "/carrito/agregar", params, "add_cart_item")
	if err != nil {
		return 0, err
	}

	var cartID int64
	if jerr := json.Unmarshal(unwrapData(payload), &cartID); jerr == nil && cartID > 0 {
		return cartID, nil
	}

	obj, err := decodeObject(payload)
	if err != nil {
		return 0, err
	}
	return obj.int64("IdCarrito", "CarritoId"), nil
}

// GetCartByUser returns the user's active cart header, or nil when the
// user has no cart yet.
func (c *Client) GetCartByUser(ctx context.Context, userID int64) (*Cart, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carrito/usuario/%d", userID), nil, "get_cart_by_user")
	if err != nil {
		return nil, err
	}
	if isEmptyPayload(payload) {
		return nil, nil
	}
	cart, err := normalizeCart(payload, userID)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartDetail returns the items of the cart.
func (c *Client) GetCartDetail(ctx context.Context, cartID int64) ([]CartItem, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carrito/%d/detalle", cartID), nil, "get_cart_detail")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeCartItem)
}

// RemoveCartItem deletes one item from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/carrito/item/%d", itemID), nil, "remove_cart_item")
	return err
}
