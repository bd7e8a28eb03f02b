package gestion

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Transmission codes follow the classic MT/AT/CVT split; upstream sometimes
// returns bare strings, sometimes objects with nombre/descripcion.
var fallbackTransmissions = []Transmission{
	{Code: "MT", Name: "Manual"},
	{Code: "AT", Name: "Automática"},
	{Code: "CVT", Name: "CVT"},
}

// ListCategories returns the vehicle categories. When the endpoint fails,
// the categories are rebuilt from the fleet listing as a degraded fallback.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	payload, err := c.do(ctx, http.MethodGet, "/categoriasvehiculo", nil, "list_categories")
	if err == nil {
		if categories, nerr := normalizeEach(payload, normalizeCategory); nerr == nil {
			return categories, nil
		}
	}

	vehicles, verr := c.ListVehicles(ctx)
	if verr != nil {
		if err != nil {
			return nil, err
		}
		return nil, verr
	}
	seen := map[int64]bool{}
	var categories []Category
	for _, v := range vehicles {
		if v.CategoryID == 0 || v.CategoryName == "" || seen[v.CategoryID] {
			continue
		}
		seen[v.CategoryID] = true
		categories = append(categories, Category{ID: v.CategoryID, Name: v.CategoryName})
	}
	return categories, nil
}

// ListTransmissions returns normalized transmission options, falling back to
// the static MT/AT/CVT set when the endpoint misbehaves.
func (c *Client) ListTransmissions(ctx context.Context) []Transmission {
	payload, err := c.do(ctx, http.MethodGet, "/categoriasvehiculo/transmisiones", nil, "list_transmissions")
	if err != nil {
		return fallbackTransmissions
	}

	elems, err := decodeList(payload)
	if err != nil || len(elems) == 0 {
		return fallbackTransmissions
	}

	byCode := map[string]Transmission{}
	for _, elem := range elems {
		var label string
		var s string
		if jerr := json.Unmarshal(elem, &s); jerr == nil {
			label = s
		} else {
			obj, oerr := decodeObject(elem)
			if oerr != nil {
				continue
			}
			label = obj.str("Descripcion")
			if label == "" {
				label = obj.str("Nombre")
			}
		}
		code := transmissionCode(label)
		byCode[code] = Transmission{Code: code, Name: label}
	}

	if len(byCode) == 0 {
		return fallbackTransmissions
	}
	out := make([]Transmission, 0, len(byCode))
	for _, code := range []string{"MT", "AT", "CVT"} {
		if t, ok := byCode[code]; ok {
			out = append(out, t)
		}
	}
	return out
}

func transmissionCode(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "aut"):
		return "AT"
	case strings.Contains(lower, "cvt"):
		return "CVT"
	default:
		return "MT"
	}
}

// ListBranches returns the branch offices.
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	payload, err := c.do(ctx, http.MethodGet, "/sucursales", nil, "list_branches")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeBranch)
}

// ListPromotions returns current promotions.
func (c *Client) ListPromotions(ctx context.Context) ([]Promotion, error) {
	payload, err := c.do(ctx, http.MethodGet, "/promociones", nil, "list_promotions")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizePromotion)
}
