package controllers

import (
	"context"
	"net/http"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	"github.com/urbandrive/storefront/internal/vehicles"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type promotionLister interface {
	ListPromotions(ctx context.Context) ([]gestion.Promotion, error)
}

type homePage struct {
	views.Base
	Promotions []gestion.Promotion
	Featured   []gestion.Vehicle
}

// Home renders the landing page. Promotions and the featured strip are
// decoration: either lookup failing leaves a plain hero page.
func Home(catalog *vehicles.Service, promotions promotionLister, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		page := homePage{Base: views.NewBase("Inicio", state)}

		if promos, err := promotions.ListPromotions(r.Context()); err != nil {
			logg.Warn(r.Context(), "promotions lookup failed, home renders without them")
		} else {
			page.Promotions = promos
		}

		if fleet, err := catalog.Catalog(r.Context()); err != nil {
			logg.Warn(r.Context(), "catalog lookup failed, home renders without featured vehicles")
		} else {
			for _, vehicle := range fleet {
				if len(page.Featured) == 6 {
					break
				}
				page.Featured = append(page.Featured, vehicle)
			}
		}

		renderer.Render(r.Context(), w, http.StatusOK, "home", page)
	}
}
