package middleware

import (
	"net/http"
	"net/url"

	"github.com/urbandrive/storefront/api/responses"
	"github.com/urbandrive/storefront/api/views"
	"github.com/urbandrive/storefront/pkg/logger"
)

// RequireUser redirects anonymous visitors to the login page, carrying the
// original URL so login can send them back.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := SessionState(r.Context())
			if !state.LoggedIn() {
				target := "/login?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cartLoginPayload is the JSON answer the storefront script expects when an
// anonymous visitor tries to add to the cart.
type cartLoginPayload struct {
	OK         bool   `json:"ok"`
	Message    string `json:"mensaje"`
	RedirectTo string `json:"redirectTo"`
}

// RequireUserJSON guards the fetch-style endpoints: anonymous callers get a
// 401 JSON body with a login redirect instead of an HTML bounce.
func RequireUserJSON(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := SessionState(r.Context())
			if !state.LoggedIn() {
				if logg != nil {
					logg.Info(r.Context(), "anonymous cart add refused")
				}
				responses.WriteJSON(w, http.StatusUnauthorized, cartLoginPayload{
					OK:         false,
					Message:    "Inicia sesion para agregar vehiculos al carrito.",
					RedirectTo: "/login?from=carrito&returnUrl=/vehiculos",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorPage struct {
	views.Base
	Heading string
	Message string
}

// RequireAdmin renders a 403 page unless the session user carries the admin
// role. Role comparison is case-insensitive.
func RequireAdmin(renderer *views.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := SessionState(r.Context())
			if !state.IsAdmin() {
				renderer.Render(r.Context(), w, http.StatusForbidden, "error", errorPage{
					Base:    views.NewBase("Acceso denegado", state),
					Heading: "Acceso no autorizado",
					Message: "Necesitas una cuenta de administrador para entrar aqui.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
