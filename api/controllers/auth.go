package controllers

import (
	"net/http"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	authsvc "github.com/urbandrive/storefront/internal/auth"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/logger"
)

type loginPage struct {
	views.Base
	Error     string
	Info      string
	Email     string
	ReturnURL string
}

// LoginForm renders the login page. Visitors bounced from the cart get the
// green hint explaining why they landed here.
func LoginForm(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		page := loginPage{
			Base:      views.NewBase("Iniciar sesion", state),
			ReturnURL: safeReturnURL(r.URL.Query().Get("returnUrl"), ""),
		}
		if r.URL.Query().Get("from") == "carrito" {
			page.Info = "Inicia sesion para agregar vehiculos al carrito."
		}
		renderer.Render(r.Context(), w, http.StatusOK, "login", page)
	}
}

// LoginSubmit authenticates and starts the session. A credential mismatch
// re-renders the form; only transport failures show the 500 wording.
func LoginSubmit(service *authsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")
		returnURL := safeReturnURL(r.PostFormValue("returnUrl"), "/vehiculos")

		state := middleware.SessionState(r.Context())
		page := loginPage{
			Base:      views.NewBase("Iniciar sesion", state),
			Email:     email,
			ReturnURL: r.PostFormValue("returnUrl"),
		}

		if email == "" || password == "" {
			page.Error = "Debes ingresar correo y contraseña."
			renderer.Render(r.Context(), w, http.StatusBadRequest, "login", page)
			return
		}

		user, err := service.Login(r.Context(), email, password)
		if err != nil {
			logg.Error(r.Context(), "login failed against the user directory", err)
			page.Error = "Ocurrió un error al iniciar sesión. Inténtalo de nuevo."
			renderer.Render(r.Context(), w, http.StatusInternalServerError, "login", page)
			return
		}
		if user == nil {
			page.Error = "Email o contraseña incorrectos."
			renderer.Render(r.Context(), w, http.StatusUnauthorized, "login", page)
			return
		}

		state.User = user
		if err := sessions.Save(r.Context(), w); err != nil {
			logg.Error(r.Context(), "session save failed after login", err)
			page.Error = "Ocurrió un error al iniciar sesión. Inténtalo de nuevo."
			renderer.Render(r.Context(), w, http.StatusInternalServerError, "login", page)
			return
		}

		if user.Role.IsAdmin() {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
		http.Redirect(w, r, returnURL, http.StatusFound)
	}
}

type registerPage struct {
	views.Base
	Problems []string
	Form     authsvc.RegisterParams
}

// RegisterForm renders the sign-up page.
func RegisterForm(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		renderer.Render(r.Context(), w, http.StatusOK, "register", registerPage{
			Base: views.NewBase("Crear cuenta", state),
		})
	}
}

// RegisterSubmit creates the account and logs the new user straight in.
func RegisterSubmit(service *authsvc.Service, sessions *middleware.Sessions, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		params := authsvc.RegisterParams{
			FirstName:       r.PostFormValue("nombres"),
			LastName:        r.PostFormValue("apellidos"),
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("password"),
			PasswordConfirm: r.PostFormValue("passwordConfirm"),
			Address:         r.PostFormValue("direccion"),
			Country:         r.PostFormValue("pais"),
			Age:             r.PostFormValue("edad"),
			IDDocumentType:  r.PostFormValue("tipoIdentificacion"),
			IDDocument:      r.PostFormValue("identificacion"),
		}

		state := middleware.SessionState(r.Context())
		page := registerPage{
			Base: views.NewBase("Crear cuenta", state),
			Form: params,
		}

		user, err := service.Register(r.Context(), params)
		if err != nil {
			if problems := problemList(err); len(problems) > 0 {
				page.Problems = problems
				renderer.Render(r.Context(), w, http.StatusBadRequest, "register", page)
				return
			}
			logg.Error(r.Context(), "registration failed against the user directory", err)
			page.Problems = []string{"Ocurrió un error al registrar el usuario."}
			status := http.StatusInternalServerError
			if typed := pkgerrors.As(err); typed != nil {
				status = pkgerrors.MetadataFor(typed.Code()).HTTPStatus
				page.Problems = []string{"No se pudo crear el usuario en el servidor."}
			}
			renderer.Render(r.Context(), w, status, "register", page)
			return
		}

		state.User = user
		if err := sessions.Save(r.Context(), w); err != nil {
			logg.Error(r.Context(), "session save failed after registration", err)
		}
		http.Redirect(w, r, "/vehiculos", http.StatusFound)
	}
}

// Logout destroys the session and returns home.
func Logout(sessions *middleware.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Clear(r.Context(), w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
