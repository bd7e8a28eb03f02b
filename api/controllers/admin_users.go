package controllers

import (
	"net/http"
	"strconv"

	"github.com/urbandrive/storefront/api/middleware"
	"github.com/urbandrive/storefront/api/views"
	usersvc "github.com/urbandrive/storefront/internal/users"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type adminUsersPage struct {
	views.Base
	Users []gestion.User
}

// AdminUsers lists every account.
func AdminUsers(service *usersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		accounts, err := service.List(r.Context())
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_users", adminUsersPage{
			Base:  views.NewBase("Usuarios", state),
			Users: accounts,
		})
	}
}

type adminUserFormPage struct {
	views.Base
	EditID   int64
	Action   string
	Form     usersvc.Form
	Problems []string
}

// AdminUserNew renders the empty account form.
func AdminUserNew(renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		renderer.Render(r.Context(), w, http.StatusOK, "admin_user_form", adminUserFormPage{
			Base:   views.NewBase("Registrar usuario", state),
			Action: "/admin/usuarios",
			Form:   usersvc.Form{Role: "Cliente"},
		})
	}
}

// AdminUserCreate registers an account.
func AdminUserCreate(service *usersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())
		form := userFormFromRequest(r)

		if _, err := service.Create(r.Context(), form); err != nil {
			if problems := problemList(err); len(problems) > 0 {
				renderer.Render(r.Context(), w, http.StatusBadRequest, "admin_user_form", adminUserFormPage{
					Base:     views.NewBase("Registrar usuario", state),
					Action:   "/admin/usuarios",
					Form:     form,
					Problems: problems,
				})
				return
			}
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		http.Redirect(w, r, "/admin/usuarios", http.StatusFound)
	}
}

// AdminUserEdit loads the account into the form. The password field always
// starts blank.
func AdminUserEdit(service *usersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		userID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/admin/usuarios", http.StatusFound)
			return
		}

		account, err := service.Get(r.Context(), userID)
		if err != nil {
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		renderer.Render(r.Context(), w, http.StatusOK, "admin_user_form", adminUserFormPage{
			Base:   views.NewBase("Editar usuario", state),
			EditID: userID,
			Action: "/admin/usuarios/" + strconv.FormatInt(userID, 10),
			Form: usersvc.Form{
				FirstName:      account.FirstName,
				LastName:       account.LastName,
				Email:          account.Email,
				Address:        account.Address,
				Country:        account.Country,
				Age:            strconv.Itoa(account.Age),
				IDDocumentType: account.IDDocumentType,
				IDDocument:     account.IDDocument,
				Role:           string(account.Role),
			},
		})
	}
}

// AdminUserUpdate replaces the account.
func AdminUserUpdate(service *usersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := middleware.SessionState(r.Context())

		userID, err := routeID(r, "id")
		if err != nil {
			http.Redirect(w, r, "/admin/usuarios", http.StatusFound)
			return
		}

		form := userFormFromRequest(r)
		if err := service.Update(r.Context(), userID, form); err != nil {
			if problems := problemList(err); len(problems) > 0 {
				renderer.Render(r.Context(), w, http.StatusBadRequest, "admin_user_form", adminUserFormPage{
					Base:     views.NewBase("Editar usuario", state),
					EditID:   userID,
					Action:   "/admin/usuarios/" + strconv.FormatInt(userID, 10),
					Form:     form,
					Problems: problems,
				})
				return
			}
			renderHTMLError(r, w, renderer, logg, err)
			return
		}

		http.Redirect(w, r, "/admin/usuarios", http.StatusFound)
	}
}

// AdminUserDelete removes the account.
func AdminUserDelete(service *usersvc.Service, renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := routeID(r, "id")
		if err == nil {
			if err := service.Delete(r.Context(), userID); err != nil {
				renderHTMLError(r, w, renderer, logg, err)
				return
			}
		}
		http.Redirect(w, r, "/admin/usuarios", http.StatusFound)
	}
}

func userFormFromRequest(r *http.Request) usersvc.Form {
	_ = r.ParseForm()
	return usersvc.Form{
		FirstName:      r.PostFormValue("nombres"),
		LastName:       r.PostFormValue("apellidos"),
		Email:          r.PostFormValue("email"),
		Password:       r.PostFormValue("password"),
		Address:        r.PostFormValue("direccion"),
		Country:        r.PostFormValue("pais"),
		Age:            r.PostFormValue("edad"),
		IDDocumentType: r.PostFormValue("tipoIdentificacion"),
		IDDocument:     r.PostFormValue("identificacion"),
		Role:           r.PostFormValue("rol"),
	}
}
