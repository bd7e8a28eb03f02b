package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/security"
)

// directoryClient is the slice of the gestion client the admin console needs.
type directoryClient interface {
	ListUsers(ctx context.Context) ([]gestion.User, error)
	GetUser(ctx context.Context, userID int64) (gestion.User, error)
	CreateUser(ctx context.Context, params gestion.SaveUserParams) (gestion.User, error)
	UpdateUser(ctx context.Context, userID int64, params gestion.SaveUserParams) error
	DeleteUser(ctx context.Context, userID int64) error
}

// Service is the admin-side user management over the gestion directory.
type Service struct {
	directory directoryClient
	passwords config.PasswordConfig
	logg      *logger.Logger
}

// NewService wires the admin user service.
func NewService(directory directoryClient, passwords config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{directory: directory, passwords: passwords, logg: logg}, nil
}

// List returns every account for the admin listing.
func (s *Service) List(ctx context.Context) ([]gestion.User, error) {
	return s.directory.ListUsers(ctx)
}

// Get returns one account for the edit form.
func (s *Service) Get(ctx context.Context, userID int64) (gestion.User, error) {
	return s.directory.GetUser(ctx, userID)
}

// Form carries the raw admin user form fields.
type Form struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Address        string
	Country        string
	Age            string
	IDDocumentType string
	IDDocument     string
	Role           string
}

// validate returns the list of problems. On update the password may stay
// blank, meaning keep the stored hash.
func (f Form) validate(passwordOptional bool) []string {
	var problems []string
	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "" {
		problems = append(problems, "Nombres y apellidos son obligatorios.")
	}
	if !strings.Contains(f.Email, "@") {
		problems = append(problems, "Ingresa un correo electronico valido.")
	}
	if !passwordOptional && strings.TrimSpace(f.Password) == "" {
		problems = append(problems, "La contrasena es obligatoria.")
	}
	if _, err := enums.ParseUserRole(f.Role); err != nil {
		problems = append(problems, "Debes seleccionar un rol valido.")
	}
	if age, err := strconv.Atoi(strings.TrimSpace(f.Age)); err != nil || age < 18 {
		problems = append(problems, "La edad debe ser un numero mayor o igual a 18.")
	}
	return problems
}

func (f Form) params(passwordHash string) gestion.SaveUserParams {
	age, _ := strconv.Atoi(strings.TrimSpace(f.Age))
	role, _ := enums.ParseUserRole(f.Role)
	return gestion.SaveUserParams{
		FirstName:      strings.TrimSpace(f.FirstName),
		LastName:       strings.TrimSpace(f.LastName),
		Email:          strings.TrimSpace(f.Email),
		Password:       passwordHash,
		Address:        strings.TrimSpace(f.Address),
		Country:        strings.TrimSpace(f.Country),
		Age:            age,
		IDDocumentType: strings.ToUpper(strings.TrimSpace(f.IDDocumentType)),
		IDDocument:     strings.TrimSpace(f.IDDocument),
		Role:           string(role),
	}
}

// Create validates the form, hashes the password and registers the account.
func (s *Service) Create(ctx context.Context, form Form) (gestion.User, error) {
	if problems := form.validate(false); len(problems) > 0 {
		return gestion.User{}, pkgerrors.New(pkgerrors.CodeValidation, "user form rejected").
			WithDetails(problems)
	}

	hash, err := security.HashPassword(form.Password, s.passwords)
	if err != nil {
		return gestion.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	created, err := s.directory.CreateUser(ctx, form.params(hash))
	if err != nil {
		return gestion.User{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "user_id", created.ID), "user created")
	return created, nil
}

// Update validates the form and replaces the account. A blank password
// keeps the stored hash.
func (s *Service) Update(ctx context.Context, userID int64, form Form) error {
	if problems := form.validate(true); len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user form rejected").
			WithDetails(problems)
	}

	hash := ""
	if strings.TrimSpace(form.Password) != "" {
		hashed, err := security.HashPassword(form.Password, s.passwords)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		hash = hashed
	} else {
		existing, err := s.directory.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		hash = existing.PasswordHash
	}

	if err := s.directory.UpdateUser(ctx, userID, form.params(hash)); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "user_id", userID), "user updated")
	return nil
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if err := s.directory.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "user_id", userID), "user deleted")
	return nil
}
