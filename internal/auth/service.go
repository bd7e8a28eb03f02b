package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/urbandrive/storefront/internal/session"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/security"
)

// userDirectory is the slice of the gestion client this service needs.
type userDirectory interface {
	ListUsers(ctx context.Context) ([]gestion.User, error)
	CreateUser(ctx context.Context, params gestion.SaveUserParams) (gestion.User, error)
}

// Service implements login and registration against the gestion user store.
type Service struct {
	users     userDirectory
	passwords config.PasswordConfig
	logg      *logger.Logger
}

// NewService wires the auth service.
func NewService(users userDirectory, passwords config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{users: users, passwords: passwords, logg: logg}, nil
}

// Login matches the email case-insensitively against the user listing and
// verifies the password against the stored Argon2id hash. A credential
// mismatch returns (nil, nil) so callers can distinguish it from a
// transport failure, which comes back as an error.
func (s *Service) Login(ctx context.Context, email, password string) (*session.UserSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if !strings.EqualFold(strings.TrimSpace(user.Email), email) {
			continue
		}
		ok, err := security.VerifyPassword(password, user.PasswordHash)
		if err != nil {
			// A stored credential that cannot be parsed must never
			// grant access. Keep scanning in case of duplicates.
			logCtx := s.logg.WithField(ctx, "user_id", user.ID)
			s.logg.Warn(logCtx, "stored password hash is malformed")
			continue
		}
		if !ok {
			return nil, nil
		}
		return summarize(user), nil
	}
	return nil, nil
}

// Register validates the sign-up form, hashes the password and creates the
// account with the Cliente role. Validation problems come back as a single
// coded error carrying every message, so the form can show them all at once.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*session.UserSummary, error) {
	if problems := params.validate(); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration rejected").
			WithDetails(problems)
	}

	hash, err := security.HashPassword(params.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	created, err := s.users.CreateUser(ctx, gestion.SaveUserParams{
		FirstName:      strings.TrimSpace(params.FirstName),
		LastName:       strings.TrimSpace(params.LastName),
		Email:          strings.TrimSpace(params.Email),
		Password:       hash,
		Address:        strings.TrimSpace(params.Address),
		Country:        strings.TrimSpace(params.Country),
		Age:            params.ageValue(),
		IDDocumentType: strings.ToUpper(strings.TrimSpace(params.IDDocumentType)),
		IDDocument:     strings.TrimSpace(params.IDDocument),
		Role:           string(enums.UserRoleClient),
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "user_id", created.ID), "account registered")

	return summarize(created), nil
}

func summarize(user gestion.User) *session.UserSummary {
	return &session.UserSummary{
		ID:         user.ID,
		Name:       user.FullName(),
		Email:      user.Email,
		Role:       user.Role,
		IDDocument: user.IDDocument,
	}
}
