package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
	"github.com/urbandrive/storefront/pkg/security"
)

// Low-cost parameters keep the hashing in tests fast.
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

type directoryStub struct {
	users     []gestion.User
	listErr   error
	created   *gestion.SaveUserParams
	createErr error
}

func (d *directoryStub) ListUsers(ctx context.Context) ([]gestion.User, error) {
	return d.users, d.listErr
}

func (d *directoryStub) CreateUser(ctx context.Context, params gestion.SaveUserParams) (gestion.User, error) {
	d.created = &params
	if d.createErr != nil {
		return gestion.User{}, d.createErr
	}
	return gestion.User{
		ID:        42,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Role:      enums.UserRoleClient,
	}, nil
}

func newTestService(t *testing.T, directory *directoryStub) *Service {
	t.Helper()
	service, err := NewService(directory, testPasswordConfig, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	return hash
}

func TestLoginMatchesEmailCaseInsensitively(t *testing.T) {
	directory := &directoryStub{users: []gestion.User{
		{ID: 1, FirstName: "Ana", LastName: "Loor", Email: "Ana.Loor@Example.com", PasswordHash: hashFor(t, "Secreto123"), Role: enums.UserRoleClient},
	}}
	service := newTestService(t, directory)

	summary, err := service.Login(context.Background(), "ana.loor@example.com", "Secreto123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if summary == nil || summary.ID != 1 {
		t.Fatalf("expected user 1, got %+v", summary)
	}
	if summary.Name != "Ana Loor" {
		t.Fatalf("unexpected name %q", summary.Name)
	}
}

func TestLoginWrongPasswordReturnsNilWithoutError(t *testing.T) {
	directory := &directoryStub{users: []gestion.User{
		{ID: 1, Email: "ana@example.com", PasswordHash: hashFor(t, "Secreto123")},
	}}
	service := newTestService(t, directory)

	summary, err := service.Login(context.Background(), "ana@example.com", "otra-clave")
	if err != nil {
		t.Fatalf("expected nil error on mismatch, got %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary, got %+v", summary)
	}
}

func TestLoginUnknownEmailReturnsNilWithoutError(t *testing.T) {
	service := newTestService(t, &directoryStub{})

	summary, err := service.Login(context.Background(), "nadie@example.com", "Secreto123")
	if err != nil || summary != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", summary, err)
	}
}

func TestLoginPropagatesDirectoryFailure(t *testing.T) {
	directory := &directoryStub{listErr: fmt.Errorf("upstream down")}
	service := newTestService(t, directory)

	if _, err := service.Login(context.Background(), "ana@example.com", "Secreto123"); err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestLoginMalformedHashDeniesAccess(t *testing.T) {
	directory := &directoryStub{users: []gestion.User{
		{ID: 1, Email: "ana@example.com", PasswordHash: "plaintext-oops"},
	}}
	service := newTestService(t, directory)

	summary, err := service.Login(context.Background(), "ana@example.com", "plaintext-oops")
	if err != nil {
		t.Fatalf("malformed hash must not surface as error: %v", err)
	}
	if summary != nil {
		t.Fatal("malformed hash must never grant access")
	}
}

func validRegistration() RegisterParams {
	return RegisterParams{
		FirstName:       "Ana",
		LastName:        "Loor",
		Email:           "ana@example.com",
		Password:        "Secreto123",
		PasswordConfirm: "Secreto123",
		Address:         "Av. Amazonas 123",
		Country:         "Ecuador",
		Age:             "28",
		IDDocumentType:  "CI",
		IDDocument:      "1712345678",
	}
}

func TestRegisterHashesPasswordAndSetsClientRole(t *testing.T) {
	directory := &directoryStub{}
	service := newTestService(t, directory)

	summary, err := service.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if summary == nil || summary.ID != 42 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if directory.created == nil {
		t.Fatal("expected CreateUser call")
	}
	if directory.created.Role != "Cliente" {
		t.Fatalf("expected Cliente role, got %q", directory.created.Role)
	}
	if directory.created.Password == "Secreto123" {
		t.Fatal("password must never be sent in clear")
	}
	ok, err := security.VerifyPassword("Secreto123", directory.created.Password)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterCollectsAllValidationProblems(t *testing.T) {
	service := newTestService(t, &directoryStub{})

	params := validRegistration()
	params.Email = "no-es-correo"
	params.Age = "16"
	params.Password = "corta"
	params.PasswordConfirm = "otra"
	params.IDDocument = "12"

	_, err := service.Register(context.Background(), params)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	problems, ok := typed.Details().([]string)
	if !ok {
		t.Fatalf("expected []string details, got %T", typed.Details())
	}
	if len(problems) < 4 {
		t.Fatalf("expected every problem reported, got %v", problems)
	}
}

func TestRegisterDocumentRules(t *testing.T) {
	cases := []struct {
		name     string
		docType  string
		document string
		valid    bool
	}{
		{"cedula ok", "CI", "1712345678", true},
		{"cedula short", "CI", "12345", false},
		{"cedula letters", "CI", "17123456AB", false},
		{"passport ok", "PASAPORTE", "AB123456", true},
		{"passport symbols", "PASAPORTE", "AB-123456", false},
		{"license ok", "LICENCIA", "LIC-2024-99", true},
		{"license too long", "LICENCIA", "LIC-2024-000000000000099", false},
		{"unknown type", "RUC", "1712345678001", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validRegistration()
			params.IDDocumentType = tc.docType
			params.IDDocument = tc.document

			problems := params.validate()
			if tc.valid && len(problems) != 0 {
				t.Fatalf("expected valid form, got %v", problems)
			}
			if !tc.valid && len(problems) == 0 {
				t.Fatal("expected document rejection")
			}
		})
	}
}
