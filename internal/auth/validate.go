package auth

import (
	"regexp"
	"strconv"
	"strings"
)

// RegisterParams carries the raw sign-up form fields. Age stays a string
// here because the form posts text and the validator owns the parse.
type RegisterParams struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
	Address         string
	Country         string
	Age             string
	IDDocumentType  string
	IDDocument      string
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cedulaPattern   = regexp.MustCompile(`^\d{10}$`)
	passportPattern = regexp.MustCompile(`^[A-Za-z0-9]{6,15}$`)
	licensePattern  = regexp.MustCompile(`^[A-Za-z0-9-]{6,20}$`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	digitPattern    = regexp.MustCompile(`\d`)
)

func (p RegisterParams) validate() []string {
	var problems []string

	if p.missingAnyField() {
		problems = append(problems, "Todos los campos son obligatorios.")
	}

	if email := strings.TrimSpace(p.Email); email != "" && !emailPattern.MatchString(email) {
		problems = append(problems, "El correo electrónico no tiene un formato válido.")
	}

	age, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil || age < 18 {
		problems = append(problems, "Debes tener al menos 18 años para registrarte.")
	}

	if !strongPassword(p.Password) {
		problems = append(problems, "La contraseña debe tener mínimo 8 caracteres, con mayúsculas, minúsculas y números.")
	}

	if p.Password != p.PasswordConfirm {
		problems = append(problems, "Las contraseñas no coinciden.")
	}

	document := strings.TrimSpace(p.IDDocument)
	switch strings.ToUpper(strings.TrimSpace(p.IDDocumentType)) {
	case "CI":
		if !cedulaPattern.MatchString(document) {
			problems = append(problems, "La cédula debe tener exactamente 10 dígitos numéricos.")
		}
	case "PASAPORTE":
		if !passportPattern.MatchString(document) {
			problems = append(problems, "El pasaporte debe tener entre 6 y 15 caracteres alfanuméricos.")
		}
	case "LICENCIA":
		if !licensePattern.MatchString(document) {
			problems = append(problems, "La licencia debe tener entre 6 y 20 caracteres (letras, números o guiones).")
		}
	default:
		problems = append(problems, "Debes seleccionar un tipo de identificación válido.")
	}

	return problems
}

func (p RegisterParams) missingAnyField() bool {
	fields := []string{
		p.FirstName, p.LastName, p.Email, p.Password, p.PasswordConfirm,
		p.Address, p.Country, p.Age, p.IDDocumentType, p.IDDocument,
	}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return true
		}
	}
	return false
}

func (p RegisterParams) ageValue() int {
	age, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil {
		return 0
	}
	return age
}

func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerPattern.MatchString(password) &&
		upperPattern.MatchString(password) &&
		digitPattern.MatchString(password)
}
