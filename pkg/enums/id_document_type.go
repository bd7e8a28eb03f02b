package enums

import "fmt"

// IDDocumentType is the tipo de identificacion accepted at registration.
type IDDocumentType string

const (
	IDDocumentCedula   IDDocumentType = "CI"
	IDDocumentPassport IDDocumentType = "PASAPORTE"
	IDDocumentLicense  IDDocumentType = "LICENCIA"
)

var validIDDocumentTypes = []IDDocumentType{
	IDDocumentCedula,
	IDDocumentPassport,
	IDDocumentLicense,
}

// IsValid reports whether the value is a known IDDocumentType.
func (d IDDocumentType) IsValid() bool {
	for _, candidate := range validIDDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseIDDocumentType converts the raw string to IDDocumentType.
func ParseIDDocumentType(value string) (IDDocumentType, error) {
	for _, candidate := range validIDDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid identification type %q", value)
}
