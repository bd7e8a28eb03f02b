package vehicles

import (
	"strconv"
	"strings"
	"time"

	"github.com/urbandrive/storefront/pkg/enums"
	"github.com/urbandrive/storefront/pkg/gestion"
)

// Form carries the raw admin vehicle form fields. Numeric fields stay
// strings because the form posts text and the mapper owns the parse.
type Form struct {
	Brand          string
	Model          string
	Year           string
	CategoryID     string
	TransmissionID string
	Capacity       string
	PricePerDay    string
	BranchID       string
	Status         string
	Description    string
	ImageURL       string
}

// mapped converts the form into the write params and returns the list of
// validation problems. A non-empty problem list means the params must not
// be sent upstream.
func (f Form) mapped(vehicleID int64) (gestion.SaveVehicleParams, []string) {
	price := parseFloatOrZero(f.PricePerDay)
	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = string(enums.VehicleStatusAvailable)
	}

	params := gestion.SaveVehicleParams{
		VehicleID:      vehicleID,
		Brand:          strings.TrimSpace(f.Brand),
		Model:          strings.TrimSpace(f.Model),
		Year:           parseIntOrZero(f.Year),
		CategoryID:     int64(parseIntOrZero(f.CategoryID)),
		TransmissionID: int64(parseIntOrZero(f.TransmissionID)),
		Capacity:       parseIntOrZero(f.Capacity),
		PricePerDay:    price,
		PriceNormal:    price,
		PriceCurrent:   price,
		BranchID:       int64(parseIntOrZero(f.BranchID)),
		Status:         status,
		Description:    strings.TrimSpace(f.Description),
	}
	if image := strings.TrimSpace(f.ImageURL); image != "" {
		params.ImageURL = &image
	}

	return params, validateParams(params)
}

func validateParams(params gestion.SaveVehicleParams) []string {
	var problems []string
	currentYear := time.Now().Year()

	if params.Brand == "" {
		problems = append(problems, "La marca es obligatoria.")
	}
	if params.Model == "" {
		problems = append(problems, "El modelo es obligatorio.")
	}

	switch {
	case params.Year == 0:
		problems = append(problems, "El año es obligatorio.")
	case params.Year < 1990:
		problems = append(problems, "El año no puede ser menor a 1990.")
	case params.Year > currentYear:
		problems = append(problems, "El año no puede ser mayor al año actual.")
	}

	switch {
	case params.Capacity <= 0:
		problems = append(problems, "La capacidad debe ser mayor a 0.")
	case params.Capacity > 9:
		problems = append(problems, "La capacidad máxima permitida es 9 personas.")
	}

	if params.PricePerDay <= 0 {
		problems = append(problems, "El precio por día debe ser mayor a 0.")
	}
	if params.CategoryID <= 0 {
		problems = append(problems, "La categoría es obligatoria.")
	}
	if params.BranchID <= 0 {
		problems = append(problems, "La sucursal es obligatoria.")
	}
	if params.TransmissionID < 1 || params.TransmissionID > 3 {
		problems = append(problems, "El ID de transmisión debe estar entre 1 y 3.")
	}
	if params.ImageURL != nil && !hasHTTPScheme(*params.ImageURL) {
		problems = append(problems, "La URL de la imagen debe empezar con http:// o https://")
	}
	if !enums.VehicleStatus(params.Status).IsValid() {
		problems = append(problems, "El estado seleccionado no es válido.")
	}

	return problems
}

func hasHTTPScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func parseIntOrZero(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func parseFloatOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
