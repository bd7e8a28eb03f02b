package enums

import (
	"fmt"
	"strings"
)

// VehicleStatus mirrors the estado values the gestion API accepts for vehicles.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "Disponible"
	VehicleStatusMaintenance VehicleStatus = "Mantenimiento"
	VehicleStatusInactive    VehicleStatus = "Inactivo"
)

var validVehicleStatuses = []VehicleStatus{
	VehicleStatusAvailable,
	VehicleStatusMaintenance,
	VehicleStatusInactive,
}

// String implements fmt.Stringer.
func (v VehicleStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleStatus.
func (v VehicleStatus) IsValid() bool {
	for _, candidate := range validVehicleStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleStatus converts the raw string to VehicleStatus, case-insensitively.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	for _, candidate := range validVehicleStatuses {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle status %q", value)
}
