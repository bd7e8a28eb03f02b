package gestion

import (
	"context"
	"fmt"
	"net/http"
)

// ListVehicles returns the full fleet.
func (c *Client) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	payload, err := c.do(ctx, http.MethodGet, "/vehiculos", nil, "list_vehicles")
	if err != nil {
		return nil, err
	}
	return normalizeEach(payload, normalizeVehicle)
}

// GetVehicle fetches one vehicle by id.
func (c *Client) GetVehicle(ctx context.Context, vehicleID int64) (Vehicle, error) {
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vehiculos/%d", vehicleID), nil, "get_vehicle")
	if err != nil {
		return Vehicle{}, err
	}
	return normalizeVehicle(payload)
}

// CreateVehicle registers a new vehicle.
func (c *Client) CreateVehicle(ctx context.Context, params SaveVehicleParams) (Vehicle, error) {
	payload, err := c.do(ctx, http.MethodPost, "/vehiculos", params, "create_vehicle")
	if err != nil {
		return Vehicle{}, err
	}
	return normalizeVehicle(payload)
}

// UpdateVehicle replaces an existing vehicle record.
func (c *Client) UpdateVehicle(ctx context.Context, vehicleID int64, params SaveVehicleParams) error {
	params.VehicleID = vehicleID
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/vehiculos/%d", vehicleID), params, "update_vehicle")
	return err
}

// DeleteVehicle removes a vehicle.
func (c *Client) DeleteVehicle(ctx context.Context, vehicleID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/vehiculos/%d", vehicleID), nil, "delete_vehicle")
	return err
}
