package vehicles

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

// fleetClient is the slice of the gestion client the catalog needs.
type fleetClient interface {
	ListVehicles(ctx context.Context) ([]gestion.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID int64) (gestion.Vehicle, error)
	CreateVehicle(ctx context.Context, params gestion.SaveVehicleParams) (gestion.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicleID int64, params gestion.SaveVehicleParams) error
	DeleteVehicle(ctx context.Context, vehicleID int64) error
	ListCategories(ctx context.Context) ([]gestion.Category, error)
	ListTransmissions(ctx context.Context) []gestion.Transmission
	ListBranches(ctx context.Context) ([]gestion.Branch, error)
}

// Service exposes the storefront catalog and the admin fleet CRUD.
type Service struct {
	fleet fleetClient
	logg  *logger.Logger
}

// NewService wires the vehicles service.
func NewService(fleet fleetClient, logg *logger.Logger) (*Service, error) {
	if fleet == nil {
		return nil, fmt.Errorf("fleet client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{fleet: fleet, logg: logg}, nil
}

// Catalog returns the fleet for the public listing.
func (s *Service) Catalog(ctx context.Context) ([]gestion.Vehicle, error) {
	return s.fleet.ListVehicles(ctx)
}

// Detail returns one vehicle for the public detail page.
func (s *Service) Detail(ctx context.Context, vehicleID int64) (gestion.Vehicle, error) {
	return s.fleet.GetVehicle(ctx, vehicleID)
}

// FormSupport is the reference data the admin vehicle form needs.
type FormSupport struct {
	Categories    []gestion.Category
	Transmissions []gestion.Transmission
	Branches      []gestion.Branch
}

// LoadFormSupport fetches categories, transmissions and branches
// concurrently. Each lookup degrades independently, so a broken branches
// endpoint still leaves a usable form.
func (s *Service) LoadFormSupport(ctx context.Context) FormSupport {
	var support FormSupport

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		categories, err := s.fleet.ListCategories(groupCtx)
		if err != nil {
			s.logg.Warn(groupCtx, "categories lookup failed, form renders without them")
			return nil
		}
		support.Categories = categories
		return nil
	})
	group.Go(func() error {
		support.Transmissions = s.fleet.ListTransmissions(groupCtx)
		return nil
	})
	group.Go(func() error {
		branches, err := s.fleet.ListBranches(groupCtx)
		if err != nil {
			s.logg.Warn(groupCtx, "branches lookup failed, form renders without them")
			return nil
		}
		support.Branches = branches
		return nil
	})
	// The goroutines never return errors, they only degrade.
	_ = group.Wait()

	return support
}

// Create validates the admin form and registers the vehicle.
func (s *Service) Create(ctx context.Context, form Form) (gestion.Vehicle, error) {
	params, problems := form.mapped(0)
	if len(problems) > 0 {
		return gestion.Vehicle{}, pkgerrors.New(pkgerrors.CodeValidation, "vehicle form rejected").
			WithDetails(problems)
	}
	created, err := s.fleet.CreateVehicle(ctx, params)
	if err != nil {
		return gestion.Vehicle{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "vehicle_id", created.ID), "vehicle created")
	return created, nil
}

// Update validates the admin form and replaces the vehicle record.
func (s *Service) Update(ctx context.Context, vehicleID int64, form Form) error {
	params, problems := form.mapped(vehicleID)
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle form rejected").
			WithDetails(problems)
	}
	if err := s.fleet.UpdateVehicle(ctx, vehicleID, params); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "vehicle_id", vehicleID), "vehicle updated")
	return nil
}

// Delete removes the vehicle.
func (s *Service) Delete(ctx context.Context, vehicleID int64) error {
	if err := s.fleet.DeleteVehicle(ctx, vehicleID); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "vehicle_id", vehicleID), "vehicle deleted")
	return nil
}
