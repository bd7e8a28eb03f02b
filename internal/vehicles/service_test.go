package vehicles

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
	"github.com/urbandrive/storefront/pkg/gestion"
	"github.com/urbandrive/storefront/pkg/logger"
)

type fleetStub struct {
	vehicles   []gestion.Vehicle
	created    *gestion.SaveVehicleParams
	updated    *gestion.SaveVehicleParams
	deleted    int64
	categories []gestion.Category
	branches   []gestion.Branch

	listErr       error
	categoriesErr error
	branchesErr   error
}

func (f *fleetStub) ListVehicles(ctx context.Context) ([]gestion.Vehicle, error) {
	return f.vehicles, f.listErr
}

func (f *fleetStub) GetVehicle(ctx context.Context, vehicleID int64) (gestion.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID == vehicleID {
			return v, nil
		}
	}
	return gestion.Vehicle{}, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
}

func (f *fleetStub) CreateVehicle(ctx context.Context, params gestion.SaveVehicleParams) (gestion.Vehicle, error) {
	f.created = &params
	return gestion.Vehicle{ID: 99, Brand: params.Brand, Model: params.Model}, nil
}

func (f *fleetStub) UpdateVehicle(ctx context.Context, vehicleID int64, params gestion.SaveVehicleParams) error {
	params.VehicleID = vehicleID
	f.updated = &params
	return nil
}

func (f *fleetStub) DeleteVehicle(ctx context.Context, vehicleID int64) error {
	f.deleted = vehicleID
	return nil
}

func (f *fleetStub) ListCategories(ctx context.Context) ([]gestion.Category, error) {
	return f.categories, f.categoriesErr
}

func (f *fleetStub) ListTransmissions(ctx context.Context) []gestion.Transmission {
	return []gestion.Transmission{{Code: "MT", Name: "Manual"}}
}

func (f *fleetStub) ListBranches(ctx context.Context) ([]gestion.Branch, error) {
	return f.branches, f.branchesErr
}

func newTestService(t *testing.T, fleet *fleetStub) *Service {
	t.Helper()
	service, err := NewService(fleet, logger.New(logger.Options{Level: logger.ParseLevel("error")}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}

func validForm() Form {
	return Form{
		Brand:          "Toyota",
		Model:          "Corolla",
		Year:           "2022",
		CategoryID:     "2",
		TransmissionID: "2",
		Capacity:       "5",
		PricePerDay:    "45.50",
		BranchID:       "1",
		Status:         "Disponible",
		ImageURL:       "https://cdn.example.com/corolla.jpg",
	}
}

func TestCreateMapsFormToWriteParams(t *testing.T) {
	fleet := &fleetStub{}
	service := newTestService(t, fleet)

	created, err := service.Create(context.Background(), validForm())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 99 {
		t.Fatalf("unexpected created vehicle %+v", created)
	}
	params := fleet.created
	if params == nil {
		t.Fatal("expected CreateVehicle call")
	}
	if params.Year != 2022 || params.Capacity != 5 || params.TransmissionID != 2 {
		t.Fatalf("unexpected mapped params %+v", params)
	}
	if params.PricePerDay != 45.50 || params.PriceNormal != 45.50 || params.PriceCurrent != 45.50 {
		t.Fatalf("price triplet must mirror the daily price, got %+v", params)
	}
	if params.Plate != nil || params.PromotionID != nil {
		t.Fatal("plate and promotion must stay null")
	}
}

func TestCreateRejectsInvalidForm(t *testing.T) {
	fleet := &fleetStub{}
	service := newTestService(t, fleet)

	form := validForm()
	form.Year = "1980"
	form.Capacity = "12"
	form.PricePerDay = "0"
	form.Status = "Prestado"

	_, err := service.Create(context.Background(), form)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	problems, ok := typed.Details().([]string)
	if !ok || len(problems) != 4 {
		t.Fatalf("expected four problems, got %v", typed.Details())
	}
	if fleet.created != nil {
		t.Fatal("invalid form must never reach the upstream API")
	}
}

func TestFormValidationRules(t *testing.T) {
	currentYear := time.Now().Year()
	cases := []struct {
		name   string
		mutate func(*Form)
		valid  bool
	}{
		{"valid", func(f *Form) {}, true},
		{"current year ok", func(f *Form) { f.Year = strconv.Itoa(currentYear) }, true},
		{"next year rejected", func(f *Form) { f.Year = strconv.Itoa(currentYear + 1) }, false},
		{"missing brand", func(f *Form) { f.Brand = "  " }, false},
		{"missing model", func(f *Form) { f.Model = "" }, false},
		{"year not numeric", func(f *Form) { f.Year = "hace poco" }, false},
		{"capacity zero", func(f *Form) { f.Capacity = "0" }, false},
		{"capacity nine ok", func(f *Form) { f.Capacity = "9" }, true},
		{"transmission out of range", func(f *Form) { f.TransmissionID = "4" }, false},
		{"missing category", func(f *Form) { f.CategoryID = "" }, false},
		{"missing branch", func(f *Form) { f.BranchID = "0" }, false},
		{"bad image scheme", func(f *Form) { f.ImageURL = "ftp://cdn.example.com/a.jpg" }, false},
		{"empty image ok", func(f *Form) { f.ImageURL = "" }, true},
		{"blank status defaults", func(f *Form) { f.Status = "" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)
			_, problems := form.mapped(0)
			if tc.valid && len(problems) != 0 {
				t.Fatalf("expected valid form, got %v", problems)
			}
			if !tc.valid && len(problems) == 0 {
				t.Fatal("expected rejection")
			}
		})
	}
}

func TestBlankStatusDefaultsToDisponible(t *testing.T) {
	form := validForm()
	form.Status = ""
	params, problems := form.mapped(0)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems %v", problems)
	}
	if params.Status != "Disponible" {
		t.Fatalf("expected Disponible default, got %q", params.Status)
	}
}

func TestLoadFormSupportDegradesPerLookup(t *testing.T) {
	fleet := &fleetStub{
		categoriesErr: fmt.Errorf("categories down"),
		branches:      []gestion.Branch{{ID: 1, Name: "Quito Centro"}},
	}
	service := newTestService(t, fleet)

	support := service.LoadFormSupport(context.Background())
	if support.Categories != nil {
		t.Fatalf("expected no categories, got %v", support.Categories)
	}
	if len(support.Branches) != 1 {
		t.Fatalf("expected branches despite category failure, got %v", support.Branches)
	}
	if len(support.Transmissions) != 1 {
		t.Fatalf("expected transmissions, got %v", support.Transmissions)
	}
}

func TestUpdateCarriesRouteID(t *testing.T) {
	fleet := &fleetStub{}
	service := newTestService(t, fleet)

	if err := service.Update(context.Background(), 7, validForm()); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if fleet.updated == nil || fleet.updated.VehicleID != 7 {
		t.Fatalf("expected vehicle id 7 in params, got %+v", fleet.updated)
	}
}
