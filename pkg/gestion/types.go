package gestion

import "github.com/urbandrive/storefront/pkg/enums"

// Vehicle is the normalized fleet record exchanged with the gestion API.
type Vehicle struct {
	ID             int64
	Brand          string
	Model          string
	Year           int
	CategoryID     int64
	CategoryName   string
	TransmissionID int64
	Transmission   string
	Capacity       int
	PricePerDay    float64
	BranchID       int64
	Status         string
	ImageURL       string
	Description    string
}

// User is the normalized account record.
type User struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	Address        string
	Country        string
	Age            int
	IDDocumentType string
	IDDocument     string
	Role           enums.UserRole
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Cart is the header record for a user's active cart.
type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt string
	Items     []CartItem
}

// CartItem references a vehicle and a closed date range, dates as YYYY-MM-DD.
type CartItem struct {
	ID          int64
	VehicleID   int64
	VehicleName string
	StartDate   string
	EndDate     string
	Subtotal    float64
}

// Reservation is the booking record of the gestion API.
type Reservation struct {
	ID          int64
	UserID      int64
	UserName    string
	UserEmail   string
	VehicleID   int64
	VehicleName string
	StartDate   string
	EndDate     string
	Total       float64
	Status      string
	CreatedAt   string
}

// Payment is one recorded debit against a reservation. The payer's bank
// account reference is stored in ExternalRef.
type Payment struct {
	ID              int64
	ReservationID   int64
	Method          string
	Amount          float64
	ExternalRef     string
	MerchantAccount string
	Status          string
	PaidAt          string
}

// Invoice references a paid reservation.
type Invoice struct {
	ID            int64
	ReservationID int64
	UserID        int64
	DocumentURL   string
	IssuedAt      string
	Total         float64
	Description   string
}

// Category is a vehicle category used on admin forms.
type Category struct {
	ID   int64
	Name string
}

// Transmission is a normalized transmission option with a stable code.
type Transmission struct {
	Code string
	Name string
}

// Branch is a rental branch office.
type Branch struct {
	ID      int64
	Name    string
	City    string
	Address string
}

// Promotion is a marketing entry shown on the home page.
type Promotion struct {
	ID          int64
	Title       string
	Description string
	Discount    float64
}

// AddCartItemParams is the write shape for POST /carrito/agregar.
type AddCartItemParams struct {
	UserID    int64  `json:"IdUsuario"`
	VehicleID int64  `json:"IdVehiculo"`
	StartDate string `json:"FechaInicio"`
	EndDate   string `json:"FechaFin"`
}

// CreateReservationParams is the write shape for POST /reservas.
type CreateReservationParams struct {
	UserID      int64   `json:"IdUsuario"`
	UserName    string  `json:"NombreUsuario,omitempty"`
	UserEmail   string  `json:"CorreoUsuario,omitempty"`
	VehicleID   int64   `json:"IdVehiculo"`
	VehicleName string  `json:"VehiculoNombre,omitempty"`
	StartDate   string  `json:"FechaInicio"`
	EndDate     string  `json:"FechaFin"`
	Total       float64 `json:"Total"`
	Status      string  `json:"Estado"`
	CreatedAt   string  `json:"FechaReserva"`
}

// RecordPaymentParams is the write shape for POST /pagos.
type RecordPaymentParams struct {
	ReservationID int64   `json:"IdReserva"`
	Method        string  `json:"Metodo"`
	Amount        float64 `json:"Monto"`
	ExternalRef   string  `json:"ReferenciaExterna"`
	Status        string  `json:"Estado"`
}

// PaymentResult is the normalized response of POST /pagos.
type PaymentResult struct {
	Message      string
	Approved     bool
	BankResponse string
	PaymentID    int64
}

// CreateInvoiceParams is the write shape for POST /facturas.
type CreateInvoiceParams struct {
	InvoiceID     int64   `json:"IdFactura"`
	ReservationID int64   `json:"IdReserva"`
	UserID        int64   `json:"IdUsuario"`
	DocumentURL   *string `json:"UriFactura"`
	IssuedAt      string  `json:"FechaEmision"`
	Total         float64 `json:"ValorTotal"`
	Description   string  `json:"Descripcion"`
}

// SaveUserParams is the write shape for user create/update calls.
type SaveUserParams struct {
	UserID         int64  `json:"IdUsuario,omitempty"`
	FirstName      string `json:"Nombre"`
	LastName       string `json:"Apellido"`
	Email          string `json:"Email"`
	Password       string `json:"Contrasena"`
	Address        string `json:"Direccion"`
	Country        string `json:"Pais"`
	Age            int    `json:"Edad"`
	IDDocumentType string `json:"TipoIdentificacion"`
	IDDocument     string `json:"Identificacion"`
	Role           string `json:"Rol"`
}

// SaveVehicleParams is the write shape for vehicle create/update calls.
// The upstream API still expects the price triplet, so PriceNormal and
// PriceCurrent are always set equal to PricePerDay. Plate and PromotionID
// ride along as explicit nulls.
type SaveVehicleParams struct {
	VehicleID      int64   `json:"IdVehiculo,omitempty"`
	Brand          string  `json:"Marca"`
	Model          string  `json:"Modelo"`
	Year           int     `json:"Anio"`
	CategoryID     int64   `json:"IdCategoria"`
	TransmissionID int64   `json:"IdTransmision"`
	Capacity       int     `json:"Capacidad"`
	PricePerDay    float64 `json:"PrecioDia"`
	PriceNormal    float64 `json:"PrecioNormal"`
	PriceCurrent   float64 `json:"PrecioActual"`
	Plate          *string `json:"Matricula"`
	PromotionID    *int64  `json:"IdPromocion"`
	BranchID       int64   `json:"IdSucursal"`
	Status         string  `json:"Estado"`
	ImageURL       *string `json:"UrlImagen"`
	Description    string  `json:"Descripcion"`
}
