package gestion

import (
	"github.com/urbandrive/storefront/pkg/enums"
)

func normalizeVehicle(raw []byte) (Vehicle, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Vehicle{}, err
	}
	id := obj.int64("IdVehiculo", "VehiculoId", "Id")
	if id == 0 {
		return Vehicle{}, missingField("vehicle", "IdVehiculo")
	}
	return Vehicle{
		ID:             id,
		Brand:          obj.str("Marca"),
		Model:          obj.str("Modelo"),
		Year:           int(obj.int64("Anio", "Ano", "Year")),
		CategoryID:     obj.int64("IdCategoria", "IdCategoriaVehiculo"),
		CategoryName:   obj.str("NombreCategoria", "Categoria"),
		TransmissionID: obj.int64("IdTransmision"),
		Transmission:   obj.str("Transmision"),
		Capacity:       int(obj.int64("Capacidad")),
		PricePerDay:    obj.float("PrecioDia", "PrecioPorDia", "Precio"),
		BranchID:       obj.int64("IdSucursal"),
		Status:         obj.str("Estado"),
		ImageURL:       obj.str("UrlImagen", "ImagenUrl", "Imagen"),
		Description:    obj.str("Descripcion"),
	}, nil
}

func normalizeUser(raw []byte) (User, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return User{}, err
	}
	id := obj.int64("IdUsuario", "Id", "UsuarioId")
	if id == 0 {
		return User{}, missingField("user", "IdUsuario")
	}
	role, err := enums.ParseUserRole(obj.str("Rol"))
	if err != nil {
		role = enums.UserRoleClient
	}
	return User{
		ID:             id,
		FirstName:      obj.str("Nombre", "Nombres"),
		LastName:       obj.str("Apellido", "Apellidos"),
		Email:          obj.str("Email", "Correo"),
		PasswordHash:   obj.str("Contrasena"),
		Address:        obj.str("Direccion"),
		Country:        obj.str("Pais"),
		Age:            int(obj.int64("Edad")),
		IDDocumentType: obj.str("TipoIdentificacion"),
		IDDocument:     obj.str("Identificacion"),
		Role:           role,
	}, nil
}

func normalizeCart(raw []byte, fallbackUserID int64) (Cart, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Cart{}, err
	}
	id := obj.int64("IdCarrito", "CarritoId")
	if id == 0 {
		return Cart{}, missingField("cart", "IdCarrito")
	}
	userID := obj.int64("IdUsuario")
	if userID == 0 {
		userID = fallbackUserID
	}

	var items []CartItem
	if itemsRaw, ok := obj.lookup("Items", "Detalles"); ok {
		elems, err := decodeList(itemsRaw)
		if err != nil {
			return Cart{}, err
		}
		for _, elem := range elems {
			item, err := normalizeCartItem(elem)
			if err != nil {
				return Cart{}, err
			}
			items = append(items, item)
		}
	}

	return Cart{
		ID:        id,
		UserID:    userID,
		CreatedAt: obj.str("FechaCreacion"),
		Items:     items,
	}, nil
}

func normalizeCartItem(raw []byte) (CartItem, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return CartItem{}, err
	}
	vehicleID := obj.int64("IdVehiculo", "VehiculoId")
	if vehicleID == 0 {
		return CartItem{}, missingField("cart item", "IdVehiculo")
	}
	return CartItem{
		ID:          obj.int64("IdItem", "Id", "ItemId"),
		VehicleID:   vehicleID,
		VehicleName: obj.str("VehiculoNombre", "Modelo"),
		StartDate:   dateOnly(obj.str("FechaInicio", "FechaInicioReserva")),
		EndDate:     dateOnly(obj.str("FechaFin", "FechaFinReserva")),
		Subtotal:    obj.float("Subtotal", "TotalItem"),
	}, nil
}

func normalizeReservation(raw []byte) (Reservation, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Reservation{}, err
	}
	id := obj.int64("IdReserva", "Id", "ReservaId")
	if id == 0 {
		return Reservation{}, missingField("reservation", "IdReserva")
	}
	return Reservation{
		ID:          id,
		UserID:      obj.int64("IdUsuario"),
		UserName:    obj.str("NombreUsuario"),
		UserEmail:   obj.str("CorreoUsuario", "UsuarioCorreo"),
		VehicleID:   obj.int64("IdVehiculo"),
		VehicleName: obj.str("VehiculoNombre", "Modelo"),
		StartDate:   dateOnly(obj.str("FechaInicio")),
		EndDate:     dateOnly(obj.str("FechaFin")),
		Total:       obj.float("Total"),
		Status:      obj.str("Estado"),
		CreatedAt:   obj.str("FechaReserva"),
	}, nil
}

func normalizePayment(raw []byte) (Payment, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Payment{}, err
	}
	reservationID := obj.int64("IdReserva", "ReservaId")
	if reservationID == 0 {
		return Payment{}, missingField("payment", "IdReserva")
	}
	return Payment{
		ID:              obj.int64("IdPago", "Id"),
		ReservationID:   reservationID,
		Method:          obj.str("Metodo"),
		Amount:          obj.float("Monto"),
		ExternalRef:     obj.str("ReferenciaExterna", "CuentaCliente", "CuentaOrigen"),
		MerchantAccount: obj.str("CuentaComercio", "CuentaDestino"),
		Status:          obj.str("Estado"),
		PaidAt:          obj.str("FechaPago"),
	}, nil
}

func normalizePaymentResult(raw []byte) (PaymentResult, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{
		Message:      obj.str("Mensaje"),
		Approved:     obj.boolean("Aprobado"),
		BankResponse: obj.str("RespuestaBanco"),
		PaymentID:    obj.int64("IdPago"),
	}, nil
}

func normalizeInvoice(raw []byte) (Invoice, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Invoice{}, err
	}
	id := obj.int64("IdFactura", "Id")
	if id == 0 {
		return Invoice{}, missingField("invoice", "IdFactura")
	}
	return Invoice{
		ID:            id,
		ReservationID: obj.int64("IdReserva"),
		UserID:        obj.int64("IdUsuario"),
		DocumentURL:   obj.str("UriFactura"),
		IssuedAt:      obj.str("FechaEmision"),
		Total:         obj.float("ValorTotal"),
		Description:   obj.str("Descripcion"),
	}, nil
}

func normalizeCategory(raw []byte) (Category, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Category{}, err
	}
	id := obj.int64("IdCategoria", "Id", "IdCategoriaVehiculo")
	if id == 0 {
		return Category{}, missingField("category", "IdCategoria")
	}
	return Category{
		ID:   id,
		Name: obj.str("Nombre", "NombreCategoria", "Categoria"),
	}, nil
}

func normalizeBranch(raw []byte) (Branch, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Branch{}, err
	}
	id := obj.int64("IdSucursal", "Id")
	if id == 0 {
		return Branch{}, missingField("branch", "IdSucursal")
	}
	return Branch{
		ID:      id,
		Name:    obj.str("Nombre"),
		City:    obj.str("Ciudad"),
		Address: obj.str("Direccion"),
	}, nil
}

func normalizePromotion(raw []byte) (Promotion, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Promotion{}, err
	}
	id := obj.int64("IdPromocion", "Id")
	if id == 0 {
		return Promotion{}, missingField("promotion", "IdPromocion")
	}
	return Promotion{
		ID:          id,
		Title:       obj.str("Titulo", "Nombre"),
		Description: obj.str("Descripcion"),
		Discount:    obj.float("Descuento"),
	}, nil
}

func normalizeEach[T any](raw []byte, normalize func([]byte) (T, error)) ([]T, error) {
	elems, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		item, err := normalize(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
