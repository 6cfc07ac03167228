package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("la orden no está en un estado recibible")
	ErrInactiveWarehouse  = errors.New("bodega inactiva")
	ErrOverReceipt        = errors.New("cantidad excede lo pendiente por recibir")
)

// OverReceiptError indica que una línea de recepción intenta recibir más de lo
// que queda pendiente en la línea de orden. Reporta cuánto se puede recibir
// todavía. errors.Is(err, ErrOverReceipt) == true.
type OverReceiptError struct {
	PurchaseOrderItemID string
	ProductName         string
	Requested           decimal.Decimal
	Remaining           decimal.Decimal
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("no se pueden recibir %s de %s: quedan %s por recibir",
		e.Requested.String(), e.ProductName, e.Remaining.String())
}

// Is permite detectar el error con el centinela ErrOverReceipt.
func (e *OverReceiptError) Is(target error) bool { return target == ErrOverReceipt }
