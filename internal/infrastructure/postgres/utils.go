package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isNoRows reporta si el error es la ausencia de filas de pgx. Los repos lo
// traducen a (nil, nil): "no existe" no es un error de infraestructura.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation reporta si el error es una violación de restricción
// UNIQUE de PostgreSQL (SQLSTATE 23505). Es la señal que usan la numeración
// de recepciones (reintento) y la idempotencia por receipt_item_id.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// nullIfEmpty convierte "" en NULL para columnas de texto opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
