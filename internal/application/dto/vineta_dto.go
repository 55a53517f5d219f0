package dto

import "github.com/shopspring/decimal"

// VinetaDraft es una viñeta digitada en el formulario de un rendimiento o de
// las salidas de un reproceso. ID vacío significa viñeta nueva; con ID, el
// documento en edición conserva esa viñeta (posiblemente con cambios).
type VinetaDraft struct {
	ID          string          `json:"id"`
	Numero      string          `json:"numero" validate:"required"`
	Subproducto string          `json:"subproducto" validate:"required"`
	Peso        decimal.Decimal `json:"peso"`
	Notas       string          `json:"notas"`
}

// VinetaResponse representación HTTP de una viñeta.
type VinetaResponse struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	Subproducto  string          `json:"subproducto"`
	PesoOriginal decimal.Decimal `json:"peso_original"`
	PesoActual   decimal.Decimal `json:"peso_actual"`
	Estado       string          `json:"estado"`
	Notas        string          `json:"notas,omitempty"`
}

// CambiarEstadoRequest petición de los consumidores externos (mezcla, venta)
// para marcar una viñeta como consumida.
type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}
