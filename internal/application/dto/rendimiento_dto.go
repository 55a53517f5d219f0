package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuardarRendimientoRequest crea o edita un rendimiento. Con ID vacío se crea
// un documento nuevo; con ID se reemplaza completa la lista de viñetas.
type GuardarRendimientoRequest struct {
	ID         string        `json:"id"`
	OrdenesIDs []string      `json:"ordenes_ids" validate:"required,min=1"`
	Vinetas    []VinetaDraft `json:"vinetas" validate:"required,min=1,dive"`
}

// RendimientoResponse representación HTTP de un rendimiento.
type RendimientoResponse struct {
	ID                 string           `json:"id"`
	Documento          string           `json:"documento"`
	Fecha              time.Time        `json:"fecha"`
	OrdenesIDs         []string         `json:"ordenes_ids"`
	ProyectadoPrimeras decimal.Decimal  `json:"proyectado_primeras"`
	ProyectadoCatadura decimal.Decimal  `json:"proyectado_catadura"`
	RealPrimeras       decimal.Decimal  `json:"real_primeras"`
	RealCatadura       decimal.Decimal  `json:"real_catadura"`
	Vinetas            []VinetaResponse `json:"vinetas"`
}

// OrdenTrillaResponse orden de trilla disponible para un rendimiento.
type OrdenTrillaResponse struct {
	ID            string          `json:"id"`
	Numero        string          `json:"numero"`
	TotalTrillar  decimal.Decimal `json:"total_trillar"`
	TotalPrimeras decimal.Decimal `json:"total_primeras"`
	TotalCatadura decimal.Decimal `json:"total_catadura"`
}
