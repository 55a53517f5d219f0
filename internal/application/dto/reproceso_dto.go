package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsumoDraft es una viñeta seleccionada como entrada de un reproceso, con su
// proyección de salida (presupuesto compartido de 100% entre primeras y catadura).
type InsumoDraft struct {
	VinetaID    string          `json:"vineta_id" validate:"required"`
	PctPrimeras decimal.Decimal `json:"pct_primeras"`
	PctCatadura decimal.Decimal `json:"pct_catadura"`
}

// GuardarReprocesoRequest crea o edita un reproceso.
type GuardarReprocesoRequest struct {
	ID      string        `json:"id"`
	Notas   string        `json:"notas"`
	Insumos []InsumoDraft `json:"insumos" validate:"required,min=1,dive"`
	Salidas []VinetaDraft `json:"salidas" validate:"dive"`
}

// FinalizarReprocesoRequest marca o reabre el candado de un reproceso.
type FinalizarReprocesoRequest struct {
	Finalizado bool `json:"finalizado"`
}

// InsumoResponse entrada de un reproceso con su snapshot y proyección.
type InsumoResponse struct {
	VinetaID    string          `json:"vineta_id"`
	Numero      string          `json:"numero"`
	Subproducto string          `json:"subproducto"`
	Peso        decimal.Decimal `json:"peso"`
	PctPrimeras decimal.Decimal `json:"pct_primeras"`
	PctCatadura decimal.Decimal `json:"pct_catadura"`
}

// ReprocesoResponse representación HTTP de un reproceso.
type ReprocesoResponse struct {
	ID                 string           `json:"id"`
	Documento          string           `json:"documento"`
	Fecha              time.Time        `json:"fecha"`
	Notas              string           `json:"notas,omitempty"`
	Finalizado         bool             `json:"finalizado"`
	Insumos            []InsumoResponse `json:"insumos"`
	Salidas            []VinetaResponse `json:"salidas"`
	TotalEntrada       decimal.Decimal  `json:"total_entrada"`
	TotalSalida        decimal.Decimal  `json:"total_salida"`
	Merma              decimal.Decimal  `json:"merma"`
	MermaAnomala       bool             `json:"merma_anomala"`
	ProyectadoPrimeras decimal.Decimal  `json:"proyectado_primeras"`
	ProyectadoCatadura decimal.Decimal  `json:"proyectado_catadura"`
	RealPrimeras       decimal.Decimal  `json:"real_primeras"`
	RealCatadura       decimal.Decimal  `json:"real_catadura"`
}
