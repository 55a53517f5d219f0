package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrdenTrilla es el modelo de lectura de una orden de trilla. El núcleo solo
// la consulta para los proyectados de un rendimiento; su ciclo de vida lo
// administra otro subsistema.
type OrdenTrilla struct {
	ID            string
	Numero        string
	TotalTrillar  decimal.Decimal
	TotalPrimeras decimal.Decimal
	TotalCatadura decimal.Decimal
	Fecha         time.Time
}
