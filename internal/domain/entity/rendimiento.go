package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prefijos de numeración de documentos.
const (
	PrefijoRendimiento = "REN-"
	PrefijoReproceso   = "RP-"
)

// Rendimiento cierra una o más órdenes de trilla y declara las viñetas
// físicamente obtenidas. Los proyectados son un snapshot de las órdenes al
// momento de guardar; los reales se derivan de las viñetas propias.
type Rendimiento struct {
	ID                 string
	Documento          string // REN-n
	Fecha              time.Time
	OrdenesTrillaIDs   []string
	ProyectadoPrimeras decimal.Decimal
	ProyectadoCatadura decimal.Decimal
	Vinetas            []*Vineta // viñetas creadas (propiedad exclusiva)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RealPrimeras suma el peso actual de las viñetas propias clasificadas como primeras.
func (r *Rendimiento) RealPrimeras() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.Vinetas {
		if EsPrimeras(v.Subproducto) {
			total = total.Add(v.PesoActual)
		}
	}
	return total
}

// RealCatadura suma el peso actual de las viñetas propias no clasificadas como primeras.
func (r *Rendimiento) RealCatadura() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.Vinetas {
		if !EsPrimeras(v.Subproducto) {
			total = total.Add(v.PesoActual)
		}
	}
	return total
}
