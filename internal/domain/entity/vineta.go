package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Estados de una viñeta. EN_STOCK es el inicial; VENDIDA es terminal.
const (
	EstadoEnStock       = "EN_STOCK"
	EstadoReprocesada   = "REPROCESADA"
	EstadoMezclada      = "MEZCLADA"
	EstadoParcialMezcla = "PARCIALMENTE_MEZCLADA"
	EstadoUsadaEnTrilla = "USADA_EN_TRILLA"
	EstadoVendida       = "VENDIDA"
)

// Subproductos habituales del beneficio seco. Lista configurable, no exhaustiva:
// el campo Subproducto acepta cualquier texto.
var SubproductosConocidos = []string{"Primeras", "Catadura", "Chibola", "Cascarilla"}

// Vineta representa un lote físico de subproducto de trilla (quintales).
// El número de viñeta es único en todo el sistema (rendimientos y reprocesos,
// vigentes e históricos). PesoOriginal es inmutable desde la creación;
// PesoActual solo decrece salvo corrección administrativa.
type Vineta struct {
	ID            string
	Numero        string // identificador humano asignado en bodega
	Subproducto   string
	PesoOriginal  decimal.Decimal
	PesoActual    decimal.Decimal
	Estado        string
	Notas         string
	RendimientoID string // documento creador, si nació en un rendimiento
	ReprocesoID   string // documento creador, si nació como salida de un reproceso
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizarNumero prepara un número de viñeta para comparación de unicidad:
// recorta espacios y aplica NFC para que tildes compuestas y precompuestas
// cuenten como el mismo número. La comparación es sensible a mayúsculas.
func NormalizarNumero(numero string) string {
	return norm.NFC.String(strings.TrimSpace(numero))
}

// EsPrimeras clasifica un subproducto como "primeras" para los totales
// reales de un documento (cualquier otro texto suma a catadura).
func EsPrimeras(subproducto string) bool {
	return strings.EqualFold(strings.TrimSpace(subproducto), "Primeras")
}

// EstadoValido indica si el texto es uno de los estados conocidos.
func EstadoValido(estado string) bool {
	switch estado {
	case EstadoEnStock, EstadoReprocesada, EstadoMezclada,
		EstadoParcialMezcla, EstadoUsadaEnTrilla, EstadoVendida:
		return true
	}
	return false
}

// TransicionValida valida el grafo de estados:
// EN_STOCK → {REPROCESADA, MEZCLADA, PARCIALMENTE_MEZCLADA, USADA_EN_TRILLA} → VENDIDA.
// La vuelta a EN_STOCK solo ocurre por reversión explícita del documento que
// consumió la viñeta, nunca por esta función.
func TransicionValida(desde, hacia string) bool {
	if !EstadoValido(desde) || !EstadoValido(hacia) {
		return false
	}
	switch desde {
	case EstadoEnStock:
		// Desde stock puede consumirse por cualquier subsistema, incluida venta directa.
		return hacia != EstadoEnStock
	case EstadoReprocesada, EstadoMezclada, EstadoParcialMezcla, EstadoUsadaEnTrilla:
		return hacia == EstadoVendida
	case EstadoVendida:
		return false
	}
	return false
}

// Disponible indica si la viñeta puede seleccionarse como insumo de un
// reproceso: en stock o con mezcla parcial, y con peso restante por encima
// del epsilon de balanza.
func (v *Vineta) Disponible(epsilon decimal.Decimal) bool {
	if v.Estado != EstadoEnStock && v.Estado != EstadoParcialMezcla {
		return false
	}
	return v.PesoActual.GreaterThan(epsilon)
}
