package reproceso

import "github.com/shopspring/decimal"

var cien = decimal.NewFromInt(100)

// AjustarProyeccion aplica la regla del presupuesto compartido de 100% por
// viñeta de entrada: valor se recorta a [0,100] y, si la suma con el campo
// pareado excede 100, el campo pareado se reduce para que la suma quede en 100.
// Devuelve (valor, pareado) ya ajustados.
func AjustarProyeccion(valor, pareado decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if valor.IsNegative() {
		valor = decimal.Zero
	}
	if valor.GreaterThan(cien) {
		valor = cien
	}
	if pareado.IsNegative() {
		pareado = decimal.Zero
	}
	if valor.Add(pareado).GreaterThan(cien) {
		pareado = cien.Sub(valor)
	}
	return valor, pareado
}
