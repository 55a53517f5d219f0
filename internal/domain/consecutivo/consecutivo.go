// Package consecutivo asigna números de documento legibles (REN-n, RP-n)
// como servicio de dominio puro. El máximo se calcula sobre los documentos
// existentes, no sobre el conteo, para tolerar huecos por anulaciones.
package consecutivo

import (
	"fmt"
	"strconv"
	"strings"
)

// Siguiente devuelve max(sufijo numérico)+1 de los documentos con el prefijo
// dado, o 1 si no hay ninguno. Sufijos no numéricos se ignoran. Debe invocarse
// dentro de la misma transacción que persiste el documento nuevo; de lo
// contrario dos guardados concurrentes pueden obtener el mismo número.
func Siguiente(existentes []string, prefijo string) int {
	max := 0
	for _, doc := range existentes {
		if !strings.HasPrefix(doc, prefijo) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(doc, prefijo))
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// Documento formatea un número con su prefijo: Documento("REN-", 7) == "REN-7".
func Documento(prefijo string, n int) string {
	return fmt.Sprintf("%s%d", prefijo, n)
}
