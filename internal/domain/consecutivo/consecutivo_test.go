package consecutivo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmejiac/beneficio-api/internal/domain/consecutivo"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Numeración de documentos: máximo existente + 1, tolerante a huecos.
// La anulación de un documento nunca debe provocar la reutilización de su
// número si existe otro mayor.
// ──────────────────────────────────────────────────────────────────────────────

func TestSiguiente_SinDocumentosEmpiezaEnUno(t *testing.T) {
	assert.Equal(t, 1, consecutivo.Siguiente(nil, entity.PrefijoRendimiento))
	assert.Equal(t, 1, consecutivo.Siguiente([]string{}, entity.PrefijoReproceso))
}

func TestSiguiente_MaximoMasUno(t *testing.T) {
	docs := []string{"REN-1", "REN-2", "REN-3"}
	assert.Equal(t, 4, consecutivo.Siguiente(docs, entity.PrefijoRendimiento))
}

// Tras anular REN-2, el siguiente sigue siendo REN-4: los huecos no se reusan.
func TestSiguiente_HuecosNoSeReutilizan(t *testing.T) {
	docs := []string{"REN-1", "REN-3"}
	assert.Equal(t, 4, consecutivo.Siguiente(docs, entity.PrefijoRendimiento))
}

func TestSiguiente_IgnoraSufijosNoNumericos(t *testing.T) {
	docs := []string{"REN-2", "REN-abc", "REN-", "REN--5"}
	assert.Equal(t, 3, consecutivo.Siguiente(docs, entity.PrefijoRendimiento))
}

// Los prefijos REN- y RP- llevan numeraciones independientes.
func TestSiguiente_PrefijosIndependientes(t *testing.T) {
	docs := []string{"REN-9", "RP-2"}
	assert.Equal(t, 10, consecutivo.Siguiente(docs, entity.PrefijoRendimiento))
	assert.Equal(t, 3, consecutivo.Siguiente(docs, entity.PrefijoReproceso))
}

func TestDocumento_Formato(t *testing.T) {
	assert.Equal(t, "REN-7", consecutivo.Documento(entity.PrefijoRendimiento, 7))
	assert.Equal(t, "RP-1", consecutivo.Documento(entity.PrefijoReproceso, 1))
}
