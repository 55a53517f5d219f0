package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrFinalizado         = errors.New("el reproceso está finalizado")
)

// ErrorCampo describe una falla de validación a nivel de campo. VinetaID queda
// vacío cuando el error aplica al documento completo (ej. sin órdenes seleccionadas).
type ErrorCampo struct {
	Campo    string `json:"campo"`
	VinetaID string `json:"vineta_id,omitempty"`
	Razon    string `json:"razon"`
}

// ValidationError agrupa las fallas de validación de un guardado. Siempre es
// recuperable por el usuario y nunca deja escritura parcial.
type ValidationError struct {
	Errores []ErrorCampo
}

func (e *ValidationError) Error() string {
	if len(e.Errores) == 0 {
		return "validación fallida"
	}
	partes := make([]string, 0, len(e.Errores))
	for _, c := range e.Errores {
		if c.VinetaID != "" {
			partes = append(partes, fmt.Sprintf("%s (viñeta %s): %s", c.Campo, c.VinetaID, c.Razon))
		} else {
			partes = append(partes, fmt.Sprintf("%s: %s", c.Campo, c.Razon))
		}
	}
	return "validación fallida: " + strings.Join(partes, "; ")
}

// Agregar acumula una falla; devuelve el receptor para encadenar.
func (e *ValidationError) Agregar(campo, vinetaID, razon string) *ValidationError {
	e.Errores = append(e.Errores, ErrorCampo{Campo: campo, VinetaID: vinetaID, Razon: razon})
	return e
}

// Vacio indica que no se acumuló ninguna falla.
func (e *ValidationError) Vacio() bool { return len(e.Errores) == 0 }

// ConflictError señala una mutación que violaría un invariante entre
// documentos (salida ya consumida, viñeta u orden reclamada dos veces).
// El guardado se aborta completo; ningún estado queda a medias.
type ConflictError struct {
	Recurso string // "vineta" | "orden_trilla" | "reproceso"
	ID      string // id o número del recurso en conflicto
	Razon   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto en %s %s: %s", e.Recurso, e.ID, e.Razon)
}

// StorageError envuelve fallas de transporte del colaborador de persistencia
// (timeouts, desconexiones). El core no reintenta; el caller decide.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("almacenamiento: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// EsValidacion extrae el detalle estructurado si err es un ValidationError.
func EsValidacion(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// EsConflicto extrae el detalle estructurado si err es un ConflictError.
func EsConflicto(err error) (*ConflictError, bool) {
	var ce *ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

// EsAlmacenamiento extrae el detalle si err es un StorageError.
func EsAlmacenamiento(err error) (*StorageError, bool) {
	var se *StorageError
	ok := errors.As(err, &se)
	return se, ok
}
