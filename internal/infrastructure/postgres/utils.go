package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmejiac/beneficio-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Lo disparan el índice único de números de viñeta y el reclamo único de órdenes.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// storageError envuelve una falla de transporte (timeout, desconexión, scan)
// como domain.StorageError. El motor la propaga sin tocar; el caller reintenta.
func storageError(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
