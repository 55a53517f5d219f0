package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP. Detalle lleva los errores de campo de
// un ValidationError o el recurso en conflicto de un ConflictError.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detalle any    `json:"detalle,omitempty"`
}
