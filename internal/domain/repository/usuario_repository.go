package repository

import "github.com/dmejiac/beneficio-api/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia de usuarios.
type UsuarioRepository interface {
	Create(u *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
}
