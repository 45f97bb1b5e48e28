package repository

import (
	"context"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

// UsuarioRepository puerto de identidad: resuelve usuarios para auditoría y
// login, y expone el conjunto de renglones autorizados por usuario.
type UsuarioRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*entity.Usuario, error)

	// RenglonesPermitidos devuelve los renglones activos del usuario, únicos y
	// ordenados ascendentemente. Vacío significa que el usuario no puede
	// operar contra ningún renglón.
	RenglonesPermitidos(ctx context.Context, idUsuario int64) ([]int, error)
}
