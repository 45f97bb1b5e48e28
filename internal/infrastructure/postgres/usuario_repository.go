package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/bodega-api/internal/domain/entity"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

const columnasUsuario = `
	id_usuario, email, password_hash, nombres, apellidos, rol, activo, creado_en`

// UsuarioRepo implementación de UsuarioRepository sobre PostgreSQL (usable con pool o tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador de usuarios. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

func scanUsuario(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(
		&u.IDUsuario, &u.Email, &u.PasswordHash, &u.Nombres, &u.Apellidos,
		&u.Rol, &u.Activo, &u.CreadoEn,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID obtiene un usuario por id; nil si no existe.
func (r *UsuarioRepo) GetByID(ctx context.Context, id int64) (*entity.Usuario, error) {
	query := `SELECT` + columnasUsuario + ` FROM usuarios WHERE id_usuario = $1`
	u, err := scanUsuario(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email; nil si no existe.
func (r *UsuarioRepo) FindByEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	query := `SELECT` + columnasUsuario + ` FROM usuarios WHERE lower(email) = lower($1)`
	u, err := scanUsuario(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find usuario por email: %w", err)
	}
	return u, nil
}

// RenglonesPermitidos devuelve los renglones activos del usuario, únicos y
// ordenados.
func (r *UsuarioRepo) RenglonesPermitidos(ctx context.Context, idUsuario int64) ([]int, error) {
	query := `
		SELECT DISTINCT renglon FROM usuario_renglones
		WHERE id_usuario = $1 AND activo
		ORDER BY renglon`
	rows, err := r.q.Query(ctx, query, idUsuario)
	if err != nil {
		return nil, fmt.Errorf("renglones permitidos: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var renglon int
		if err := rows.Scan(&renglon); err != nil {
			return nil, fmt.Errorf("scan renglon: %w", err)
		}
		out = append(out, renglon)
	}
	return out, rows.Err()
}
