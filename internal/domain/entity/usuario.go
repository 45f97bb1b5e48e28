package entity

import "time"

// Roles de usuario.
const (
	RolAdmin     = "admin"
	RolBodeguero = "bodeguero"
	RolConsulta  = "consulta"
)

// Usuario es el actor de las operaciones; se usa para auditoría y para
// resolver el nombre visible en las respuestas.
type Usuario struct {
	IDUsuario    int64
	Email        string
	PasswordHash string
	Nombres      string
	Apellidos    string
	Rol          string
	Activo       bool
	CreadoEn     time.Time
}

// NombreCompleto devuelve el nombre visible para auditoría.
func (u *Usuario) NombreCompleto() string {
	if u.Apellidos == "" {
		return u.Nombres
	}
	return u.Nombres + " " + u.Apellidos
}
