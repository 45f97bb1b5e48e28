package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UsuarioResponse usuario autenticado, sin credenciales.
type UsuarioResponse struct {
	IDUsuario           int64  `json:"id_usuario"`
	Email               string `json:"email"`
	Nombres             string `json:"nombres"`
	Apellidos           string `json:"apellidos"`
	Rol                 string `json:"rol"`
	RenglonesPermitidos []int  `json:"renglones_permitidos"`
}

// LoginResponse token JWT más el perfil del usuario.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario UsuarioResponse `json:"usuario"`
}
