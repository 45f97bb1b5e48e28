package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/jcastellanos/bodega-api/internal/application/dto"
	"github.com/jcastellanos/bodega-api/internal/domain"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
	"github.com/jcastellanos/bodega-api/pkg/jwt"
)

// UseCase autentica usuarios y emite tokens JWT.
type UseCase struct {
	usuarioRepo repository.UsuarioRepository
	secret      string
	issuer      string
	expMinutes  int
}

// NewUseCase construye el caso de uso.
func NewUseCase(usuarioRepo repository.UsuarioRepository, secret, issuer string, expMinutes int) *UseCase {
	return &UseCase{
		usuarioRepo: usuarioRepo,
		secret:      secret,
		issuer:      issuer,
		expMinutes:  expMinutes,
	}
}

// Login valida credenciales contra el hash bcrypt y devuelve el token con el
// perfil del usuario. Cualquier fallo responde lo mismo para no filtrar qué
// parte falló.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarioRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if usuario == nil || !usuario.Activo {
		return nil, domain.ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrCredenciales
	}

	token, err := jwt.Generate(uc.secret, usuario.IDUsuario, usuario.Rol, uc.issuer, uc.expMinutes)
	if err != nil {
		return nil, err
	}
	renglones, err := uc.usuarioRepo.RenglonesPermitidos(ctx, usuario.IDUsuario)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		Usuario: dto.UsuarioResponse{
			IDUsuario:           usuario.IDUsuario,
			Email:               usuario.Email,
			Nombres:             usuario.Nombres,
			Apellidos:           usuario.Apellidos,
			Rol:                 usuario.Rol,
			RenglonesPermitidos: renglones,
		},
	}, nil
}

// Perfil devuelve el perfil del usuario autenticado.
func (uc *UseCase) Perfil(ctx context.Context, idUsuario int64) (*dto.UsuarioResponse, error) {
	usuario, err := uc.usuarioRepo.GetByID(ctx, idUsuario)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, domain.ErrNoEncontrado
	}
	renglones, err := uc.usuarioRepo.RenglonesPermitidos(ctx, idUsuario)
	if err != nil {
		return nil, err
	}
	return &dto.UsuarioResponse{
		IDUsuario:           usuario.IDUsuario,
		Email:               usuario.Email,
		Nombres:             usuario.Nombres,
		Apellidos:           usuario.Apellidos,
		Rol:                 usuario.Rol,
		RenglonesPermitidos: renglones,
	}, nil
}
