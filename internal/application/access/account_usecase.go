package access

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

const minPasswordLen = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AccountUseCase alta, edición, baja y login de cuentas.
// Cuenta, perfil y rol se escriben en una sola transacción: si el rol falla, la cuenta no queda creada.
type AccountUseCase struct {
	txRunner repository.TxRunner
	users    repository.UserRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(txRunner repository.TxRunner, users repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		txRunner: txRunner,
		users:    users,
		jwtCfg:   jwtCfg,
		log:      log.With().Str("component", "accounts").Logger(),
		now:      time.Now,
	}
}

// Create crea una cuenta con un único rol. Solo admin puede otorgar el rol admin.
func (uc *AccountUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateAccountRequest) (*dto.UserResponse, error) {
	if !actor.CanAdministerUsers() {
		return nil, domain.ErrForbidden
	}
	return uc.create(ctx, actor.UserID, actor, in)
}

// BootstrapAdmin crea la primera cuenta admin sin actor (uso operativo desde la CLI).
func (uc *AccountUseCase) BootstrapAdmin(ctx context.Context, email, password, fullName string) (*dto.UserResponse, error) {
	system := authz.Actor{UserID: "system", Role: authz.RoleAdmin, HasRole: true}
	return uc.create(ctx, "", system, dto.CreateAccountRequest{
		Email: email, Password: password, FullName: fullName, Role: string(authz.RoleAdmin),
	})
}

func (uc *AccountUseCase) create(ctx context.Context, assignedBy string, actor authz.Actor, in dto.CreateAccountRequest) (*dto.UserResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password", "a senha deve ter pelo menos 6 caracteres")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, domain.Invalid("full_name", "nome obrigatório")
	}
	role, err := uc.grantable(actor, in.Role)
	if err != nil {
		return nil, err
	}
	sectorID := strings.TrimSpace(in.SectorID)
	if role == authz.RoleSetor && sectorID == "" {
		return nil, domain.Invalid("sector_id", "usuários do papel setor precisam de um setor")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		SectorID:     sectorID,
		Position:     strings.TrimSpace(in.Position),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		existing, err := tx.Users.GetByEmail(ctx, email)
		if err != nil {
			return domain.Dependency("get user by email", err)
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := requireSector(ctx, tx, sectorID); err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return domain.Dependency("insert user", err)
		}
		if err := tx.Users.ReplaceRoles(ctx, user.ID, []string{string(role)}, assignedBy); err != nil {
			return domain.Dependency("assign role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Roles = []string{string(role)}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Str("by", actor.UserID).Msg("cuenta creada")
	return toUserResponse(user), nil
}

// Update edita perfil, email, password y rol. Un cambio de rol reemplaza las asignaciones existentes.
func (uc *AccountUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	if !actor.CanAdministerUsers() {
		return nil, domain.ErrForbidden
	}
	var newRole authz.Role
	if in.Role != nil {
		r, err := uc.grantable(actor, *in.Role)
		if err != nil {
			return nil, err
		}
		newRole = r
	}
	var hash []byte
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, domain.Invalid("password", "a senha deve ter pelo menos 6 caracteres")
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost); err != nil {
			return nil, err
		}
	}

	var user *entity.User
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		user, err = tx.Users.GetByID(ctx, id)
		if err != nil {
			return domain.Dependency("get user", err)
		}
		if user == nil {
			return domain.ErrNotFound
		}
		// gerente no edita cuentas admin.
		if current, ok := authz.Resolve(user.Roles); ok && current == authz.RoleAdmin && actor.Role != authz.RoleAdmin {
			return domain.ErrForbidden
		}
		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			if email != user.Email {
				other, err := tx.Users.GetByEmail(ctx, email)
				if err != nil {
					return domain.Dependency("get user by email", err)
				}
				if other != nil && other.ID != user.ID {
					return domain.ErrDuplicate
				}
				user.Email = email
			}
		}
		if in.FullName != nil {
			name := strings.TrimSpace(*in.FullName)
			if name == "" {
				return domain.Invalid("full_name", "nome obrigatório")
			}
			user.FullName = name
		}
		if in.SectorID != nil {
			sectorID := strings.TrimSpace(*in.SectorID)
			if sectorID != user.SectorID {
				if err := requireSector(ctx, tx, sectorID); err != nil {
					return err
				}
			}
			user.SectorID = sectorID
		}
		if in.Position != nil {
			user.Position = strings.TrimSpace(*in.Position)
		}
		if hash != nil {
			user.PasswordHash = string(hash)
		}
		effective, _ := authz.Resolve(user.Roles)
		if newRole != "" {
			effective = newRole
		}
		if effective == authz.RoleSetor && user.SectorID == "" {
			return domain.Invalid("sector_id", "usuários do papel setor precisam de um setor")
		}
		user.UpdatedAt = uc.now()
		if err := tx.Users.Update(ctx, user); err != nil {
			return domain.Dependency("update user", err)
		}
		if newRole != "" {
			if err := tx.Users.ReplaceRoles(ctx, user.ID, []string{string(newRole)}, actor.UserID); err != nil {
				return domain.Dependency("replace roles", err)
			}
			user.Roles = []string{string(newRole)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("by", actor.UserID).Msg("cuenta actualizada")
	return toUserResponse(user), nil
}

// Delete elimina una cuenta (solo admin). Nadie puede eliminarse a sí mismo.
func (uc *AccountUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if !actor.CanDeleteUsers() {
		return domain.ErrForbidden
	}
	if id == actor.UserID {
		return domain.Invalid("id", "não é possível excluir a própria conta")
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return domain.Dependency("get user", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return domain.Dependency("delete user", err)
	}
	uc.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("cuenta eliminada")
	return nil
}

// List lista todas las cuentas con sus roles.
func (uc *AccountUseCase) List(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error) {
	if !actor.CanAdministerUsers() {
		return nil, domain.ErrForbidden
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, domain.Dependency("list users", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// Get devuelve una cuenta. Cada usuario puede ver la propia.
func (uc *AccountUseCase) Get(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	if id != actor.UserID && !actor.CanAdministerUsers() {
		return nil, domain.ErrForbidden
	}
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Dependency("get user", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponse(u), nil
}

// Login verifica email/password y emite el JWT. Credenciales inválidas no revelan si el email existe.
func (uc *AccountUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.Dependency("get user by email", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login")
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Me describe al actor actual.
func Me(actor authz.Actor) dto.MeResponse {
	out := dto.MeResponse{UserID: actor.UserID, SectorID: actor.SectorID, Capabilities: Capabilities(actor)}
	if actor.HasRole {
		out.Role = string(actor.Role)
	}
	return out
}

// grantable valida la etiqueta de rol y que el actor pueda otorgarla.
func (uc *AccountUseCase) grantable(actor authz.Actor, label string) (authz.Role, error) {
	role, ok := authz.ParseRole(strings.TrimSpace(label))
	if !ok {
		return "", domain.Invalid("role", "papel inválido")
	}
	if role == authz.RoleAdmin && actor.Role != authz.RoleAdmin {
		return "", domain.ErrForbidden
	}
	return role, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "email inválido")
	}
	return email, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	out := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		SectorID:  u.SectorID,
		Position:  u.Position,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if r, ok := authz.Resolve(u.Roles); ok {
		out.Role = string(r)
	}
	return out
}

func requireSector(ctx context.Context, tx repository.Repos, sectorID string) error {
	if sectorID == "" {
		return nil
	}
	sec, err := tx.Sectors.GetByID(ctx, sectorID)
	if err != nil {
		return domain.Dependency("get sector", err)
	}
	if sec == nil {
		return domain.Invalid("sector_id", "setor não encontrado")
	}
	return nil
}
