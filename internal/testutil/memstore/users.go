package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type userRepo struct{ s *Store }

// Users repositorio de cuentas y roles.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("users.create"); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	if r.s.sectorMissing(u.SectorID) {
		return errSectorFK
	}
	cp := *u
	cp.Roles = nil
	r.s.users[u.ID] = cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("users.get"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.Roles = append([]string(nil), r.s.roles[id]...)
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u.Roles = append([]string(nil), r.s.roles[u.ID]...)
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("users.update"); err != nil {
		return err
	}
	prev, ok := r.s.users[u.ID]
	if !ok {
		return nil
	}
	// como la FK de Postgres, solo se verifica cuando la columna cambia
	if u.SectorID != prev.SectorID && r.s.sectorMissing(u.SectorID) {
		return errSectorFK
	}
	cp := *u
	cp.Roles = nil
	r.s.users[u.ID] = cp
	return nil
}

func (r userRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("users.list"); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := u
		cp.Roles = append([]string(nil), r.s.roles[u.ID]...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("users.delete"); err != nil {
		return err
	}
	delete(r.s.users, id)
	delete(r.s.roles, id)
	return nil
}

func (r userRepo) RolesOf(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("roles.of"); err != nil {
		return nil, err
	}
	return append([]string(nil), r.s.roles[userID]...), nil
}

func (r userRepo) ReplaceRoles(_ context.Context, userID string, roles []string, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("roles.replace"); err != nil {
		return err
	}
	r.s.roles[userID] = append([]string(nil), roles...)
	return nil
}

// SetRoles asigna etiquetas crudas directamente (incluidas las desconocidas).
func (s *Store) SetRoles(userID string, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = roles
}

// PutUser inserta una cuenta sin pasar por los casos de uso.
func (s *Store) PutUser(u entity.User, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.roles[u.ID] = roles
}
