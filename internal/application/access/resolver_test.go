package access_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-api/internal/application/access"
	authz "github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/testutil/memstore"
)

func TestResolver(t *testing.T) {
	store := memstore.New()
	store.PutUser(entity.User{ID: "u-1", SectorID: "s-9"}, "setor", "estoquista")
	store.PutUser(entity.User{ID: "u-2"}, "visitante")
	r := access.NewResolver(store.Users(), zerolog.Nop())
	ctx := context.Background()

	a := r.Resolve(ctx, "u-1")
	assert.True(t, a.HasRole)
	assert.Equal(t, authz.RoleEstoquista, a.Role)
	assert.Equal(t, "s-9", a.SectorID)

	b := r.Resolve(ctx, "u-2")
	assert.False(t, b.HasRole)
	assert.True(t, b.Authenticated())

	c := r.Resolve(ctx, "desconhecido")
	assert.False(t, c.HasRole)

	assert.False(t, r.Resolve(ctx, "").Authenticated())
}

func TestResolver_FallaDeConsultaNiegaTodo(t *testing.T) {
	store := memstore.New()
	store.PutUser(entity.User{ID: "u-1"}, "admin")
	store.FailOn("users.get", memstore.ErrInjected)
	a := access.NewResolver(store.Users(), zerolog.Nop()).Resolve(context.Background(), "u-1")
	assert.False(t, a.HasRole)
	assert.False(t, a.CanViewReports())
}

func TestMe(t *testing.T) {
	me := access.Me(authz.NewActor("u-1", "", []string{"gerente"}))
	assert.Equal(t, "gerente", me.Role)
	assert.True(t, me.Capabilities["view_ledger"])
	assert.False(t, me.Capabilities["delete_records"])
}
