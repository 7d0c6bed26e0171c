package property

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/api-service/internal/db/dbtest"
	"dealdesk/api-service/internal/model"
)

func TestPostgresRepository_ListOrderAndFilter(t *testing.T) {
	pool, tenantID := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ids := map[string]string{}
	for i, row := range []struct{ key, status string }{
		{"oldest", "new"}, {"owned", "owned"}, {"newest", "new"},
	} {
		p := model.Property{TenantID: tenantID, Status: row.status}
		require.NoError(t, repo.Create(ctx, &p))
		dbtest.Backdate(t, pool, "properties", p.ID, base.Add(time.Duration(i)*time.Hour))
		ids[row.key] = p.ID
	}

	all, err := repo.List(ctx, tenantID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids["newest"], ids["owned"], ids["oldest"]}, []string{all[0].ID, all[1].ID, all[2].ID})

	onlyNew, err := repo.List(ctx, tenantID, "new")
	require.NoError(t, err)
	require.Len(t, onlyNew, 2)
	assert.Equal(t, ids["newest"], onlyNew[0].ID)
	assert.Equal(t, ids["oldest"], onlyNew[1].ID)

	none, err := repo.List(ctx, tenantID, "sold")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPostgresRepository_CreateAttributes(t *testing.T) {
	pool, tenantID := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	for _, raw := range []json.RawMessage{nil, json.RawMessage("null")} {
		p := model.Property{TenantID: tenantID, Status: DefaultStatus, Attributes: raw}
		require.NoError(t, repo.Create(ctx, &p))
		assert.JSONEq(t, `{}`, string(p.Attributes), "attributes %q", raw)
		assert.Equal(t, tenantID, p.TenantID)
	}

	p := model.Property{TenantID: tenantID, Status: "new", Attributes: json.RawMessage(`{"pool":true}`)}
	require.NoError(t, repo.Create(ctx, &p))
	assert.JSONEq(t, `{"pool":true}`, string(p.Attributes))
}
