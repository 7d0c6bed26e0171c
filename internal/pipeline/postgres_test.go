package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/api-service/internal/db/dbtest"
	"dealdesk/api-service/internal/model"
)

func TestPostgresRepository_MoveRequiresExpectedStage(t *testing.T) {
	pool, tenantID := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	d := model.Deal{TenantID: tenantID, Title: "Fourplex"}
	require.NoError(t, repo.Create(ctx, &d))
	assert.Equal(t, string(StageLead), d.Stage)

	entry := json.RawMessage(`{"from":"LEAD","to":"ANALYZING"}`)
	moved, err := repo.Move(ctx, tenantID, d.ID, StageLead, StageAnalyzing, entry)
	require.NoError(t, err)
	assert.Equal(t, string(StageAnalyzing), moved.Stage)

	_, err = repo.Move(ctx, tenantID, d.ID, StageLead, StageDead, json.RawMessage(`{"from":"LEAD","to":"DEAD"}`))
	require.ErrorIs(t, err, ErrStageChanged)

	got, err := repo.Get(ctx, tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StageAnalyzing), got.Stage)
	assert.JSONEq(t, `[{"from":"LEAD","to":"ANALYZING"}]`, string(got.HistoryLog))
}

func TestPostgresRepository_ListByStage(t *testing.T) {
	pool, tenantID := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	a := model.Deal{TenantID: tenantID, Title: "A"}
	b := model.Deal{TenantID: tenantID, Title: "B"}
	require.NoError(t, repo.Create(ctx, &a))
	require.NoError(t, repo.Create(ctx, &b))
	_, err := repo.Move(ctx, tenantID, b.ID, StageLead, StageAnalyzing, json.RawMessage(`{}`))
	require.NoError(t, err)

	leads, err := repo.List(ctx, tenantID, string(StageLead))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, a.ID, leads[0].ID)

	all, err := repo.List(ctx, tenantID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "most recently touched first")
}
