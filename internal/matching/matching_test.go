package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dealdesk/api-service/internal/events"
	"dealdesk/api-service/internal/model"
	"dealdesk/api-service/internal/notify"
)

const tenant = "00000000-0000-0000-0000-000000000001"

func ptr[T any](v T) *T { return &v }

// ── Score ──────────────────────────────────────────────────────────────────

func TestScore_NoCriteriaAcceptsAll(t *testing.T) {
	assert.Equal(t, 100.0, Score(model.BuyBox{Strategy: "any"}, model.Deal{}))
}

func TestScore_AllCriteriaPass(t *testing.T) {
	b := model.BuyBox{
		MinPrice: ptr(100000.0), MaxPrice: ptr(300000.0),
		MinBeds: ptr(3), MinBaths: ptr(2.0), MaxSqft: ptr(2500),
		Strategy: "rental", Locations: []string{"Austin"},
	}
	d := model.Deal{
		AskingPrice: ptr(250000.0), Bedrooms: ptr(3), Bathrooms: ptr(2.5),
		Sqft: ptr(1800), Strategy: ptr("Rental"), City: ptr("austin"),
	}
	assert.Equal(t, 100.0, Score(b, d))
}

func TestScore_Partial(t *testing.T) {
	b := model.BuyBox{MaxPrice: ptr(200000.0), MinBeds: ptr(3), Strategy: "flip"}
	d := model.Deal{AskingPrice: ptr(250000.0), Bedrooms: ptr(4), Strategy: ptr("flip")}
	assert.Equal(t, 66.67, Score(b, d))
}

func TestScore_MissingDealValueFailsCheck(t *testing.T) {
	b := model.BuyBox{MinSqft: ptr(1000), MinBeds: ptr(2)}
	d := model.Deal{Bedrooms: ptr(2)}
	assert.Equal(t, 50.0, Score(b, d))
}

func TestScore_BoundsInclusive(t *testing.T) {
	b := model.BuyBox{MinPrice: ptr(100.0), MaxPrice: ptr(200.0)}
	assert.Equal(t, 100.0, Score(b, model.Deal{AskingPrice: ptr(100.0)}))
	assert.Equal(t, 100.0, Score(b, model.Deal{AskingPrice: ptr(200.0)}))
	assert.Equal(t, 0.0, Score(b, model.Deal{AskingPrice: ptr(200.01)}))
}

func TestScore_LocationMatchesAddress(t *testing.T) {
	b := model.BuyBox{Locations: []string{"Round Rock"}}
	assert.Equal(t, 100.0, Score(b, model.Deal{Address: ptr("12 Main St, Round Rock, TX")}))
	assert.Equal(t, 0.0, Score(b, model.Deal{City: ptr("Dallas")}))
}

// ── Matcher ────────────────────────────────────────────────────────────────

type fakeBoxes struct {
	boxes []model.BuyBox
	err   error
}

func (f fakeBoxes) ListActive(_ context.Context, tenantID string) ([]model.BuyBox, error) {
	var out []model.BuyBox
	for _, b := range f.boxes {
		if b.TenantID == tenantID && b.IsActive {
			out = append(out, b)
		}
	}
	return out, f.err
}

type fakeWriter struct {
	written []model.DealMatch
	err     error
	failFor map[string]error
}

func (f *fakeWriter) UpsertMatch(_ context.Context, m *model.DealMatch) error {
	if f.err != nil {
		return f.err
	}
	if err := f.failFor[m.BuyBoxID]; err != nil {
		return err
	}
	m.ID = "m" + m.BuyBoxID
	f.written = append(f.written, *m)
	return nil
}

func TestMatchDeal(t *testing.T) {
	boxes := fakeBoxes{boxes: []model.BuyBox{
		{ID: "cheap", TenantID: tenant, Name: "Cheap", MaxPrice: ptr(150000.0), AlertFrequency: "instant", IsActive: true},
		{ID: "big", TenantID: tenant, Name: "Big", MinBeds: ptr(5), AlertFrequency: "instant", IsActive: true},
		{ID: "digest", TenantID: tenant, Name: "Digest", AlertFrequency: "daily", IsActive: true},
		{ID: "off", TenantID: tenant, Name: "Off", AlertFrequency: "instant", IsActive: false},
	}}
	writer := &fakeWriter{}
	store := &notify.MemoryStore{}
	m := NewMatcher(boxes, writer, notify.NewCreator(store, events.Discard{}, zap.NewNop()), zap.NewNop())

	deal := model.Deal{ID: "d1", TenantID: tenant, Title: "Duplex", AskingPrice: ptr(120000.0), Bedrooms: ptr(2)}
	got, err := m.MatchDeal(context.Background(), deal)
	require.NoError(t, err)

	require.Len(t, got, 3)
	scores := map[string]float64{}
	for _, dm := range got {
		assert.Equal(t, "d1", dm.DealID)
		scores[dm.BuyBoxID] = dm.MatchScore
	}
	assert.Equal(t, map[string]float64{"cheap": 100, "big": 0, "digest": 100}, scores)

	notes := store.All()
	require.Len(t, notes, 1, "only instant buy boxes with a qualifying score notify")
	assert.Equal(t, "New deal matches Cheap", notes[0].Title)
	require.NotNil(t, notes[0].Link)
	assert.Equal(t, "/deals/d1", *notes[0].Link)
}

func TestMatchDeal_Errors(t *testing.T) {
	creator := notify.NewCreator(&notify.MemoryStore{}, events.Discard{}, zap.NewNop())

	m := NewMatcher(fakeBoxes{err: errors.New("db down")}, &fakeWriter{}, creator, zap.NewNop())
	_, err := m.MatchDeal(context.Background(), model.Deal{TenantID: tenant})
	require.ErrorContains(t, err, "db down")

	boxes := fakeBoxes{boxes: []model.BuyBox{{ID: "a", TenantID: tenant, IsActive: true}}}
	m = NewMatcher(boxes, &fakeWriter{err: errors.New("fk violation")}, creator, zap.NewNop())
	_, err = m.MatchDeal(context.Background(), model.Deal{TenantID: tenant})
	require.ErrorContains(t, err, "fk violation")
}

func TestMatchDeal_FailedWriteKeepsScoringOthers(t *testing.T) {
	boxes := fakeBoxes{boxes: []model.BuyBox{
		{ID: "a", TenantID: tenant, Name: "A", AlertFrequency: "instant", IsActive: true},
		{ID: "b", TenantID: tenant, Name: "B", AlertFrequency: "instant", IsActive: true},
		{ID: "c", TenantID: tenant, Name: "C", AlertFrequency: "instant", IsActive: true},
	}}
	errA := errors.New("deadlock detected")
	errC := errors.New("fk violation")
	writer := &fakeWriter{failFor: map[string]error{"a": errA, "c": errC}}
	store := &notify.MemoryStore{}
	m := NewMatcher(boxes, writer, notify.NewCreator(store, events.Discard{}, zap.NewNop()), zap.NewNop())

	got, err := m.MatchDeal(context.Background(), model.Deal{ID: "d1", TenantID: tenant, Title: "Duplex"})
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errC)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].BuyBoxID)
	require.Len(t, writer.written, 1)

	notes := store.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "New deal matches B", notes[0].Title)
}
