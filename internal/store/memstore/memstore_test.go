package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couple-scheduler/internal/model"
)

func TestGetReturnsCopy(t *testing.T) {
	st := New()
	ctx := context.Background()
	require.NoError(t, st.CreateAppointment(ctx, &model.Appointment{ID: "a1", Title: "x", Status: model.StatusPending}))

	got, err := st.GetAppointment(ctx, "a1")
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := st.GetAppointment(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "x", again.Title)
}

func TestUpdateConflict(t *testing.T) {
	st := New()
	ctx := context.Background()
	a := &model.Appointment{ID: "a1", Title: "x", Status: model.StatusPending, CreatedBy: "u1", PartnerID: "u2"}
	require.NoError(t, st.CreateAppointment(ctx, a))

	a.Status = model.StatusConfirmed
	require.NoError(t, st.UpdateAppointment(ctx, a, 1))
	assert.EqualValues(t, 2, a.Version)
	require.ErrorIs(t, st.UpdateAppointment(ctx, a, 1), model.ErrConflict)
}

func TestUpdateKeepsDyad(t *testing.T) {
	st := New()
	ctx := context.Background()
	a := &model.Appointment{ID: "a1", Status: model.StatusPending, CreatedBy: "u1", PartnerID: "u2"}
	require.NoError(t, st.CreateAppointment(ctx, a))

	a.CreatedBy, a.PartnerID = "u3", "u4"
	require.NoError(t, st.UpdateAppointment(ctx, a, 1))

	got, _ := st.GetAppointment(ctx, "a1")
	assert.Equal(t, "u1", got.CreatedBy)
	assert.Equal(t, "u2", got.PartnerID)
}

func TestListOrder(t *testing.T) {
	st := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	offsets := map[string]time.Duration{"early": 0, "mid": time.Hour, "late": 2 * time.Hour}
	for _, id := range []string{"early", "late", "mid"} {
		require.NoError(t, st.CreateAppointment(ctx, &model.Appointment{
			ID: id, Date: base.Add(offsets[id]), CreatedBy: "u1", PartnerID: "u2", Status: model.StatusPending,
		}))
	}
	require.NoError(t, st.CreateAppointment(ctx, &model.Appointment{ID: "other", Date: base, CreatedBy: "u3", PartnerID: "u4"}))

	list, err := st.ListAppointments(ctx, "u2")
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	assert.Equal(t, []string{"late", "mid", "early"}, ids)
}

func TestBindPartners(t *testing.T) {
	st := New()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.CreateUser(ctx, &model.User{ID: id, Username: id, Email: id + "@x.io"}))
	}
	require.NoError(t, st.BindPartners(ctx, "a", "b"))
	require.ErrorIs(t, st.BindPartners(ctx, "c", "a"), model.ErrAlreadyPaired)
	require.ErrorIs(t, st.BindPartners(ctx, "c", "zz"), model.ErrNotFound)

	require.ErrorIs(t, st.CreateUser(ctx, &model.User{ID: "d", Username: "d", Email: "a@x.io"}), model.ErrDuplicate)
}
