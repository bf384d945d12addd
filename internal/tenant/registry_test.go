package tenant

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tenantdb"
)

type nopPublisher struct{}

func (nopPublisher) PublishAppointmentBooked(context.Context, string, *domain.Appointment) error {
	return nil
}

func (nopPublisher) PublishAppointmentCanceled(context.Context, string, *domain.Appointment) error {
	return nil
}

func pools(t *testing.T, ids ...string) *tenantdb.Registry {
	t.Helper()
	r := tenantdb.NewRegistry()
	for _, id := range ids {
		db, err := sql.Open("postgres", "postgres://localhost:1/"+id+"?sslmode=disable")
		require.NoError(t, err)
		require.NoError(t, r.Add(id, dbmetrics.Wrap(db, nil, id)))
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestBuild(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	reg, err := Build([]Settings{
		{ID: "globex", Location: time.UTC},
		{ID: "acme", Location: berlin},
	}, Deps{
		Pools:       pools(t, "acme", "globex"),
		Publisher:   nopPublisher{},
		Logger:      logger.NewNop(),
		Concurrency: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"acme", "globex"}, reg.IDs())

	e, err := reg.Engine("acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", e.TenantID)
	assert.Equal(t, berlin, e.Normalizer.Location())
	assert.NotNil(t, e.Availability)
	assert.NotNil(t, e.Expander)
	assert.NotNil(t, e.Services)
	assert.NotNil(t, e.Appointments)
	assert.NotNil(t, e.AppointmentService)
	assert.NotNil(t, e.TxManager)

	_, err = reg.Engine("initech")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestBuild_MissingPool(t *testing.T) {
	_, err := Build([]Settings{{ID: "acme", Location: time.UTC}}, Deps{
		Pools:     pools(t),
		Publisher: nopPublisher{},
		Logger:    logger.NewNop(),
	})
	assert.ErrorIs(t, err, ErrBuild)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(&Engine{TenantID: "b"}, &Engine{TenantID: "a"})
	assert.Equal(t, []string{"a", "b"}, reg.IDs())
}
