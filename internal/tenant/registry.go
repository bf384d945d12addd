// Package tenant собирает движок доступности для каждого арендатора
// поверх его пула соединений и часового пояса.
package tenant

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	blockedRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/blocked"
	employeeRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/employee"
	periodRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/period"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	weeklyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/weekly"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/rangeexpander"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/tenantdb"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

// Engine зависимости одного арендатора
type Engine struct {
	TenantID           string
	Normalizer         *timenorm.Normalizer
	Availability       Availability
	Expander           RangeExpander
	Services           ServiceRepository
	Appointments       AppointmentStore
	AppointmentService AppointmentService
	TxManager          TransactionManager
	Publisher          EventPublisher
}

// Settings параметры арендатора
type Settings struct {
	ID       string
	Location *time.Location
}

// Deps общие для всех арендаторов зависимости
type Deps struct {
	Pools       *tenantdb.Registry
	Cache       *windows.Cache   // nil = без кеша
	Metrics     *metrics.Metrics // nil = без метрик
	Publisher   EventPublisher
	Logger      Logger
	BreakPolicy availability.BreakPolicy
	Concurrency int
}

// Registry движки арендаторов. Не изменяется после сборки.
type Registry struct {
	engines map[string]*Engine
}

// NewRegistry создает реестр из готовых движков
func NewRegistry(engines ...*Engine) *Registry {
	r := &Registry{engines: make(map[string]*Engine, len(engines))}
	for _, e := range engines {
		r.engines[e.TenantID] = e
	}
	return r
}

// Build собирает движок каждого арендатора поверх его пула
func Build(tenants []Settings, deps Deps) (*Registry, error) {
	engines := make([]*Engine, 0, len(tenants))

	for _, t := range tenants {
		db, err := deps.Pools.Get(t.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: tenant=%s: %v", ErrBuild, t.ID, err)
		}

		normalizer := timenorm.New(t.Location, nil)
		appointmentsRepo := appointmentRepo.NewRepository(db)

		opts := availability.Options{
			TenantID:    t.ID,
			BreakPolicy: deps.BreakPolicy,
			Metrics:     metrics.Nop{},
		}
		if deps.Cache != nil {
			opts.Cache = deps.Cache.ForTenant(t.ID)
		}
		if deps.Metrics != nil {
			opts.Metrics = deps.Metrics
		}

		resolver := availability.NewResolver(availability.Repositories{
			Employees:    employeeRepo.NewRepository(db),
			Weekly:       weeklyRepo.NewRepository(db),
			Periods:      periodRepo.NewRepository(db),
			Blocks:       blockedRepo.NewRepository(db),
			Appointments: appointmentsRepo,
		}, normalizer, deps.Logger, opts)

		engines = append(engines, &Engine{
			TenantID:           t.ID,
			Normalizer:         normalizer,
			Availability:       resolver,
			Expander:           rangeexpander.New(resolver, deps.Concurrency, deps.Logger),
			Services:           serviceRepo.NewRepository(db),
			Appointments:       appointmentsRepo,
			AppointmentService: appointments.NewService(t.ID, appointmentsRepo, normalizer, deps.Publisher, deps.Logger),
			TxManager:          txmanager.NewTransactionManager(db),
			Publisher:          deps.Publisher,
		})

		deps.Logger.Info("Build: tenant=%s engine ready, timezone=%s", t.ID, normalizer.Location())
	}

	return NewRegistry(engines...), nil
}

// Engine возвращает движок арендатора
func (r *Registry) Engine(tenantID string) (*Engine, error) {
	e, ok := r.engines[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, tenantID)
	}
	return e, nil
}

// IDs идентификаторы арендаторов в порядке сортировки
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
