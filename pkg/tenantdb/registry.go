// Package tenantdb владеет пулами соединений арендаторов.
// Реестр создается при старте процесса и закрывается при остановке,
// провайдеры получают пулы через внедрение, а не через глобальное состояние.
package tenantdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

var (
	// ErrUnknownTenant пул арендатора не зарегистрирован
	ErrUnknownTenant = errors.New("tenantdb: unknown tenant")

	// ErrDuplicateTenant арендатор уже зарегистрирован
	ErrDuplicateTenant = errors.New("tenantdb: duplicate tenant")

	// ErrOpen ошибка открытия пула
	ErrOpen = errors.New("tenantdb: failed to open pool")
)

// Tenant параметры подключения арендатора
type Tenant struct {
	ID  string
	DSN string
}

// Options параметры пула, общие для всех арендаторов
type Options struct {
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Registry реестр пулов соединений по арендаторам
type Registry struct {
	mu     sync.RWMutex
	pools  map[string]*dbmetrics.DB
	stopCh chan struct{}
	closed bool
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{
		pools:  make(map[string]*dbmetrics.DB),
		stopCh: make(chan struct{}),
	}
}

// Open открывает, настраивает и проверяет пулы всех арендаторов.
// При ошибке уже открытые пулы закрываются.
func Open(ctx context.Context, tenants []Tenant, opts Options, m *metrics.Metrics) (*Registry, error) {
	if opts.Driver == "" {
		opts.Driver = "postgres"
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	r := NewRegistry()
	for _, t := range tenants {
		db, err := sql.Open(opts.Driver, t.DSN)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("%w: tenant=%s: %v", ErrOpen, t.ID, err)
		}

		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = db.Close()
			_ = r.Close()
			return nil, fmt.Errorf("%w: tenant=%s: ping: %v", ErrOpen, t.ID, err)
		}

		var wrapped *dbmetrics.DB
		if m != nil {
			wrapped = dbmetrics.WrapWithDefault(db, m, t.ID, r.stopCh)
		} else {
			wrapped = dbmetrics.Wrap(db, nil, t.ID)
		}

		if err := r.Add(t.ID, wrapped); err != nil {
			_ = db.Close()
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

// Add регистрирует пул арендатора
func (r *Registry) Add(tenantID string, db *dbmetrics.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pools[tenantID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTenant, tenantID)
	}
	r.pools[tenantID] = db
	return nil
}

// Get возвращает пул арендатора
func (r *Registry) Get(tenantID string) (*dbmetrics.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	db, ok := r.pools[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTenant, tenantID)
	}
	return db, nil
}

// IDs возвращает отсортированный список арендаторов
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.pools))
	for id := range r.pools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close останавливает сбор статистики и закрывает все пулы
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	close(r.stopCh)

	var errs []error
	for id, db := range r.pools {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tenant=%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
