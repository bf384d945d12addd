package windows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

const (
	keyPrefix  = "windows"
	DefaultTTL = 5 * time.Minute
)

// Cache кеш рабочих окон в Redis.
// Окна зависят только от расписаний и блокировок, записи в них не входят,
// поэтому новая запись кеш не инвалидирует. Изменения расписаний видны после TTL.
type Cache struct {
	client Client
	ttl    time.Duration
}

// New создает кеш. ttl <= 0 означает DefaultTTL.
func New(client Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// ForTenant кеш окон одного арендатора
func (c *Cache) ForTenant(tenantID string) *TenantCache {
	return &TenantCache{cache: c, tenantID: tenantID}
}

// TenantCache кеш окон, привязанный к арендатору
type TenantCache struct {
	cache    *Cache
	tenantID string
}

type cachedWindow struct {
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	BreakStart *time.Time `json:"breakStart,omitempty"`
	BreakEnd   *time.Time `json:"breakEnd,omitempty"`
}

// Key ключ записи кеша
func Key(tenantID string, employeeID int64, date time.Time) string {
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, tenantID, employeeID, date.Format(domain.DateFormat))
}

// Get возвращает окна из кеша. ok == false при промахе.
func (t *TenantCache) Get(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, bool, error) {
	key := Key(t.tenantID, employeeID, date)

	data, err := t.cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: key=%s: %v", ErrRead, key, err)
	}

	var items []cachedWindow
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("%w: key=%s: %v", ErrDecode, key, err)
	}

	day := domain.CivilDate(date)
	result := make([]domain.WorkingWindow, 0, len(items))
	for _, it := range items {
		w := domain.WorkingWindow{
			EmployeeID: employeeID,
			Date:       day,
			Start:      it.Start,
			End:        it.End,
		}
		if it.BreakStart != nil && it.BreakEnd != nil {
			brk := interval.New(*it.BreakStart, *it.BreakEnd)
			w.Break = &brk
		}
		result = append(result, w)
	}

	return result, true, nil
}

// Set сохраняет окна на TTL. Пустой результат тоже кешируется.
func (t *TenantCache) Set(ctx context.Context, employeeID int64, date time.Time, windows []domain.WorkingWindow) error {
	key := Key(t.tenantID, employeeID, date)

	items := make([]cachedWindow, 0, len(windows))
	for _, w := range windows {
		it := cachedWindow{Start: w.Start, End: w.End}
		if w.Break != nil {
			bs, be := w.Break.Start, w.Break.End
			it.BreakStart, it.BreakEnd = &bs, &be
		}
		items = append(items, it)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: key=%s: %v", ErrWrite, key, err)
	}

	if err := t.cache.client.Set(ctx, key, data, t.cache.ttl).Err(); err != nil {
		return fmt.Errorf("%w: key=%s: %v", ErrWrite, key, err)
	}
	return nil
}
