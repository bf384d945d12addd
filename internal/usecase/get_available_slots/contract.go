package get_available_slots

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
)

// EngineRegistry источник движков арендаторов
type EngineRegistry interface {
	Engine(tenantID string) (*tenant.Engine, error)
}

// Metrics метрики генерации слотов
type Metrics interface {
	RecordSlotsGenerated(tenant string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
