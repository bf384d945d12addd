package cancel_appointment

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
)

// EngineRegistry источник движков арендаторов
type EngineRegistry interface {
	Engine(tenantID string) (*tenant.Engine, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
