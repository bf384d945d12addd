package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID   string           // ID арендатора
	EmployeeID int64            // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // локальная дата записи (без времени)
	StartTime  types.TimeString // локальное время начала, "10:00"
}
