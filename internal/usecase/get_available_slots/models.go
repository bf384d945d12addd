package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID    string    // ID арендатора
	EmployeeIDs []int64   // сотрудники в порядке запроса
	ServiceID   int64     // ID услуги, длительность слота = длительность + буфер
	StartDate   time.Time // первая дата (без времени)
	EndDate     time.Time // последняя дата включительно, нулевая = StartDate
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TenantID        string
	ServiceID       int64
	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int          // длительность услуги вместе с буфером
	Slots           []Slot       // по возрастанию (дата, начало, сотрудник)
	Skipped         []SkippedDay // пары сотрудник/дата с поврежденным расписанием
}

// Slot модель временного слота
type Slot struct {
	EmployeeID int64
	Date       time.Time
	StartTime  types.TimeString // локальное время арендатора, "10:00"
	EndTime    types.TimeString
	Start      time.Time
	End        time.Time
}

// SkippedDay дата сотрудника, для которой слоты не рассчитаны
type SkippedDay struct {
	EmployeeID int64
	Date       time.Time
	Reason     string
}
