package get_working_windows

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса рабочих окон
type Request struct {
	TenantID    string
	EmployeeIDs []int64
	StartDate   time.Time
	EndDate     time.Time // нулевая = StartDate
}

// Response рабочие окна по датам
type Response struct {
	TenantID string
	Days     []Day
}

// Day окна всех сотрудников на дату в порядке запроса
type Day struct {
	Date      time.Time
	Employees []EmployeeWindows
}

// EmployeeWindows окна сотрудника. Error заполнен, если расписание на дату повреждено.
type EmployeeWindows struct {
	EmployeeID int64
	Windows    []Window
	Error      string
}

// Window рабочее окно в локальном времени арендатора
type Window struct {
	StartTime  types.TimeString
	EndTime    types.TimeString
	Start      time.Time
	End        time.Time
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}
