package rangeexpander

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// DefaultConcurrency число сотрудников, обрабатываемых параллельно
const DefaultConcurrency = 4

var (
	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("rangeexpander: end date is before start date")
)

// WindowResolver источник рабочих окон сотрудника на дату
type WindowResolver interface {
	GetWorkingWindows(ctx context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// EmployeeWindows окна одного сотрудника на дату.
// Err заполнен, если данные сотрудника на эту дату повреждены (ErrInvalidTimeFormat).
type EmployeeWindows struct {
	EmployeeID int64
	Windows    []domain.WorkingWindow
	Err        error
}

// DayWindows окна всех сотрудников на одну дату в порядке запроса
type DayWindows struct {
	Date      time.Time
	Employees []EmployeeWindows
}

// Expander обходит диапазон дат и собирает рабочие окна сотрудников
type Expander struct {
	resolver    WindowResolver
	concurrency int
	logger      Logger
}

// New создает экспандер. concurrency <= 0 означает DefaultConcurrency.
func New(resolver WindowResolver, concurrency int, logger Logger) *Expander {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Expander{
		resolver:    resolver,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Dates последовательность календарных дат от start до end включительно
func Dates(start, end time.Time) iter.Seq[time.Time] {
	from, to := domain.CivilDate(start), domain.CivilDate(end)
	return func(yield func(time.Time) bool) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Expand вычисляет окна для каждого сотрудника на каждую дату диапазона (границы включительно).
// Длину диапазона не ограничивает. Ошибка формата времени прерывает только пару
// сотрудник/дата, любая другая ошибка прерывает весь обход.
func (e *Expander) Expand(ctx context.Context, employeeIDs []int64, start, end time.Time) ([]DayWindows, error) {
	if domain.CivilDate(end).Before(domain.CivilDate(start)) {
		return nil, ErrInvalidRange
	}

	days := make([]DayWindows, 0, domain.DaysBetween(start, end)+1)
	for d := range Dates(start, end) {
		days = append(days, DayWindows{
			Date:      d,
			Employees: make([]EmployeeWindows, len(employeeIDs)),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	// Каждая горутина пишет только в свой столбец i, синхронизация не нужна
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			for di := range days {
				if err := gctx.Err(); err != nil {
					return err
				}

				windows, err := e.resolver.GetWorkingWindows(gctx, employeeID, days[di].Date)
				entry := EmployeeWindows{EmployeeID: employeeID, Windows: windows}
				switch {
				case errors.Is(err, domain.ErrInvalidTimeFormat):
					e.logger.Warn("Expand: skipping employee=%d date=%s: %v",
						employeeID, days[di].Date.Format(domain.DateFormat), err)
					entry.Windows = []domain.WorkingWindow{}
					entry.Err = err
				case err != nil:
					return fmt.Errorf("Expand - employee=%d date=%s: %w",
						employeeID, days[di].Date.Format(domain.DateFormat), err)
				}

				days[di].Employees[i] = entry
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return days, nil
}
