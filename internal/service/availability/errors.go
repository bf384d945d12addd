package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// wrapRepoErr сохраняет ErrInvalidTimeFormat в цепочке, остальные ошибки сводит к ErrInternal
func wrapRepoErr(op string, err error) error {
	if errors.Is(err, domain.ErrInvalidTimeFormat) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
