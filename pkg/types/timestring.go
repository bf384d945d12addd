package types

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat возвращается при некорректном формате времени
var ErrInvalidTimeFormat = errors.New("types: invalid time string format")

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	// SecondsPerDay количество секунд в сутках
	SecondsPerDay = 24 * secondsPerHour
)

// TimeString время суток в формате HH:MM (или HH:MM:SS, если секунды ненулевые)
// Пустая строка означает "время не задано"
type TimeString string

// NewTimeString создает TimeString из time.Time (берется только время суток)
func NewTimeString(t time.Time) TimeString {
	return FromSeconds(t.Hour()*secondsPerHour + t.Minute()*secondsPerMinute + t.Second())
}

// NewTimeStringFromString парсит строку HH:MM или HH:MM:SS
func NewTimeStringFromString(s string) (TimeString, error) {
	secs, err := parseSeconds(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return FromSeconds(secs), nil
}

// FromSeconds создает TimeString из количества секунд от начала суток.
// Значение приводится по модулю суток.
func FromSeconds(secs int) TimeString {
	secs = ((secs % SecondsPerDay) + SecondsPerDay) % SecondsPerDay

	h := secs / secondsPerHour
	m := (secs % secondsPerHour) / secondsPerMinute
	s := secs % secondsPerMinute

	if s == 0 {
		return TimeString(fmt.Sprintf("%02d:%02d", h, m))
	}
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", h, m, s))
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := parseSeconds(string(t))
	return err
}

// Seconds возвращает количество секунд от начала суток
func (t TimeString) Seconds() (int, error) {
	return parseSeconds(string(t))
}

// Minutes возвращает количество минут от начала суток (секунды отбрасываются)
func (t TimeString) Minutes() (int, error) {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return 0, err
	}
	return secs / secondsPerMinute, nil
}

// Duration возвращает смещение от начала суток
func (t TimeString) Duration() (time.Duration, error) {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// AddMinutes прибавляет минуты. Переход через полночь не допускается.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	secs, err := parseSeconds(string(t))
	if err != nil {
		return "", err
	}

	result := secs + minutes*secondsPerMinute
	if result < 0 || result >= SecondsPerDay {
		return "", fmt.Errorf("%w: %s%+dm crosses day boundary", ErrInvalidTimeFormat, t, minutes)
	}

	return FromSeconds(result), nil
}

// IsBefore возвращает true, если t раньше other. Некорректные значения не сравниваются.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := parseSeconds(string(t))
	b, errB := parseSeconds(string(other))
	return errA == nil && errB == nil && a < b
}

// IsAfter возвращает true, если t позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := parseSeconds(string(t))
	b, errB := parseSeconds(string(other))
	return errA == nil && errB == nil && a > b
}

// Equal сравнивает два времени без учета формы записи ("09:00" == "09:00:00")
func (t TimeString) Equal(other TimeString) bool {
	a, errA := parseSeconds(string(t))
	b, errB := parseSeconds(string(other))
	return errA == nil && errB == nil && a == b
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

// Value реализует driver.Valuer (формат HH:MM:SS для колонок TIME)
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	secs, err := parseSeconds(string(t))
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/secondsPerHour, (secs%secondsPerHour)/secondsPerMinute, secs%secondsPerMinute), nil
}

func parseSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		values[i] = n
	}

	return values[0]*secondsPerHour + values[1]*secondsPerMinute + values[2], nil
}

// FromNullString разбирает nullable колонку времени. NULL дает nil.
func FromNullString(ns sql.NullString) (*TimeString, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := NewTimeStringFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
