package windows

import "errors"

var (
	// ErrRead возвращается при ошибке чтения из Redis
	ErrRead = errors.New("windows.cache: failed to read")

	// ErrWrite возвращается при ошибке записи в Redis
	ErrWrite = errors.New("windows.cache: failed to write")

	// ErrDecode возвращается при повреждённом значении в кеше
	ErrDecode = errors.New("windows.cache: failed to decode")
)
