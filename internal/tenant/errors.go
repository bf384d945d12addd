package tenant

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не зарегистрирован
	ErrTenantNotFound = errors.New("tenant: tenant not found")

	// ErrBuild возвращается при ошибке сборки движка арендатора
	ErrBuild = errors.New("tenant: failed to build engine")
)
