package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

const msgTenantNotFound = "арендатор не найден"

// TenantLookup проверка существования арендатора
type TenantLookup interface {
	IDs() []string
}

// Tenant отклоняет запросы к незарегистрированным арендаторам до вызова обработчика
func Tenant(lookup TenantLookup) mux.MiddlewareFunc {
	known := make(map[string]struct{})
	for _, id := range lookup.IDs() {
		known[id] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := known[mux.Vars(r)["tenantId"]]; !ok {
				handlers.RespondNotFound(w, msgTenantNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
