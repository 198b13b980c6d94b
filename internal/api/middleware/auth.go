package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmrtv/BSC-SchedulingService/internal/api/handlers"
)

type contextKey string

const (
	customerIDKey contextKey = "customerID"
	staffIDKey    contextKey = "staffID"

	headerCustomerID = "X-Customer-ID"
	headerStaffID    = "X-Staff-ID"

	msgMissingIdentity = "отсутствует идентификатор клиента или сотрудника"
	msgInvalidIdentity = "некорректный идентификатор"
)

// Auth извлекает идентификаторы из заголовков X-Customer-ID / X-Staff-ID
// и кладет их в контекст запроса. Требуется хотя бы один из заголовков.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		found := false

		if raw := r.Header.Get(headerCustomerID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidIdentity)
				return
			}
			ctx = context.WithValue(ctx, customerIDKey, id)
			found = true
		}

		if raw := r.Header.Get(headerStaffID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidIdentity)
				return
			}
			ctx = context.WithValue(ctx, staffIDKey, id)
			found = true
		}

		if !found {
			handlers.RespondUnauthorized(w, msgMissingIdentity)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCustomerID возвращает ID клиента из контекста
func GetCustomerID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(customerIDKey).(int64)
	return id, ok
}

// GetStaffID возвращает ID сотрудника из контекста
func GetStaffID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(staffIDKey).(int64)
	return id, ok
}
