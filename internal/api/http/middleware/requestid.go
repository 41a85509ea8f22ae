package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shestoi/productcatalog/internal/requestctx"
)

// headerRequestID - заголовок, через который клиент может передать свой request id
const headerRequestID = "X-Request-Id"

// WithRequestID - HTTP middleware: читает заголовок X-Request-Id,
// при отсутствии генерирует новый UUID, кладёт id в context и дублирует в ответ
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)

		ctx := requestctx.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
