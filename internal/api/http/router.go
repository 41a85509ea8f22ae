package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	platformhealth "github.com/shestoi/productcatalog/platform/health/http"
	platformobservability "github.com/shestoi/productcatalog/platform/observability"

	"github.com/shestoi/productcatalog/internal/api/http/middleware"
)

// serviceName попадает в имя server span и в ответ health endpoint
const serviceName = "productcatalog"

// NewRouter создаёт и настраивает HTTP роутер каталога
// readiness - функция готовности сервиса; при false health endpoint вернёт 503.
// logger используется observability HTTP middleware (trace_id в логах)
func NewRouter(handler *Handler, readiness func() bool, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	// CORS: каталог обслуживает браузерные демо с других origin
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	// Request id: X-Request-Id из запроса или новый UUID
	router.Use(middleware.WithRequestID)

	// Observability: trace context + server span на каждый запрос,
	// logger с trace_id в контексте
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware(serviceName, logger))
	}

	router.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		// Статический сегмент search имеет приоритет над параметром {id}
		r.Get("/search", handler.SearchProducts)
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			handler.GetProduct(w, r, id)
		})
	})

	// Health без телеметрии каталога
	router.Get("/health", platformhealth.Handler(serviceName, readiness))

	return router
}
