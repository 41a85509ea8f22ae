package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	platformobservability "github.com/shestoi/productcatalog/platform/observability"

	"github.com/shestoi/productcatalog/internal/repository"
	"github.com/shestoi/productcatalog/internal/requestctx"
	"github.com/shestoi/productcatalog/internal/service"
	"github.com/shestoi/productcatalog/internal/telemetry"
)

// Значения метки endpoint в метриках
// Для get используется шаблон маршрута, а не конкретный id,
// чтобы не раздувать кардинальность метрик
const (
	endpointList   = "/products"
	endpointGet    = "/products/{id}"
	endpointSearch = "/products/search"
)

// Handler содержит HTTP-обработчики каталога
// Зависит от service слоя и явно переданного telemetry emitter,
// обработчики не обращаются к глобальному состоянию otel
type Handler struct {
	catalogService *service.CatalogService
	telemetry      *telemetry.Emitter
	logger         *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(catalogService *service.CatalogService, emitter *telemetry.Emitter, logger *zap.Logger) *Handler {
	return &Handler{
		catalogService: catalogService,
		telemetry:      emitter,
		logger:         logger,
	}
}

// Money представляет цену в HTTP ответе
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// Product представляет товар в HTTP ответе
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Picture     string   `json:"picture"`
	PriceUSD    Money    `json:"price_usd"`
	Categories  []string `json:"categories"`
}

// ListProductsResponse представляет HTTP ответ со списком товаров
type ListProductsResponse struct {
	Products []Product `json:"products"`
}

// SearchProductsResponse представляет HTTP ответ поиска
// Query дублирует нормализованный (приведённый к нижнему регистру) запрос
type SearchProductsResponse struct {
	Query    string    `json:"query"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ErrorResponse представляет HTTP ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListProducts обрабатывает GET /products - список всех товаров
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := h.telemetry.Start(r.Context(), "list_products",
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL.String()),
	)
	defer span.End()
	h.annotateRequestID(ctx, span)

	products, err := h.catalogService.ListProducts(ctx)
	if err != nil {
		h.internalError(ctx, w, span, start, telemetry.Labels{Endpoint: endpointList, Method: r.Method}, err)
		return
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	labels := telemetry.Labels{Endpoint: endpointList, Method: r.Method}
	h.telemetry.RecordRequest(ctx, labels)
	h.telemetry.RecordDuration(ctx, time.Since(start), labels)

	platformobservability.L(ctx, h.logger).Info("products listed", zap.Int("count", len(products)))

	h.writeJSON(ctx, w, http.StatusOK, ListProductsResponse{Products: toProducts(products)})
}

// GetProduct обрабатывает GET /products/{id} - получение товара по ID
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()

	ctx, span := h.telemetry.Start(r.Context(), "get_product",
		attribute.String("product.id", id),
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL.String()),
	)
	defer span.End()
	h.annotateRequestID(ctx, span)

	product, err := h.catalogService.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			// Отсутствие товара - бизнес-исход, а не сбой:
			// только атрибуты на span, без error-статуса
			span.SetAttributes(
				attribute.Bool("product.found", false),
				attribute.Bool("error", true),
			)

			labels := telemetry.Labels{Endpoint: endpointGet, Method: r.Method, Status: "not_found"}
			h.telemetry.RecordRequest(ctx, labels)
			h.telemetry.RecordDuration(ctx, time.Since(start), labels)

			platformobservability.L(ctx, h.logger).Warn("product not found", zap.String("id", id))

			h.writeJSON(ctx, w, http.StatusNotFound, ErrorResponse{Error: "Product not found"})
			return
		}

		h.internalError(ctx, w, span, start, telemetry.Labels{Endpoint: endpointGet, Method: r.Method}, err)
		return
	}

	span.SetAttributes(
		attribute.Bool("product.found", true),
		attribute.String("product.name", product.Name),
	)

	labels := telemetry.Labels{Endpoint: endpointGet, Method: r.Method, Status: "found"}
	h.telemetry.RecordRequest(ctx, labels)
	h.telemetry.RecordDuration(ctx, time.Since(start), labels)

	platformobservability.L(ctx, h.logger).Info("product found",
		zap.String("id", product.ID),
		zap.String("name", product.Name),
	)

	h.writeJSON(ctx, w, http.StatusOK, toProduct(product))
}

// SearchProducts обрабатывает GET /products/search?q= - поиск по каталогу
// Запрос приводится к нижнему регистру один раз здесь, ответ и телеметрия
// показывают уже нормализованное значение
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := strings.ToLower(r.URL.Query().Get("q"))

	ctx, span := h.telemetry.Start(r.Context(), "search_products",
		attribute.String("search.query", query),
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL.String()),
	)
	defer span.End()
	h.annotateRequestID(ctx, span)

	products, err := h.catalogService.SearchProducts(ctx, query)
	if err != nil {
		h.internalError(ctx, w, span, start, telemetry.Labels{Endpoint: endpointSearch, Method: r.Method}, err)
		return
	}

	span.SetAttributes(attribute.Int("search.results_count", len(products)))

	labels := telemetry.Labels{Endpoint: endpointSearch, Method: r.Method}
	h.telemetry.RecordRequest(ctx, labels)
	h.telemetry.RecordDuration(ctx, time.Since(start), labels)

	platformobservability.L(ctx, h.logger).Info("products searched",
		zap.String("query", query),
		zap.Int("count", len(products)),
	)

	h.writeJSON(ctx, w, http.StatusOK, SearchProductsResponse{
		Query:    query,
		Products: toProducts(products),
		Total:    len(products),
	})
}

// annotateRequestID добавляет request.id на span, если middleware положил его в контекст
func (h *Handler) annotateRequestID(ctx context.Context, span trace.Span) {
	if rid, ok := requestctx.RequestIDFromContext(ctx); ok {
		span.SetAttributes(attribute.String("request.id", rid))
	}
}

// internalError завершает запрос с 500: такой исход не предусмотрен контрактом
// каталога и возможен только при отмене контекста или сбое нижнего слоя
func (h *Handler) internalError(ctx context.Context, w http.ResponseWriter, span trace.Span, start time.Time, labels telemetry.Labels, err error) {
	span.SetAttributes(attribute.Bool("error", true))
	span.SetStatus(codes.Error, "internal error")

	h.telemetry.RecordRequest(ctx, labels)
	h.telemetry.RecordDuration(ctx, time.Since(start), labels)

	platformobservability.L(ctx, h.logger).Error("request failed", zap.Error(err))

	h.writeJSON(ctx, w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// writeJSON сериализует ответ и пишет его с указанным статусом
func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		platformobservability.L(ctx, h.logger).Error("failed to encode response", zap.Error(err))
	}
}

// toProduct переводит доменный товар в HTTP DTO
func toProduct(p repository.Product) Product {
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Picture:     p.Picture,
		PriceUSD: Money{
			CurrencyCode: p.Price.CurrencyCode,
			Units:        p.Price.Units,
			Nanos:        p.Price.Nanos,
		},
		Categories: categories,
	}
}

// toProducts переводит список доменных товаров в HTTP DTO
// Всегда возвращает не-nil слайс, чтобы в JSON был [], а не null
func toProducts(products []repository.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(p))
	}
	return out
}
