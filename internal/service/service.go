package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shestoi/productcatalog/internal/repository"
)

// CatalogService содержит бизнес-логику чтения каталога
// Зависит от интерфейса CatalogRepository, а не от конкретной реализации
type CatalogService struct {
	repo    repository.CatalogRepository
	delayer Delayer
	logger  *zap.Logger
}

// NewCatalogService создаёт новый экземпляр CatalogService
// delayer задаёт стратегию имитации задержки хранилища, nil означает без задержки
func NewCatalogService(repo repository.CatalogRepository, delayer Delayer, logger *zap.Logger) *CatalogService {
	if delayer == nil {
		delayer = NopDelayer{}
	}
	return &CatalogService{
		repo:    repo,
		delayer: delayer,
		logger:  logger,
	}
}

// ListProducts возвращает все товары каталога в порядке добавления
func (s *CatalogService) ListProducts(ctx context.Context) ([]repository.Product, error) {
	if err := s.delayer.Wait(ctx); err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("catalog listed", zap.Int("count", len(products)))
	return products, nil
}

// GetProduct возвращает товар по ID
// Пробрасывает ErrProductNotFound как есть, обработчик переводит его в 404
func (s *CatalogService) GetProduct(ctx context.Context, id string) (repository.Product, error) {
	if err := s.delayer.Wait(ctx); err != nil {
		return repository.Product{}, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Product{}, err
	}

	s.logger.Debug("product fetched", zap.String("id", id))
	return product, nil
}

// SearchProducts возвращает товары, соответствующие поисковому запросу
// Запрос приходит уже в нижнем регистре, но хранилище приводит регистр и само,
// поэтому контракт поиска не зависит от дисциплины вызывающего
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]repository.Product, error) {
	if err := s.delayer.Wait(ctx); err != nil {
		return nil, err
	}

	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("catalog searched", zap.String("query", query), zap.Int("count", len(products)))
	return products, nil
}
