package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shestoi/productcatalog/internal/repository"
)

// MemoryRepository реализует CatalogRepository поверх слайса в памяти
// Каталог фиксируется в момент создания и дальше не меняется,
// поэтому мьютекс не нужен: конкурентные чтения замороженных данных безопасны
type MemoryRepository struct {
	products []repository.Product
	byID     map[string]int // id -> индекс в products
}

// NewMemoryRepository создаёт репозиторий из готового набора товаров
// Порядок товаров сохраняется. Дубликаты ID - ошибка
func NewMemoryRepository(products []repository.Product) (*MemoryRepository, error) {
	byID := make(map[string]int, len(products))
	stored := make([]repository.Product, len(products))
	copy(stored, products)

	for i, p := range stored {
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		byID[p.ID] = i
	}

	return &MemoryRepository{
		products: stored,
		byID:     byID,
	}, nil
}

// Len возвращает количество товаров в каталоге
func (r *MemoryRepository) Len() int {
	return len(r.products)
}

// List возвращает все товары в порядке добавления
// Возвращается копия слайса, чтобы вызывающий не мог изменить каталог
func (r *MemoryRepository) List(ctx context.Context) ([]repository.Product, error) {
	out := make([]repository.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID получает товар по ID
// Возвращает ErrProductNotFound, если товар не найден
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (repository.Product, error) {
	i, exists := r.byID[id]
	if !exists {
		return repository.Product{}, repository.ErrProductNotFound
	}
	return r.products[i], nil
}

// Search возвращает товары, у которых имя, описание или категория
// содержит query как подстроку без учёта регистра
// Query не триммится: " vintage" с пробелом ничему не соответствует.
// Пустой query соответствует всем товарам
func (r *MemoryRepository) Search(ctx context.Context, query string) ([]repository.Product, error) {
	query = strings.ToLower(query)

	out := make([]repository.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

// matches проверяет товар на соответствие запросу (query уже в нижнем регистре)
func matches(p repository.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, cat := range p.Categories {
		if strings.Contains(strings.ToLower(cat), query) {
			return true
		}
	}
	return false
}
