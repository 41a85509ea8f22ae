package repository

import (
	"context"
	"errors"
)

// Product представляет доменную модель товара каталога
// Это бизнес-сущность, не привязанная к HTTP или формату файла
type Product struct {
	ID          string
	Name        string
	Description string
	Picture     string
	Price       Money
	Categories  []string
}

// Money представляет денежную сумму в формате units/nanos
// Units - целые единицы валюты, Nanos - дробная часть в миллиардных долях
type Money struct {
	CurrencyCode string
	Units        int64
	Nanos        int32
}

// CatalogRepository определяет интерфейс для работы с хранилищем каталога
// Service слой зависит от этого интерфейса, а не от конкретной реализации
type CatalogRepository interface {
	// List возвращает все товары каталога в порядке добавления
	List(ctx context.Context) ([]Product, error)

	// GetByID получает товар по ID
	// Возвращает ErrProductNotFound, если товар не найден
	GetByID(ctx context.Context, id string) (Product, error)

	// Search возвращает товары, у которых имя, описание или любая из категорий
	// содержит query как подстроку без учёта регистра
	// Пустой query возвращает весь каталог
	Search(ctx context.Context, query string) ([]Product, error)
}

// ErrProductNotFound возвращается, когда товар не найден в каталоге
var ErrProductNotFound = errors.New("product not found")
