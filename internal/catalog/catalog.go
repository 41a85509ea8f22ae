package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shestoi/productcatalog/internal/repository"
)

// maxNanos - максимальная дробная часть цены (nanos считаются в миллиардных долях)
const maxNanos = 999999999

// Default возвращает встроенный каталог из пяти товаров
// Каждый вызов отдаёт свежую копию, чтобы вызывающие не делили состояние
func Default() []repository.Product {
	return []repository.Product{
		{
			ID:          "OLJCESPC7Z",
			Name:        "Vintage Typewriter",
			Description: "This typewriter looks good in your living room.",
			Picture:     "/static/img/products/typewriter.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 67, Nanos: 990000000},
			Categories:  []string{"vintage"},
		},
		{
			ID:          "66VCHSJNUP",
			Name:        "Vintage Camera Lens",
			Description: "You won't have a camera to use it and it probably doesn't work anyway.",
			Picture:     "/static/img/products/camera-lens.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 12, Nanos: 490000000},
			Categories:  []string{"photography", "vintage"},
		},
		{
			ID:          "1YMWWN1N4O",
			Name:        "Home Barista Kit",
			Description: "Always wanted to brew coffee with Chemex and Aeropress at home?",
			Picture:     "/static/img/products/barista-kit.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 124, Nanos: 0},
			Categories:  []string{"kitchen"},
		},
		{
			ID:          "L9ECAV7KIM",
			Name:        "Terrarium",
			Description: "This terrarium will looks great in your white painted living room.",
			Picture:     "/static/img/products/terrarium.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 36, Nanos: 450000000},
			Categories:  []string{"gardening"},
		},
		{
			ID:          "2ZYFJ3GM2N",
			Name:        "Film Camera",
			Description: "This camera looks like it's a film camera, but it's actually digital.",
			Picture:     "/static/img/products/film-camera.jpg",
			Price:       repository.Money{CurrencyCode: "USD", Units: 2245, Nanos: 0},
			Categories:  []string{"photography", "vintage"},
		},
	}
}

// fileMoney - формат цены в JSON-файле каталога (совпадает с wire-форматом API)
type fileMoney struct {
	CurrencyCode string `json:"currency_code"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// fileProduct - формат товара в JSON-файле каталога
type fileProduct struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Picture     string    `json:"picture"`
	Price       fileMoney `json:"price_usd"`
	Categories  []string  `json:"categories"`
}

// fileCatalog - корневой объект JSON-файла каталога
type fileCatalog struct {
	Products []fileProduct `json:"products"`
}

// LoadFile загружает каталог из JSON-файла вида {"products": [...]}
// Используется, когда задан CATALOG_PATH; иначе сервис работает на Default()
func LoadFile(path string) ([]repository.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var parsed fileCatalog
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	products := make([]repository.Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		products = append(products, repository.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Picture:     p.Picture,
			Price: repository.Money{
				CurrencyCode: p.Price.CurrencyCode,
				Units:        p.Price.Units,
				Nanos:        p.Price.Nanos,
			},
			Categories: p.Categories,
		})
	}

	return products, nil
}

// Validate проверяет корректность каталога перед созданием хранилища
// Ошибка каталога - ошибка старта сервиса, а не времени выполнения
func Validate(products []repository.Product) error {
	if len(products) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.ID == "" {
			return fmt.Errorf("product id is required")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id: %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Name == "" {
			return fmt.Errorf("product %s: name is required", p.ID)
		}
		if p.Price.CurrencyCode == "" {
			return fmt.Errorf("product %s: currency_code is required", p.ID)
		}
		if p.Price.Units < 0 {
			return fmt.Errorf("product %s: units must be non-negative", p.ID)
		}
		if p.Price.Nanos < 0 || p.Price.Nanos > maxNanos {
			return fmt.Errorf("product %s: nanos must be in [0, %d]", p.ID, maxNanos)
		}
	}

	return nil
}
