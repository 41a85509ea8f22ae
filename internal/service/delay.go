package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer имитирует задержку обращения к нижележащему хранилищу
// Стратегия задаётся при сборке сервиса: по умолчанию задержки нет,
// RandomDelayer включается конфигом для нагрузочных сценариев
type Delayer interface {
	// Wait выполняет задержку на время стратегии или до отмены контекста
	Wait(ctx context.Context) error
}

// NopDelayer не ждёт вообще (поведение по умолчанию)
type NopDelayer struct{}

// Wait сразу возвращается
func (NopDelayer) Wait(ctx context.Context) error {
	return nil
}

// RandomDelayer ждёт случайное время из диапазона [Min, Max]
type RandomDelayer struct {
	Min time.Duration
	Max time.Duration
}

// NewRandomDelayer создаёт RandomDelayer, нормализуя перепутанные границы
func NewRandomDelayer(min, max time.Duration) *RandomDelayer {
	if max < min {
		min, max = max, min
	}
	return &RandomDelayer{Min: min, Max: max}
}

// Wait ждёт случайное время из [Min, Max] или до отмены контекста
func (d *RandomDelayer) Wait(ctx context.Context) error {
	delay := d.Min
	if spread := d.Max - d.Min; spread > 0 {
		delay += rand.N(spread + 1)
	}
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
