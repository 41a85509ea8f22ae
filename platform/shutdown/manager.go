package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// step - именованный шаг остановки
type step struct {
	name string
	fn   func(context.Context) error
}

// Manager выполняет graceful shutdown сервиса по SIGINT/SIGTERM
// Шаги регистрируются по мере сборки приложения и выполняются в обратном порядке:
// что построено последним, останавливается первым
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	steps []step
}

// New создаёт Manager; timeout ограничивает каждый шаг по отдельности
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Add регистрирует именованный шаг остановки
func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, fn: fn})
}

// Wait блокируется до SIGINT или SIGTERM, затем прогоняет шаги в обратном порядке
// Ошибка шага логируется и не прерывает остановку остальных
func (m *Manager) Wait() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	stop()
	m.logger.Info("Shutdown signal received, stopping service")

	m.mu.Lock()
	steps := make([]step, len(m.steps))
	copy(steps, m.steps)
	m.mu.Unlock()

	for i := len(steps) - 1; i >= 0; i-- {
		m.runStep(steps[i])
	}

	m.logger.Info("Graceful shutdown finished")
}

func (m *Manager) runStep(s step) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	start := time.Now()
	if err := s.fn(ctx); err != nil {
		m.logger.Error("Shutdown step failed",
			zap.String("step", s.name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return
	}

	m.logger.Info("Shutdown step done",
		zap.String("step", s.name),
		zap.Duration("took", time.Since(start)))
}

// ShutdownHTTPServer оборачивает http.Server.Shutdown в шаг остановки
func ShutdownHTTPServer(srv interface {
	Shutdown(context.Context) error
}) func(context.Context) error {
	return func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	}
}
