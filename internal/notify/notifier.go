package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// ErrUnavailable канал уведомлений не настроен или недоступен
var ErrUnavailable = errors.New("notifier unavailable")

// Notifier умеет показать уведомление с заголовком и текстом
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// ConsoleNotifier синхронно печатает уведомление пользователю.
// Используется как запасной вариант, когда основной канал не сработал.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier создаёт уведомитель, пишущий в out
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Notify печатает уведомление
func (c *ConsoleNotifier) Notify(_ context.Context, title, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "🔔 %s\n%s\n", title, body); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// Fallback отправляет уведомление через основной канал,
// а при ошибке показывает его через запасной. Никогда не возвращает ошибку.
type Fallback struct {
	primary  Notifier
	fallback Notifier
	logger   *zap.Logger
}

// NewFallback создаёт уведомитель с запасным каналом. primary может быть nil.
func NewFallback(primary, fallback Notifier, logger *zap.Logger) *Fallback {
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Notify всегда возвращает nil; ошибки только логируются
func (f *Fallback) Notify(ctx context.Context, title, body string) error {
	err := ErrUnavailable
	if f.primary != nil {
		err = f.primary.Notify(ctx, title, body)
	}
	if err == nil {
		return nil
	}

	f.logger.Warn("Primary notifier failed, using fallback", zap.Error(err))

	if f.fallback == nil {
		f.logger.Error("Notification dropped: no fallback configured",
			zap.String("title", title),
			zap.String("body", body))
		return nil
	}
	if ferr := f.fallback.Notify(ctx, title, body); ferr != nil {
		// последний шанс не потерять текст напоминания
		f.logger.Error("Fallback notifier failed",
			zap.Error(ferr),
			zap.String("title", title),
			zap.String("body", body))
	}
	return nil
}
