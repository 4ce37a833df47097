// log хранит request-scoped *slog.Logger в context.Context.
//
// HTTP-мидлвары кладут логгер с request_id в контекст, а guard после
// аутентификации дополняет его user_id, поэтому сервисный слой и адаптеры
// хранилищ пишут логи через From(ctx) и получают все атрибуты запроса.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With дополняет логгер из контекста атрибутами и возвращает дочерний контекст.
// Пустой список атрибутов возвращает исходный контекст без изменений.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}

	return Into(ctx, From(ctx).With(args...))
}
