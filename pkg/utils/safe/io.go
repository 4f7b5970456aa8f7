package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/haus-labs/haus-agent/pkg/utils/logging"
)

// Close closes closer and logs any error. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs any error. Nil writers are ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// Drain reads r to EOF and discards the content so that the underlying
// connection can be reused.
func Drain(ctx context.Context, r io.Reader) {
	if r == nil {
		return
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		logging.From(ctx).Debug("Failed to drain reader", slog.Any("error", err))
	}
}
