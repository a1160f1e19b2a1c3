package slogx

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. oops errors are unpacked so their code
// and context land as separate attributes.
func LogError(logger *slog.Logger, msg string, err error, args ...any) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, append(args, "error", err)...)
		return
	}

	attrs := append(args, "error", oopsErr.Error())
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
