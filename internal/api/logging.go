package api

import (
	"context"

	"github.com/rs/zerolog"

	nrlog "github.com/lsst-ts/nightreport/internal/log"
)

// logger returns a context-aware logger configured with component metadata.
func logger(ctx context.Context) *zerolog.Logger {
	l := nrlog.WithComponentFromContext(ctx, "api")
	return &l
}
