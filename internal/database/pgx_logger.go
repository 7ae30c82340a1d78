package database

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v4"

	"github.com/blackcloro/conta-repository/pkg/logger"
)

// pgxLogger forwards driver logs to pkg/logger. pgx reports every statement
// at info, so info and below land at debug. Failed statements are reported
// by the repository, so the driver's copy is demoted to debug as well.
type pgxLogger struct{}

func (pgxLogger) Log(_ context.Context, level pgx.LogLevel, msg string, data map[string]interface{}) {
	args := make([]any, 0, len(data)*2+2)
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		if e, ok := data[k].(error); ok && k == "err" {
			err = e
			continue
		}
		args = append(args, k, data[k])
	}
	args = append(args, "component", "pgx")

	switch level {
	case pgx.LogLevelWarn:
		if err != nil {
			args = append(args, "error", err)
		}
		logger.Warn("pgx: "+msg, args...)
	case pgx.LogLevelNone:
	default:
		if err != nil {
			args = append(args, "error", err)
		}
		logger.Debug("pgx: "+msg, args...)
	}
}
