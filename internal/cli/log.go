// Package cli implements the graft command-line interface.
//
// Commands operate on package documents, the JSON rendition of an asset
// package holding a name table, an import table and an export table:
//
//	graft actors level.json
//	graft transplant --donor props.json --recipient level.json --actor Lamp
//	graft batch plan.toml --workers 8
//	graft inspect level.json
//	graft validate level.json
//	graft graph level.json -o level.svg
//
// Status lines go to stdout, logs to stderr. --verbose lowers the log
// level to debug; the logger travels to subcommands on the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// progress logs how long a command took once it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)" at info level, elapsed rounded to milliseconds.
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg + " (" + elapsed.String() + ")")
}

type loggerCtxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerCtxKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return l
}
