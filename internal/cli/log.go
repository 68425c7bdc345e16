package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exprtree/pkg/expr"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of a step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Rendered 3 artifacts (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logDiagnostics logs each recovered parse problem at warn level.
func logDiagnostics(l *log.Logger, ds expr.Diagnostics) {
	for _, d := range ds {
		l.Warn(d.Message, "code", d.Kind.Code(), "pos", d.Pos, "severity", d.Severity())
	}
}
