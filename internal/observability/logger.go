package observability

import (
	"io"
	"os"
	"time"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger on out (stderr when nil) as the
// global logger. Every line carries the app, the node name and the default
// target revision of the service. The global level set by the logging
// package still applies.
func InitLogger(out io.Writer, app, node string, target revision.Revision) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    out != os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().
		Timestamp().
		Str("app", app).
		Str("node", node).
		Str("target_revision", target.String()).
		Logger()
	log.Logger = logger
	return logger
}
