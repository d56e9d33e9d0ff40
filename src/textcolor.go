package bersim

// Logging setup.  A text color level of 0 gives plain logfmt lines,
// anything else the styled terminal format.

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing to w.  debug lowers the level to Debug.
func NewLogger(w io.Writer, debug bool, textColorLevel int) *log.Logger {
	var opts = log.Options{
		ReportTimestamp: true,
		Prefix:          "bersim",
		Level:           log.InfoLevel,
	}

	if debug {
		opts.Level = log.DebugLevel
	}

	if textColorLevel == 0 {
		opts.Formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, opts)
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}

	return log.New(io.Discard)
}
