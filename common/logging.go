// Package common provides centralized logging infrastructure for graphmail.
// It implements intelligent log output routing that directs error messages
// to stderr while sending other log levels to stdout, enabling proper stream
// separation for scripted and containerized environments.
//
// The logging system is built on logrus for structured logging with custom
// output handling. Every graphmail command and the polling server log through
// the global Logger instance so that output handling stays uniform.
//
// Output Routing Strategy:
//
//	Error-level messages are directed to stderr (for immediate attention and
//	shell-level error handling) while info, debug, and warning messages go to
//	stdout (for general log processing).
package common

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
)

// OutputSplitter routes formatted log output to stdout or stderr based on the
// entry's severity level. It examines the final formatted bytes for the
// "level=error" marker produced by logrus formatters, so it works with both
// text and JSON output without parsing.
//
// Example Usage:
//
//	splitter := &OutputSplitter{}
//	logger := logrus.New()
//	logger.SetOutput(splitter)
//
//	logger.Info("This goes to stdout")
//	logger.Error("This goes to stderr")
type OutputSplitter struct{}

// Write implements io.Writer for the OutputSplitter. Messages containing the
// "level=error" marker are written to stderr, everything else to stdout.
// Safe for concurrent use: it only reads the input and writes to the
// process-wide OS streams.
func (splitter *OutputSplitter) Write(p []byte) (n int, err error) {
	if bytes.Contains(p, []byte("level=error")) {
		return os.Stderr.Write(p)
	}
	return os.Stdout.Write(p)
}

// Logger is the global logger instance for graphmail. It is pre-configured
// with the OutputSplitter for stream separation and serves as the central
// logging facility for the CLI commands, the Graph client, and the polling
// server.
//
// The defaults (text format, info level) suit interactive CLI use; the serve
// command reconfigures format and level from configuration at startup:
//
//	Logger.SetFormatter(&logrus.JSONFormatter{})
//	Logger.SetLevel(logrus.DebugLevel)
var Logger = func() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&OutputSplitter{})
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}()
