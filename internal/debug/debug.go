// Package debug provides structured, gated diagnostic logging for the
// analyzer.
//
// Stdout is the framed-protocol wire channel (see internal/protocol), so
// debug output must never reach it: SetOutput refuses an *os.File pointing
// at stdout, and the default output is stderr.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build-flag toggle.
// go build -ldflags "-X github.com/standardbeagle/rustsonar/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	file   *os.File
)

// SetOutput sets the writer debug output is written to. Passing nil disables
// output. Passing os.Stdout is rejected (returns false) to protect the wire
// protocol.
func SetOutput(w io.Writer) bool {
	if w == os.Stdout {
		return false
	}
	mu.Lock()
	defer mu.Unlock()
	output = w
	return true
}

// InitLogFile redirects debug output to a file at path, creating it if needed.
func InitLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug log file: %w", err)
	}
	mu.Lock()
	file = f
	output = f
	mu.Unlock()
	return nil
}

// Close closes the log file opened by InitLogFile, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		err := file.Close()
		file = nil
		output = os.Stderr
		return err
	}
	return nil
}

// enabled tracks whether logging was explicitly turned on at runtime via
// SetEnabled (the --debug flag), on top of the EnableDebug build flag. The
// DEBUG environment variable is checked separately by IsEnabled.
var enabled bool

// SetEnabled turns logging on or off at runtime.
func SetEnabled(v bool) {
	mu.Lock()
	enabled = v
	mu.Unlock()
}

// IsEnabled reports whether debug logging is currently active.
func IsEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes a component-tagged debug line when logging is enabled.
func Log(component, format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogParse logs parser-stage diagnostics.
func LogParse(format string, args ...interface{}) { Log("PARSE", format, args...) }

// LogAnalyze logs analyzer-stage diagnostics (highlight/metrics/cognitive/cyclomatic/cpd).
func LogAnalyze(format string, args ...interface{}) { Log("ANALYZE", format, args...) }

// LogRule logs rule-engine diagnostics.
func LogRule(format string, args ...interface{}) { Log("RULE", format, args...) }

// LogProtocol logs framed-protocol boundary diagnostics.
func LogProtocol(format string, args ...interface{}) { Log("PROTOCOL", format, args...) }
