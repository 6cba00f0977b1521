// Package debug provides conditional trace logging for structless.
//
// Logging is enabled by setting STRUCTLESS_DEBUG or by passing --log-file:
//
//	STRUCTLESS_DEBUG=1 structless -i main.go
//
// The viewer owns the terminal while it runs, so output goes to a file
// (see SetOutput) rather than stderr. When disabled, every function is a
// no-op.
//
//	func (e *Engine) Apply(ev Event) {
//	    debug.Log("apply %s cursor=%d", ev, e.cursor)
//	}
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[STRUCTLESS] "

var (
	mu      sync.Mutex
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("STRUCTLESS_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// SetEnabled switches logging on or off. A logger writing to stderr is
// created if none was configured.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects log output to w and enables logging. Passing nil
// disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		enabled = false
		logger = nil
		return
	}
	enabled = true
	logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

func printf(format string, args ...any) {
	mu.Lock()
	l, on := logger, enabled
	mu.Unlock()
	if !on || l == nil {
		return
	}
	l.Printf(format, args...)
}

// Log writes a printf-style message.
func Log(format string, args ...any) {
	printf(format, args...)
}

// LogIf writes a message only if cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	printf(format, args...)
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	printf("%s took %v", name, d)
}

// LogEnterExit logs entry now and exit with the elapsed time when the
// returned function runs:
//
//	defer debug.LogEnterExit("syntax.Parse")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	printf("-> %s", name)
	start := time.Now()
	return func() {
		printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !Enabled() {
		return
	}
	printf("%s: %T = %s", name, v, fmt.Sprintf("%+v", v))
}

// Section logs a section header.
func Section(name string) {
	printf("=== %s ===", name)
}
