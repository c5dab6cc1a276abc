package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	enabled   bool
	enabledMu sync.RWMutex
	noColor   bool
	noColorMu sync.RWMutex
	quiet     bool
	quietMu   sync.RWMutex

	// out is the destination for all log lines. Tests swap it.
	out   io.Writer = os.Stderr
	outMu sync.Mutex
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	enabledMu.Lock()
	defer enabledMu.Unlock()
	enabled = enable
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	enabledMu.RLock()
	defer enabledMu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	noColorMu.Lock()
	defer noColorMu.Unlock()
	noColor = disable
}

// SetQuiet suppresses warnings. Debug output is controlled by SetDebug only.
func SetQuiet(q bool) {
	quietMu.Lock()
	defer quietMu.Unlock()
	quiet = q
}

// SetOutput redirects log output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := out
	out = w
	return prev
}

func useColor() bool {
	noColorMu.RLock()
	defer noColorMu.RUnlock()
	return !noColor
}

// emit writes one log line with the given level tag.
// Lines from concurrent batch workers must not interleave, hence the lock.
func emit(tag, tagColor, body string) {
	timestamp := time.Now().Format("15:04:05.000")

	outMu.Lock()
	defer outMu.Unlock()

	if useColor() {
		fmt.Fprintf(out, "%s[%s]%s %s%s%s %s\n",
			tagColor, tag, colorReset, colorGray, timestamp, colorReset, body)
	} else {
		fmt.Fprintf(out, "[%s] %s %s\n", tag, timestamp, body)
	}
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	emit("DEBUG", colorCyan, fmt.Sprintf(format, args...))
}

// Warn prints a warning regardless of debug mode, unless quiet mode is set.
func Warn(format string, args ...interface{}) {
	quietMu.RLock()
	q := quiet
	quietMu.RUnlock()
	if q {
		return
	}
	emit("WARN", colorYellow, fmt.Sprintf(format, args...))
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	if useColor() {
		emit("DEBUG", colorCyan, fmt.Sprintf("%s=== %s ===%s", colorCyan, section, colorReset))
		return
	}
	emit("DEBUG", colorCyan, fmt.Sprintf("=== %s ===", section))
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	if !IsEnabled() {
		return
	}
	if useColor() {
		emit("DEBUG", colorCyan, fmt.Sprintf("%s%s%s = %v", colorCyan, key, colorReset, value))
		return
	}
	emit("DEBUG", colorCyan, fmt.Sprintf("%s = %v", key, value))
}

// DebugJSON prints structured data as JSON for debugging
func DebugJSON(key string, v interface{}) {
	if !IsEnabled() {
		return
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Debug("Failed to marshal %s to JSON: %v", key, err)
		return
	}

	emit("DEBUG", colorCyan, fmt.Sprintf("%s:\n%s", key, string(jsonBytes)))
}
