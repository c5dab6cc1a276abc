package debug

import (
	"bytes"
	"strings"
	"testing"
)

// captureOutput redirects log output into a buffer for the duration of fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	fn()
	return buf.String()
}

func TestSetDebug(t *testing.T) {
	SetDebug(false)
	if IsEnabled() {
		t.Error("Debug should be disabled initially")
	}

	SetDebug(true)
	if !IsEnabled() {
		t.Error("Debug should be enabled")
	}

	SetDebug(false)
	if IsEnabled() {
		t.Error("Debug should be disabled again")
	}
}

func TestDebugOutput(t *testing.T) {
	SetDebug(true)
	SetNoColor(true)
	defer SetDebug(false)

	output := captureOutput(t, func() {
		Debug("resolving %s", "hero.json")
	})

	if !strings.Contains(output, "[DEBUG]") {
		t.Errorf("Output should contain [DEBUG] prefix, got: %s", output)
	}
	if !strings.Contains(output, "resolving hero.json") {
		t.Errorf("Output should contain message, got: %s", output)
	}
	if !strings.Contains(output, ":") {
		t.Errorf("Output should contain timestamp, got: %s", output)
	}
}

func TestDebugDisabled(t *testing.T) {
	SetDebug(false)

	output := captureOutput(t, func() {
		Debug("this should not appear")
		DebugSection("nor this")
		DebugValue("key", "value")
	})

	if output != "" {
		t.Errorf("Debug output should be empty when disabled, got: %s", output)
	}
}

func TestWarn(t *testing.T) {
	SetDebug(false)
	SetNoColor(true)

	t.Run("printed without debug mode", func(t *testing.T) {
		SetQuiet(false)
		output := captureOutput(t, func() {
			Warn("inline override in %s is not valid JSON", "hero.liquid")
		})
		if !strings.Contains(output, "[WARN]") {
			t.Errorf("Output should contain [WARN] prefix, got: %s", output)
		}
		if !strings.Contains(output, "hero.liquid") {
			t.Errorf("Output should contain message, got: %s", output)
		}
	})

	t.Run("suppressed in quiet mode", func(t *testing.T) {
		SetQuiet(true)
		defer SetQuiet(false)
		output := captureOutput(t, func() {
			Warn("hidden")
		})
		if output != "" {
			t.Errorf("Warn should be silent in quiet mode, got: %s", output)
		}
	})
}

func TestDebugSection(t *testing.T) {
	SetDebug(true)
	SetNoColor(true)
	defer SetDebug(false)

	output := captureOutput(t, func() {
		DebugSection("Batch")
	})

	if !strings.Contains(output, "=== Batch ===") {
		t.Errorf("Output should contain section header, got: %s", output)
	}
}

func TestDebugValue(t *testing.T) {
	SetDebug(true)
	SetNoColor(true)
	defer SetDebug(false)

	output := captureOutput(t, func() {
		DebugValue("schemaDir", "src/schema")
	})

	if !strings.Contains(output, "schemaDir = src/schema") {
		t.Errorf("Output should contain key=value, got: %s", output)
	}
}

func TestDebugJSON(t *testing.T) {
	SetDebug(true)
	SetNoColor(true)
	defer SetDebug(false)

	output := captureOutput(t, func() {
		DebugJSON("schema", map[string]interface{}{"name": "Hero", "limit": 1})
	})

	if !strings.Contains(output, "schema:") {
		t.Errorf("Output should contain key, got: %s", output)
	}
	if !strings.Contains(output, "\"name\"") {
		t.Errorf("Output should contain JSON data, got: %s", output)
	}
}
