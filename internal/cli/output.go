package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tacogips/sectionforge/internal/app"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorGray    = "\033[90m"
)

// Output destinations, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// errDiagnostics is returned when a build finished with failed templates.
// The failures have already been printed.
var errDiagnostics = errors.New("one or more templates failed")

// Output formatting helpers

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	if globalNoColor {
		fmt.Fprintf(stdout, "✓ %s\n", msg)
	} else {
		fmt.Fprintf(stdout, "%s✓%s %s\n", colorGreen, colorReset, msg)
	}
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	if globalNoColor {
		fmt.Fprintf(stdout, "⚠ %s\n", msg)
	} else {
		fmt.Fprintf(stdout, "%s⚠%s %s\n", colorYellow, colorReset, msg)
	}
}

// printErrorMsg prints an error message (different from printError which takes error type)
func printErrorMsg(msg string) {
	if globalNoColor {
		fmt.Fprintf(stderr, "✗ %s\n", msg)
	} else {
		fmt.Fprintf(stderr, "%s✗%s %s\n", colorRed, colorReset, msg)
	}
}

// printProgress prints a progress indicator
func printProgress(msg string) {
	if globalQuiet {
		return
	}
	if globalNoColor {
		fmt.Fprintf(stdout, "→ %s\n", msg)
	} else {
		fmt.Fprintf(stdout, "%s→%s %s\n", colorBlue, colorReset, msg)
	}
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	if globalNoColor {
		fmt.Fprintf(stdout, "\n=== %s ===\n", title)
	} else {
		fmt.Fprintf(stdout, "\n%s=== %s ===%s\n", colorMagenta, title, colorReset)
	}
}

// printDetail prints a dimmed indented line
func printDetail(msg string) {
	if globalQuiet {
		return
	}
	if globalNoColor {
		fmt.Fprintf(stdout, "  %s\n", msg)
	} else {
		fmt.Fprintf(stdout, "  %s%s%s\n", colorGray, msg, colorReset)
	}
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// printBuildResult prints the outcome of one build. Diagnostics are always
// printed, even in quiet mode.
func printBuildResult(result *app.BuildResult, dryRun bool) {
	batch := result.Batch

	if dryRun {
		printHeader("Dry run")
		for _, a := range result.DryRunAssets {
			state := "new"
			if a.Exists {
				state = "exists"
			}
			printInfo(fmt.Sprintf("  %s (%s, %s)", a.Key, formatBytes(int64(a.Size)), state))
		}
		printInfo("")
		printInfo("No files written (dry run).")
	} else {
		for _, key := range result.Written {
			printSuccess(key)
		}
		for _, key := range result.Unchanged {
			printDetail(key + " (unchanged)")
		}
	}

	for _, d := range batch.Diagnostics {
		// Multi-line messages carry the directive excerpt and caret.
		printErrorMsg(strings.ReplaceAll(d.Error(), "\n", "\n  "))
	}

	summary := fmt.Sprintf("%d template(s), %d asset(s), %d written, %d unchanged, %d failed in %s",
		len(batch.Files), batch.Assets.Len(), len(result.Written), len(result.Unchanged),
		len(batch.Diagnostics), result.Duration.Round(time.Millisecond))
	if batch.HasErrors() {
		printWarning(summary)
	} else {
		printInfo(summary)
	}
}
