package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Quality label constants.
const (
	ExcellentValue = "Excellent" // Excellent quality
	GoodValue      = "Good"      // Good quality
	FairValue      = "Fair"      // Fair quality
	PoorValue      = "Poor"      // Poor quality
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor marks top quality.
	GoodColor      = color.New(color.FgCyan)              // goodColor marks healthy quality.
	FairColor      = color.New(color.FgYellow)            // fairColor marks standard caution, not bold.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor marks commits needing attention.
)

// GetPlainLabel returns a plain text label for a 0-10 quality score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 8:
		return ExcellentValue
	case score >= 6:
		return GoodValue
	case score >= 4:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the
// enrichment cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".teampulse_cache.db"
	}
	return filepath.Join(homeDir, ".teampulse_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for the
// run-history store.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".teampulse_history.db"
	}
	return filepath.Join(homeDir, ".teampulse_history.db")
}

// GetTerminalWidth returns the detected terminal width, or a sane
// default when stdout is not a terminal. A positive override wins.
func GetTerminalWidth(override int) int {
	if override > 0 {
		return override
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

// TruncateText truncates a string to a maximum width with an ellipsis
// suffix. Requires maxWidth > 3 so there is room for both the "..." and
// at least one character of content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// FirstLine returns the summary line of a commit message.
func FirstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimRight(message[:i], "\r")
	}
	return message
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
