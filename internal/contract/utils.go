package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qa4sm/qa4sm-reader/schema"
)

// Color variables for console output.
var (
	CommonColor   = color.New(color.FgCyan)               // CommonColor marks reference-only metrics.
	PairwiseColor = color.New(color.FgGreen)              // PairwiseColor marks pairwise metrics.
	TripleColor   = color.New(color.FgMagenta, color.Bold) // TripleColor marks triple collocation metrics.
	WarnColor     = color.New(color.FgYellow)             // WarnColor marks fallback diagnostics.
)

// GetPlainLabel returns the plain text label of a metric group.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(g schema.MetricGroup) string {
	return g.String()
}

// GetColorLabel returns a colored metric group label for console output (table).
func GetColorLabel(g schema.MetricGroup) string {
	text := GetPlainLabel(g)

	switch g {
	case schema.GroupCommon:
		return CommonColor.Sprint(text)
	case schema.GroupPairwise:
		return PairwiseColor.Sprint(text)
	case schema.GroupTriple:
		return TripleColor.Sprint(text)
	default:
		return text
	}
}

// GetDiagnosticLabel returns a label for a fallback diagnostic, colored when requested.
func GetDiagnosticLabel(kind schema.DiagnosticKind, useColors bool) string {
	text := strings.ReplaceAll(string(kind), "_", " ")
	if useColors {
		return WarnColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
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

// LogDiagnostics prints fallback diagnostics to stderr.
func LogDiagnostics(diags []schema.Diagnostic) {
	for _, d := range diags {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", d.Message)
	}
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for the load history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qa4sm_history.db"
	}
	return filepath.Join(homeDir, ".qa4sm_history.db")
}

// TruncateText truncates a string to a maximum width with an ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return s
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
