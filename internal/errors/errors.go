package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/daylog/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// FormatWarning formats a non-fatal problem the user should know about
func FormatWarning(msg string) string {
	if msg == "" {
		return ""
	}
	return "Warning: " + msg
}

// PrintWarnings writes each warning on its own line. Warnings never change
// the exit code; the action they accompany has already been applied.
func PrintWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		if msg == "" {
			continue
		}
		fmt.Fprintln(w, FormatWarning(msg))
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
