package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	headerStyle      = color.New(color.FgRed, color.Bold)
	usageStyle       = color.New(color.Faint)
	fixStyle         = color.New(color.FgYellow, color.Bold)
	remediationStyle = color.New(color.FgYellow)
)

// render produces the terminal form of a CLIError. Exactly one line starts
// with "Error"; usage and remediation are indented continuation lines, so a
// CI log scanner sees a single failure line per fatal exit.
func render(err *CLIError, colored bool) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	label := fmt.Sprintf("Error [%s]:", err.Category)
	if colored {
		label = headerStyle.Sprint(label)
	}
	sb.WriteString(label)
	sb.WriteString(" ")
	sb.WriteString(err.Message)
	sb.WriteString("\n")

	if err.Usage != "" {
		usage := "  usage: " + err.Usage
		if colored {
			usage = usageStyle.Sprint(usage)
		}
		sb.WriteString(usage)
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		fix := "To fix this:"
		if colored {
			fix = fixStyle.Sprint(fix)
		}
		sb.WriteString(fix)
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			bullet := "  • "
			if colored {
				bullet = remediationStyle.Sprint(bullet)
			}
			sb.WriteString(bullet)
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatError formats a CLIError for terminal display, honoring the global
// color setting.
func FormatError(err *CLIError) string {
	return render(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without any color codes, regardless of
// the global color setting.
func FormatErrorPlain(err *CLIError) string {
	return render(err, false)
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	fmt.Fprint(w, FormatError(err))
}
