package runner

import (
	"fmt"
	"io"
)

// GitHub Actions log-group markers. Harmless noise in a local terminal, so
// they are emitted unconditionally for streamed invocations.
func openGroup(w io.Writer, name string) {
	fmt.Fprintf(w, "::group::%s\n", name)
}

func closeGroup(w io.Writer) {
	fmt.Fprintln(w, "::endgroup::")
}

// reportFailure narrates a checked failure inside the still-open group so the
// exit code is visible next to the command's own output.
func reportFailure(w io.Writer, err *CommandError) {
	fmt.Fprintf(w, "Command failed with exit code %d\n", err.ExitCode)
}
