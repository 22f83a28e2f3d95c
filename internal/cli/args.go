package cli

import (
	"fmt"
	"io"
	"strconv"
)

// parseIntArg converts a numeric command argument. On failure it prints the
// user-facing message to w and reports false; the command then exits cleanly.
func parseIntArg(w io.Writer, name, arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		_, _ = fmt.Fprintf(w, "Error: invalid %s %q: must be an integer.\n", name, arg)
		return 0, false
	}
	return n, true
}

func requireTaskManager() error {
	if TaskMgr == nil {
		return fmt.Errorf("task manager not initialized")
	}
	return nil
}
