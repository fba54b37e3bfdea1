package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// stdoutLogger writes workflow log lines to stdout. Used by CLI commands so
// service-level events (unlocks, rework spawns) are visible to the operator.
type stdoutLogger struct {
	verbose bool
}

func newStdoutLogger(verbose bool) *stdoutLogger {
	return &stdoutLogger{verbose: verbose}
}

func (l *stdoutLogger) Log(level, message string, metadata map[string]interface{}) {
	if level == "DEBUG" && !l.verbose {
		return
	}
	if len(metadata) > 0 && l.verbose {
		meta, _ := json.Marshal(metadata)
		fmt.Fprintf(os.Stdout, "[%s] %s %s\n", level, message, meta)
		return
	}
	fmt.Fprintf(os.Stdout, "[%s] %s\n", level, message)
}
