package cli

import (
	"context"
	"os"
)

// Execute runs the floorstack CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute() error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(context.Background())
}
