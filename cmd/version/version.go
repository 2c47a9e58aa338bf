// Package version implements the version command.
package version

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X okresponder/cmd/version.Version=...".
var Version = "unknown"

// GetCommand returns the CLI command printing the program version.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Program version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "okresponder %s\n", Version)
			return err
		},
		Flags: []cli.Flag{},
	}
}
