// Package serve implements the serve command, which runs the responder
// until the process is terminated.
package serve

import (
	"context"
	"fmt"
	"strings"

	"okresponder/cmd/shared"
	"okresponder/pkg/config"
	"okresponder/pkg/entrypoint"
	"okresponder/pkg/log"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for serve mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Answer every TCP connection with a fixed HTTP 200 response",
		Description: shared.GetBaseDescription(),
		Action:      Run,
		Flags:       getFlags(),
	}
}

// Run is the serve action. It is also the default action of the root command.
func Run(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() != 0 {
		return fmt.Errorf("takes no arguments, got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
	}

	cfg := config.New(cmd.Bool(shared.VerboseFlag))

	if errs := config.Validate(cfg); len(errs) > 0 {
		log.ErrorMsg("Configuration errors:\n")
		for _, err := range errs {
			log.ErrorMsg(" - %s\n", err)
		}
		return fmt.Errorf("exiting")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	shared.SetupSignalHandling(cancel)

	return entrypoint.Serve(ctx, cfg)
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)

	return flags
}
