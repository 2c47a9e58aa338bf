package main

import (
	"context"
	"os"

	"okresponder/cmd/serve"
	"okresponder/cmd/shared"
	"okresponder/cmd/version"
	"okresponder/pkg/log"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:        "okresponder",
		Usage:       "answer every TCP connection with HTTP 200",
		Description: shared.GetBaseDescription(),
		Action:      serve.Run,
		Flags:       shared.GetCommonFlags(),
		Commands: []*cli.Command{
			serve.GetCommand(),
			version.GetCommand(),
		},
	}
}

// Errors are reported but the exit status stays 0, setup failures included.
func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
	}
}
