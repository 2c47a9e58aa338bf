// Package shared provides common CLI flag definitions and utility functions
// used across the command-line interface.
package shared

import (
	"fmt"
	"strings"

	"okresponder/pkg/config"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable verbose logging.
const VerboseFlag = "verbose"

// GetBaseDescription returns the description of what the server does.
func GetBaseDescription() string {
	return strings.Join([]string{
		fmt.Sprintf("Listens on 0.0.0.0:%d (backlog %d) and answers every connection with %q.", config.DefaultPort, config.DefaultBacklog, config.DefaultResponse),
		"Connections are handled one at a time. Nothing sent by the client is read.",
	}, "\n")
}

// GetCommonFlags returns the flags shared by all serving commands.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
	}
}
