// Command peerctl drives one client session against the peer-match API from
// the terminal. Sessions sharing a replica file see each other's pending
// connections.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "peerctl",
		Usage:   "Browse skill-matched peers, connect and open conversations",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   "peerctl.toml",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Act as user `ID`",
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "API base `URL`",
			},
		},
		Commands: []*cli.Command{
			browseCommand(),
			connectCommand(),
			connectionsCommand(),
			chatCommand(),
			tokenCommand(),
			configCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
