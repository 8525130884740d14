// Package config parses cmd/server's startup flags. Per spec.md §6, the
// engine takes no runtime configuration beyond the listener address and the
// token registry directory, plus an optional debug-snapshot listener address.
package config

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Config holds the three flags the server binary accepts.
type Config struct {
	ListenAddr   string
	RegistryDir  string
	DebugAddr    string
}

const (
	flagListen   = "listen"
	flagRegistry = "registry-dir"
	flagDebug    = "debug-listen"
)

// App builds the urfave/cli application; action receives the parsed Config.
func App(action func(*cli.Context, Config) error) *cli.App {
	return &cli.App{
		Name:  "cascade-server",
		Usage: "run the Trigger Cascade Engine match server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagListen,
				Aliases: []string{"l"},
				Value:   ":8765",
				Usage:   "address the match WebSocket listener binds to",
				EnvVars: []string{"CASCADE_LISTEN"},
			},
			&cli.StringFlag{
				Name:     flagRegistry,
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "directory of token definition YAML files",
				EnvVars:  []string{"CASCADE_REGISTRY_DIR"},
			},
			&cli.StringFlag{
				Name:    flagDebug,
				Value:   "",
				Usage:   "optional address for the protobuf debug-snapshot endpoint",
				EnvVars: []string{"CASCADE_DEBUG_LISTEN"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg := Config{
				ListenAddr:  c.String(flagListen),
				RegistryDir: c.String(flagRegistry),
				DebugAddr:   c.String(flagDebug),
			}
			if cfg.RegistryDir == "" {
				return fmt.Errorf("config: %s is required", flagRegistry)
			}
			return action(c, cfg)
		},
	}
}
