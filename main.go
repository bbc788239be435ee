// main.go
package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"example.com/arena/config"
	"example.com/arena/logger"
)

var CLI struct {
	Debug  bool   `help:"Enable debug logging."`
	Config string `help:"Configuration file (yaml, toml or json)." short:"c" type:"path"`

	Client struct {
		Address string `help:"Server address, e.g. tcp://127.0.0.1:5555 or ws://host:port/ws." short:"a"`
	} `cmd:"" default:"1" help:"Open the game window and join a server."`

	Server struct {
		Address string `help:"Address to listen on, e.g. tcp://0.0.0.0:5555." short:"a"`
		Admin   string `help:"Address of the admin HTTP API; empty to disable." placeholder:"HOST:PORT"`
	} `cmd:"" help:"Run the player synchronization server."`

	Solo struct{} `cmd:"" help:"Walk the arena alone, without a server."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("arena"),
		kong.Description("a ray-cast arena with networked players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	cfg, err := config.Load(CLI.Config)
	ctx.FatalIfErrorf(err)

	if CLI.Debug {
		cfg.Log.Level = "debug"
	}

	switch ctx.Command() {
	case "client":
		err = clientCommand(cfg, CLI.Client.Address)
	case "solo":
		err = soloCommand(cfg)
	case "server":
		err = serverCommand(cfg, CLI.Server.Address, CLI.Server.Admin)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}

	logger.Sync()
	ctx.FatalIfErrorf(err)
}

// initLogger sets up logging for a command. The server also logs to stderr.
func initLogger(cfg *config.Config, console bool) error {
	return logger.Init(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    console,
	})
}

// overrideAddress replaces the configured server address with a flag value.
func overrideAddress(cfg *config.Config, address string) error {
	if address == "" {
		return nil
	}
	cfg.Net.Address = address
	_, _, err := cfg.Net.Endpoint()
	return err
}
