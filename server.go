package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"example.com/arena/config"
	"example.com/arena/logger"
	"example.com/arena/netsync"
)

func serverCommand(cfg *config.Config, address, admin string) error {
	if err := overrideAddress(cfg, address); err != nil {
		return err
	}
	if admin != "" {
		cfg.Net.AdminAddress = admin
	}
	if err := initLogger(cfg, true); err != nil {
		return err
	}
	log := logger.Named("server")

	scheme, hostport, err := cfg.Net.Endpoint()
	if err != nil {
		return err
	}

	srv := netsync.NewServer(netsync.ServerOptions{
		Spawn:        netsync.DefaultSpawn(cfg.Player.SpawnX, cfg.Player.SpawnY),
		RateLimit:    cfg.Net.RateLimit,
		RateBurst:    cfg.Net.RateBurst,
		WriteTimeout: cfg.Net.WriteTimeout,
		Logger:       logger.Named("netsync"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	running := 1
	go func() {
		errs <- srv.ListenAndServe(ctx, scheme, hostport, cfg.Net.WebSocketPath())
	}()
	if cfg.Net.AdminAddress != "" {
		running++
		go func() {
			errs <- srv.ServeAdmin(ctx, cfg.Net.AdminAddress)
		}()
	}

	var result error
	for ; running > 0; running-- {
		if err := <-errs; err != nil {
			// one listener failing stops the other
			stop()
			result = errors.Join(result, err)
		}
	}

	log.Infow("server stopped", "players", srv.Table().Len(), "metrics", srv.Metrics().Snapshot())
	return result
}
