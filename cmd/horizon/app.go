package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/alloy-horizon/internal/balance"
	"github.com/KirkDiggler/alloy-horizon/internal/errors"
	"github.com/KirkDiggler/alloy-horizon/internal/orchestrators/game"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/chance"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/clock"
	"github.com/KirkDiggler/alloy-horizon/internal/pkg/idgen"
	"github.com/KirkDiggler/alloy-horizon/internal/redis"
	"github.com/KirkDiggler/alloy-horizon/internal/repositories/saves"
)

// app is the wired game plus the resources the commands share
type app struct {
	balance *balance.Config
	game    game.Service
	bus     events.EventBus
	saves   saves.Repository
	closers []func() error
}

// appOptions lets tests swap the random source
type appOptions struct {
	source chance.Source
	ids    idgen.Generator
	saves  saves.Repository
}

func newApp(ctx context.Context, c processConfig, opts appOptions) (*app, error) {
	tables, err := balance.Load(c.BalancePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load balance tables")
	}

	a := &app{balance: tables, bus: events.NewBus()}

	a.saves = opts.saves
	if a.saves == nil {
		a.saves, err = a.openSaves(ctx, c)
		if err != nil {
			return nil, err
		}
	}

	source := opts.source
	if source == nil {
		source = chance.Default()
	}
	ids := opts.ids
	if ids == nil {
		ids = idgen.NewUUID("")
	}

	svc, err := game.NewOrchestrator(&game.Config{
		Balance:  tables,
		Source:   source,
		IDs:      ids,
		EventBus: a.bus,
		Saves:    a.saves,
		Name:     c.Name,
	})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create game")
	}
	a.game = svc

	return a, nil
}

func (a *app) openSaves(ctx context.Context, c processConfig) (saves.Repository, error) {
	if c.RedisAddr == "" {
		slog.Debug("No redis address configured, keeping saves in memory")
		return saves.NewInMemory(clock.New()), nil
	}

	client, err := redis.NewClient(c.RedisAddr, &redis.Options{
		DB:       c.RedisDB,
		Password: c.RedisPassword,
		UseTLS:   c.RedisTLS,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}
	a.closers = append(a.closers, client.Close)

	if err := redis.Ping(ctx, client); err != nil {
		_ = a.Close()
		return nil, errors.Wrapf(err, "redis at %s is unreachable", c.RedisAddr)
	}

	repo, err := saves.NewRedis(&saves.RedisConfig{Client: client})
	if err != nil {
		_ = a.Close()
		return nil, errors.Wrap(err, "failed to create save repository")
	}

	slog.Info("Using redis save slots", "addr", c.RedisAddr, "db", c.RedisDB)
	return repo, nil
}

// resume loads the slot when it exists; a missing slot keeps the fresh game
func (a *app) resume(ctx context.Context, slot string) (bool, error) {
	if slot == "" {
		return false, nil
	}

	_, err := a.game.Load(ctx, &game.LoadInput{Slot: slot})
	if err != nil {
		if errors.IsNotFound(err) {
			slog.Info("No save in slot, starting a new game", "slot", slot)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases the redis connection if one was opened
func (a *app) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
