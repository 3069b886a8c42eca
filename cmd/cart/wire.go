package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rl1809/cart-manager/internal/adapter/api"
	"github.com/rl1809/cart-manager/internal/adapter/storage"
	"github.com/rl1809/cart-manager/internal/config"
	"github.com/rl1809/cart-manager/internal/core/service"
	"github.com/rl1809/cart-manager/internal/port"
)

// app holds the wired cart manager and everything that has to be closed with it.
type app struct {
	cart    *service.CartService
	log     zerolog.Logger
	rdb     *redis.Client
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg *config.Config, notifier port.Notifier) (*app, error) {
	a := &app{log: newLogger()}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	catalog, stock, err := a.openOracles(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	cart, err := service.NewCartService(ctx, catalog, stock, store,
		service.WithLogger(a.log.With().Str("component", "cart").Logger()),
		service.WithNotifier(notifier),
		service.WithSnapshotKey(cfg.Store.Key),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cart = cart
	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config) (port.SnapshotStore, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		rdb, err := a.redisClient(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisAdapter(rdb), nil
	default:
		sqlite, err := storage.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlite.Close)
		a.log.Debug().Str("path", cfg.Store.SQLitePath).Msg("opened sqlite store")
		return sqlite, nil
	}
}

func (a *app) openOracles(ctx context.Context, cfg *config.Config) (port.CatalogOracle, port.StockOracle, error) {
	var (
		catalog port.CatalogOracle
		stock   port.StockOracle
	)

	switch cfg.Oracle.Backend {
	case config.OracleMySQL:
		db, err := sql.Open("mysql", cfg.Oracle.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		a.closers = append(a.closers, db.Close)

		if err := db.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to ping mysql: %w", err)
		}
		a.log.Debug().Msg("connected to mysql")

		adapter := storage.NewMySQLAdapter(db)
		catalog, stock = adapter, adapter
	default:
		client, err := api.NewClient(cfg.Oracle.APIURL, cfg.Oracle.Timeout)
		if err != nil {
			return nil, nil, err
		}
		catalog, stock = client, client
	}

	if cfg.Oracle.Stock == config.StockRedis {
		rdb, err := a.redisClient(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		stock = storage.NewRedisAdapter(rdb)
	}

	return catalog, stock, nil
}

// redisClient connects once; store and stock share the client when both live in redis.
func (a *app) redisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	a.closers = append(a.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	a.log.Debug().Str("addr", addr).Msg("connected to redis")
	a.rdb = rdb
	return rdb, nil
}
