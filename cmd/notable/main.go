package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/config"
	"github.com/notable-io/notable/server"
	"github.com/notable-io/notable/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Store.DSN)
	if err != nil {
		log.Fatal(err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := store.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}

	repos := store.NewRepositoryManager(db)
	if err := repos.Validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.Store.Seed {
		if err := store.Seed(ctx, repos); err != nil {
			log.Fatal(err)
		}
	}

	// A fresh keypair per boot: restarting the process invalidates every
	// outstanding token.
	key, err := auth.NewSigningKeyPair()
	if err != nil {
		log.Fatal(err)
	}

	tokens := auth.NewTokenService(key, cfg.GetIssuer(), cfg.GetTokenTTL(), nil)
	provider := store.NewUserProvider(repos.Users())
	auther := auth.NewAuthenticator(provider, tokens)

	srv := server.New(cfg, auther, repos)

	go func() {
		if err := srv.Listen(); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	if err := srv.Shutdown(); err != nil {
		log.Fatal(err)
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
