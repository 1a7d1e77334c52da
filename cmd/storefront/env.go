package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"storefront/internal/client"
	"storefront/internal/config"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/session"
	"storefront/internal/workflow/account"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// env is everything a command needs, built once per invocation.
type env struct {
	cfg     config.AppConfig
	logger  *zap.Logger
	store   session.Store
	api     *client.Client
	account *account.Service
	close   func() error
}

func newEnv(cmd *cli.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if u := cmd.Root().String("api-url"); u != "" {
		cfg.APIURL = u
		cfg.Sanitize()
	}
	if cmd.Root().Bool("verbose") {
		cfg.Log.Level = "debug"
	}

	lg, err := logger.Init(cfg.Logger(true))
	if err != nil {
		return nil, err
	}

	store, closeStore, err := session.NewFromConfig(cfg.Session, lg)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	opts := []client.Option{client.WithTimeout(cfg.HTTPTimeout)}
	if cfg.MaxRetries > 0 {
		opts = append(opts, client.WithMaxRetries(cfg.MaxRetries, 250*time.Millisecond))
	}
	api := client.New(cfg.APIURL, store, lg, opts...)

	return &env{
		cfg:     cfg,
		logger:  lg,
		store:   store,
		api:     api,
		account: account.NewService(api, store, lg),
		close:   closeStore,
	}, nil
}

// action wraps a command body with env setup and the shared failure policy:
// an unauthorized response clears the stored session.
func action(fn func(ctx context.Context, cmd *cli.Command, e *env) error) cli.ActionFunc {
	return withEnv(fn, true)
}

// loginAction is action without the session reset: a 401 from login means
// bad credentials, not an expired session.
func loginAction(fn func(ctx context.Context, cmd *cli.Command, e *env) error) cli.ActionFunc {
	return withEnv(fn, false)
}

func withEnv(fn func(ctx context.Context, cmd *cli.Command, e *env) error, resetOnUnauthorized bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = e.close()
			_ = e.logger.Sync()
		}()

		err = fn(ctx, cmd, e)
		if resetOnUnauthorized {
			e.handleFailure(ctx, err, os.Stderr)
		}
		return err
	}
}

func (e *env) handleFailure(ctx context.Context, err error, stderr io.Writer) {
	if err == nil || !xerrors.IsUnauthorized(err) {
		return
	}
	_ = e.account.HandleAuthFailure(ctx, err)
	fmt.Fprintln(stderr, "session expired or invalid; run `storefront login` again")
}

// requireSession fails early when nobody is logged in.
func requireSession(ctx context.Context, e *env) (session.Session, error) {
	snap := session.Snapshot(ctx, e.store)
	if !snap.Authenticated() {
		return snap, fmt.Errorf("not logged in; run `storefront login`")
	}
	return snap, nil
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}
