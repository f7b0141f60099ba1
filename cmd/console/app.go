package main

import (
	"context"
	"io"

	"github.com/jrsteele09/go-auth-console/api"
	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/store"
	"github.com/rs/zerolog/log"
)

var _ session.TokenStore = (store.Store)(nil)

type app struct {
	config     config.Config
	client     *api.Client
	manager    *session.Manager
	out        io.Writer
	closeStore func() error
}

func newApp(ctx context.Context, c config.Config, out io.Writer) (*app, error) {
	tokens, closeStore, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}

	client, err := api.New(c)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	manager := session.NewManager(client, client, tokens, c, session.WithCallTimeout(c.GetRequestTimeout()))
	if err := manager.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore the previous session")
	}

	return &app{
		config:     c,
		client:     client,
		manager:    manager,
		out:        out,
		closeStore: closeStore,
	}, nil
}

func (a *app) Close() {
	a.manager.Close()
	if err := a.closeStore(); err != nil {
		log.Err(err).Msg("failed to close token store")
	}
}
