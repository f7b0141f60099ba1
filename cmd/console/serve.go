package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-console/server"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/token/jwt"
	"github.com/rs/zerolog/log"
)

// serve runs the callback listener and keeps the session renewed until
// SIGINT or SIGTERM.
func (a *app) serve(ctx context.Context) error {
	displayAppname(a.config.GetAppName())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var opts []server.Option
	if jwksURL := a.config.GetJWKSURL(); jwksURL != "" {
		opts = append(opts, server.WithVerifier(jwt.NewKeySetVerifier(ctx, jwksURL)))
	}

	httpServer := &http.Server{
		Addr:              a.config.GetCallbackAddr(),
		Handler:           server.New(a.config, a.manager, a.client, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	updates, unsubscribe := a.manager.Subscribe()
	defer unsubscribe()
	go a.reportTransitions(updates)

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func (a *app) reportTransitions(updates <-chan session.Snapshot) {
	last := session.State(-1)
	for snap := range updates {
		if snap.State == last {
			continue
		}
		last = snap.State
		switch snap.State {
		case session.LoggedIn:
			fmt.Fprintf(a.out, "%s[%s]%s signed in as %s\n", Green, time.Now().Format(time.Kitchen), ResetColor, describeUser(snap))
		case session.LoggedOut:
			fmt.Fprintf(a.out, "%s[%s]%s signed out\n", Yellow, time.Now().Format(time.Kitchen), ResetColor)
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("callback listener started")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("callback listener stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
