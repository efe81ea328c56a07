package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/evebay/evebay-api/auth"
	"github.com/evebay/evebay-api/contracts"
	"github.com/evebay/evebay-api/esi"
	"github.com/evebay/evebay-api/internal/config"
	"github.com/evebay/evebay-api/server"
	"github.com/evebay/evebay-api/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ssoClient := esi.NewSSOClient(c.GetClientID(), c.GetClientSecret(), c.GetCallbackURL(), c.GetScopes())
	esiClient := esi.NewClient()

	authService, err := auth.NewService(ssoClient, sessions.NewInMemoryStore())
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	contractService, err := contracts.NewService(authService, esiClient, contracts.NewTypeNameCache(esiClient), c.GetCorporationID())
	if err != nil {
		return fmt.Errorf("contracts.NewService: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: server.New(c, authService, contractService)}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func setupLogging(env string) {
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
