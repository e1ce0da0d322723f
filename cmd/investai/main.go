package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/investai/investai-go/api"
	"github.com/investai/investai-go/cli"
	"github.com/investai/investai-go/internal/config"
	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/tokenstore"
)

func main() {
	status, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(int(status))
}

func run() (status subcommands.ExitStatus, returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return subcommands.ExitFailure, err
	}
	setupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		displayAppname(cfg.AppName)
	}

	app, err := buildApp(cfg)
	if err != nil {
		return subcommands.ExitFailure, err
	}

	commander := subcommands.NewCommander(flag.CommandLine, os.Args[0])
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, cmd := range cli.Register(app) {
		commander.Register(cmd, "")
	}

	flag.Parse()
	return commander.Execute(context.Background()), nil
}

// buildApp wires the dependency graph. The client and the session store
// reference each other (the store calls the auth endpoints, the client pulls
// bearer tokens from the store), so the provider is attached last.
func buildApp(cfg config.Config) (*cli.App, error) {
	client, err := api.NewClient(cfg.APIBaseURL, api.WithConfig(api.Config{
		Timeout:      cfg.APITimeout,
		MaxRetries:   3,
		RetryWaitMin: time.Second,
		RetryWaitMax: 5 * time.Second,
	}))
	if err != nil {
		return nil, err
	}

	storeOptions := []tokenstore.FileOption{}
	if cfg.TokenKey != "" {
		storeOptions = append(storeOptions, tokenstore.WithPassphrase(cfg.TokenKey))
	}
	tokens, err := tokenstore.NewFile(cfg.TokenFile, storeOptions...)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewStore(client.Auth(), session.WithTokenStore(tokens))
	if err != nil {
		return nil, err
	}
	client.SetTokenProvider(sess)

	if _, err := sess.Restore(); err != nil {
		log.Warn().Err(err).Msg("could not restore persisted session")
	}

	return &cli.App{Config: cfg, Session: sess, API: client}, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
