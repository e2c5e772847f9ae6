package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"groqask/internal/app"
	"groqask/internal/chat"
	"groqask/internal/config"
	"groqask/internal/console"
	"groqask/internal/logging"
	"groqask/internal/setup"
	"groqask/internal/store"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const defaultWrapWidth = 80

// runQuery loads or bootstraps the config and asks one question.
func runQuery(ctx context.Context, s streams) error {
	a, logger, err := buildApp(s)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return a.Run(ctx)
}

// runSetup runs the wizard and overwrites the config file.
func runSetup(s streams) error {
	a, logger, err := buildApp(s)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return a.Setup()
}

// buildApp loads settings and wires the store, wizard and chat client.
func buildApp(s streams) (*app.App, *zap.Logger, error) {
	settings, err := config.LoadFromEnvironment(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: settings.LogLevel, File: settings.LogFile})
	if err != nil {
		return nil, nil, err
	}

	configPath := settings.ConfigPath
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(s.dir, configPath)
	}
	logging.For(logger, logging.CategoryBoot).Debug("settings loaded",
		zap.String("config_path", configPath),
		zap.String("endpoint", settings.Endpoint),
		zap.Duration("timeout", settings.GetTimeout()),
		zap.String("render", settings.Render))

	opts := []chat.Option{chat.WithLogger(logging.For(logger, logging.CategoryAPI))}
	if settings.Render == config.RenderMarkdown {
		renderer, err := chat.NewMarkdownRenderer(wrapWidth(s))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, chat.WithRenderer(renderer))
	}

	con := console.New(s.in, s.out)
	a := app.New(
		store.New(configPath),
		setup.New(con, logging.For(logger, logging.CategorySetup)),
		chat.NewClient(settings.Endpoint, chat.NewHTTPClient(settings.GetTimeout()), s.out, opts...),
		con,
		logging.For(logger, logging.CategoryStore),
	)
	return a, logger, nil
}

func wrapWidth(s streams) int {
	f, ok := s.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWrapWidth
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWrapWidth
}
