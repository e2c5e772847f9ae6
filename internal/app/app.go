// Package app wires the config file lifecycle, the setup wizard and the chat
// client into the single-query flow run by the groqask command.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"groqask/internal/chat"
	"groqask/internal/store"

	"go.uber.org/zap"
)

// ConfigStore is the config file lifecycle. *store.Store satisfies it.
type ConfigStore interface {
	Exists() bool
	Create() error
	Load() (store.Record, error)
	Save(rec store.Record) error
}

// Wizard produces a record interactively. *setup.Wizard satisfies it.
type Wizard interface {
	Run() (store.Record, error)
}

// Sender performs the chat exchange. *chat.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, rec store.Record, query string) (chat.Reply, error)
}

// Prompter reads one line after printing a label. *console.Console satisfies it.
type Prompter interface {
	Prompt(label string) (string, error)
}

// State is the condition the config file was found in.
type State int

const (
	StateMissing   State = iota // no file; created empty, then setup
	StateEmpty                  // zero-length file; setup
	StateLoaded                 // valid record; no setup
	StateMalformed              // undecodable content; setup overwrites it
)

func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// QueryPrompt is printed before reading the query line.
const QueryPrompt = "Enter your query: "

// InterruptFunc derives the context that is cancelled when the user interrupts
// the exchange. signal.NotifyContext has this shape.
type InterruptFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// NotifyInterrupt cancels on SIGINT or SIGTERM.
func NotifyInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// App runs the groqask flows.
type App struct {
	store     ConfigStore
	wizard    Wizard
	sender    Sender
	prompter  Prompter
	logger    *zap.Logger
	interrupt InterruptFunc
}

// New returns an App. A nil logger discards diagnostics.
func New(cs ConfigStore, wizard Wizard, sender Sender, prompter Prompter, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:     cs,
		wizard:    wizard,
		sender:    sender,
		prompter:  prompter,
		logger:    logger,
		interrupt: NotifyInterrupt,
	}
}

// SetInterrupt replaces the interrupt hook installed around the exchange.
// Signals keep their default disposition while prompts are read.
func (a *App) SetInterrupt(fn InterruptFunc) {
	if fn != nil {
		a.interrupt = fn
	}
}

// Run loads or bootstraps the record, reads one query line and sends it.
func (a *App) Run(ctx context.Context) error {
	rec, state, err := a.Bootstrap()
	if err != nil {
		return err
	}
	a.logger.Debug("config ready", zap.Stringer("state", state), zap.String("model", rec.Model))

	line, err := a.prompter.Prompt(QueryPrompt)
	if err != nil {
		return fmt.Errorf("failed to read query: %w", err)
	}

	ctx, stop := a.interrupt(ctx)
	defer stop()
	if _, err := a.sender.Send(ctx, rec, strings.TrimSpace(line)); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

// Setup runs the wizard and overwrites the config file, without a query.
func (a *App) Setup() error {
	if !a.store.Exists() {
		if err := a.store.Create(); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}
	_, err := a.setupAndSave()
	return err
}

// Bootstrap returns a usable record, running setup when the config file is
// missing, empty or malformed. Any other load failure is returned.
func (a *App) Bootstrap() (store.Record, State, error) {
	if !a.store.Exists() {
		return a.bootstrapMissing()
	}

	rec, err := a.store.Load()
	if err == nil {
		return rec, StateLoaded, nil
	}
	if !store.Recoverable(err) {
		return store.Record{}, StateLoaded, fmt.Errorf("failed to load config: %w", err)
	}

	var state State
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Removed between the existence check and the read.
		return a.bootstrapMissing()
	case errors.Is(err, store.ErrEmpty):
		state = StateEmpty
	default:
		state = StateMalformed
	}
	a.logger.Info("config file unusable, running setup", zap.Stringer("state", state), zap.Error(err))
	rec, err = a.setupAndSave()
	return rec, state, err
}

func (a *App) bootstrapMissing() (store.Record, State, error) {
	a.logger.Info("config file not found, creating it")
	if err := a.store.Create(); err != nil {
		return store.Record{}, StateMissing, fmt.Errorf("failed to create config file: %w", err)
	}
	rec, err := a.setupAndSave()
	return rec, StateMissing, err
}

func (a *App) setupAndSave() (store.Record, error) {
	rec, err := a.wizard.Run()
	if err != nil {
		return store.Record{}, fmt.Errorf("setup failed: %w", err)
	}
	if err := a.store.Save(rec); err != nil {
		return store.Record{}, fmt.Errorf("failed to save config: %w", err)
	}
	return rec, nil
}
