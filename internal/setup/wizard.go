// Package setup implements the interactive first-run setup that asks for an
// API key and a model. The wizard only produces a record; callers decide
// whether and where to persist it.
package setup

import (
	"fmt"
	"strconv"
	"strings"

	"groqask/internal/console"
	"groqask/internal/store"

	"go.uber.org/zap"
)

// BearerPrefix is the authorization scheme stored in front of the key.
const BearerPrefix = "Bearer "

const menuRule = "-------------------------------------------------"

// Model is one entry of the selection menu.
type Model struct {
	Label string
	ID    string
}

// Models is the fixed selection menu, in display order.
var Models = []Model{
	{Label: "LLaMA3 8b", ID: "llama3-8b-8192"},
	{Label: "Mixtral 8x7b", ID: "mixtral-8x7b-32768"},
	{Label: "LLaMA3 70b", ID: "llama3-70b-8192"},
	{Label: "Gemma 7b", ID: "gemma-7b-it"},
}

// ModelForChoice maps a menu answer ("1".."4") to its model ID. The answer is
// trimmed but otherwise matched exactly, so "01" or "+1" are rejected.
func ModelForChoice(choice string) (string, bool) {
	choice = strings.TrimSpace(choice)
	for i, m := range Models {
		if choice == strconv.Itoa(i+1) {
			return m.ID, true
		}
	}
	return "", false
}

// WithBearer trims key and prefixes it with the bearer scheme exactly once.
func WithBearer(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= len(BearerPrefix) && strings.EqualFold(key[:len(BearerPrefix)], BearerPrefix) {
		key = strings.TrimSpace(key[len(BearerPrefix):])
	}
	return BearerPrefix + key
}

// Wizard prompts for the values of a store.Record.
type Wizard struct {
	console *console.Console
	logger  *zap.Logger
}

// New returns a Wizard reading from c.
func New(c *console.Console, logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{console: c, logger: logger}
}

// Run asks for the API key, then loops on the model menu until a valid choice
// is entered. It returns an error only when input cannot be read.
func (w *Wizard) Run() (store.Record, error) {
	w.console.Println(w.console.Heading("Initializing setup"))

	key, err := w.console.PromptSecret("Enter your Api Key: ")
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to read api key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		w.logger.Warn("empty api key entered")
	}

	model, err := w.selectModel()
	if err != nil {
		return store.Record{}, err
	}

	w.logger.Info("setup completed", zap.String("model", model))
	return store.Record{APIKey: WithBearer(key), Model: model}, nil
}

func (w *Wizard) selectModel() (string, error) {
	for attempt := 1; ; attempt++ {
		w.console.Println(w.console.Muted(menuRule))
		for i, m := range Models {
			w.console.Printf("  %d : %s\n", i+1, m.Label)
		}

		answer, err := w.console.Prompt("  Select your model: ")
		if err != nil {
			return "", fmt.Errorf("failed to read model choice: %w", err)
		}
		if id, ok := ModelForChoice(answer); ok {
			return id, nil
		}

		w.logger.Debug("invalid model choice", zap.String("input", answer), zap.Int("attempt", attempt))
		w.console.Println(w.console.Warning(fmt.Sprintf("Enter an option between 1-%d", len(Models))))
	}
}
