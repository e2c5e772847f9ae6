// Package chat sends a single query to an OpenAI-compatible chat-completion
// endpoint and prints the reply.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"groqask/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEndpoint is the Groq chat-completion URL.
const DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// Divider is printed before every choice of a completion.
const Divider = "-----------------------------------------------------------------------------------"

// ParseFailureNotice is printed when a body is neither a completion nor an API error.
const ParseFailureNotice = "Could not parse error response"

var (
	// ErrTransport wraps network-level failures of the exchange.
	ErrTransport = errors.New("chat transport error")
	// ErrEncode wraps request serialization failures.
	ErrEncode = errors.New("chat request encoding error")
)

// Doer performs one HTTP exchange. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Renderer transforms reply content before printing.
// *glamour.TermRenderer satisfies it.
type Renderer interface {
	Render(in string) (string, error)
}

// Client posts queries to one endpoint and prints replies to out.
type Client struct {
	endpoint string
	doer     Doer
	out      io.Writer
	renderer Renderer
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRenderer renders every completion content through r.
func WithRenderer(r Renderer) Option {
	return func(c *Client) { c.renderer = r }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a Client for endpoint. A nil doer uses NewHTTPClient(0).
func NewClient(endpoint string, doer Doer, out io.Writer, opts ...Option) *Client {
	if doer == nil {
		doer = NewHTTPClient(0)
	}
	c := &Client{
		endpoint: endpoint,
		doer:     doer,
		out:      out,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns the production transport. A zero timeout means 60s.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewMarkdownRenderer returns a terminal markdown renderer wrapping at width.
func NewMarkdownRenderer(width int) (Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r, nil
}

// Send posts query with rec's credential and model, then prints the decoded
// reply. Only request encoding and transport failures are returned; a body
// that is not a completion is reported on out and Send still succeeds.
func (c *Client) Send(ctx context.Context, rec store.Record, query string) (Reply, error) {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", requestID), zap.String("model", rec.Model))

	payload, err := json.Marshal(NewRequest(rec.Model, query))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", rec.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	log.Debug("sending chat request", zap.String("endpoint", c.endpoint), zap.Int("query_len", len(query)))

	resp, err := c.doer.Do(req)
	if err != nil {
		log.Debug("chat request failed", zap.Error(err))
		return Reply{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("failed to read chat response", zap.Error(err))
		return Reply{}, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	reply := DecodeReply(body)
	log.Info("chat response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Stringer("kind", reply.Kind),
		zap.Int("body_len", len(body)))
	if reply.Kind == KindUnparseable {
		log.Debug("unrecognized response body", zap.String("body", preview(body, 200)))
	}

	c.print(reply, log)
	return reply, nil
}

func (c *Client) print(reply Reply, log *zap.Logger) {
	switch reply.Kind {
	case KindCompletion:
		for _, content := range reply.Contents {
			fmt.Fprintln(c.out, Divider)
			fmt.Fprintln(c.out, c.render(content, log))
		}
	case KindAPIError:
		fmt.Fprintf(c.out, "Error message: %s\n", reply.ErrorMessage)
	default:
		fmt.Fprintln(c.out, ParseFailureNotice)
	}
}

func (c *Client) render(content string, log *zap.Logger) string {
	if c.renderer == nil {
		return content
	}
	out, err := c.renderer.Render(content)
	if err != nil {
		log.Warn("markdown rendering failed, printing raw content", zap.Error(err))
		return content
	}
	return strings.Trim(out, "\n")
}
