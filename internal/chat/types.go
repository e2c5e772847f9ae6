package chat

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Message is one entry of a chat-completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completion request body.
type Request struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

// NewRequest builds a single-turn request carrying query as the user message.
func NewRequest(model, query string) Request {
	return Request{
		Messages: []Message{{Role: "user", Content: query}},
		Model:    model,
	}
}

// Response is the success shape of a chat-completion reply. Fields are
// pointers so an absent field can be told apart from an empty one.
type Response struct {
	Choices *[]Choice `json:"choices"`
}

// Choice is one completion alternative.
type Choice struct {
	Message *ChoiceMessage `json:"message"`
}

// ChoiceMessage is the assistant message inside a Choice.
type ChoiceMessage struct {
	Content *string `json:"content"`
}

// ReplyKind tags which shape a response body decoded into.
type ReplyKind int

const (
	// KindCompletion is a success body; Contents holds each choice in order.
	KindCompletion ReplyKind = iota
	// KindAPIError is a body carrying error.message.
	KindAPIError
	// KindUnparseable is anything else.
	KindUnparseable
)

func (k ReplyKind) String() string {
	switch k {
	case KindCompletion:
		return "completion"
	case KindAPIError:
		return "api_error"
	default:
		return "unparseable"
	}
}

// Reply is a decoded response body. Exactly one of Contents or ErrorMessage is
// meaningful, selected by Kind.
type Reply struct {
	Kind         ReplyKind
	Contents     []string
	ErrorMessage string
}

// DecodeReply classifies body as a completion, an API error or neither.
//
// A completion requires a "choices" array whose every element has a string
// message.content; an empty array is still a completion with no contents.
func DecodeReply(body []byte) Reply {
	if contents, ok := decodeCompletion(body); ok {
		return Reply{Kind: KindCompletion, Contents: contents}
	}
	if msg, ok := decodeAPIError(body); ok {
		return Reply{Kind: KindAPIError, ErrorMessage: msg}
	}
	return Reply{Kind: KindUnparseable}
}

func decodeCompletion(body []byte) ([]string, bool) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil || resp.Choices == nil {
		return nil, false
	}

	contents := make([]string, 0, len(*resp.Choices))
	for _, choice := range *resp.Choices {
		if choice.Message == nil || choice.Message.Content == nil {
			return nil, false
		}
		contents = append(contents, *choice.Message.Content)
	}
	return contents, true
}

func decodeAPIError(body []byte) (string, bool) {
	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return "", false
	}
	obj, ok := generic.(map[string]any)
	if !ok {
		return "", false
	}
	errObj, ok := obj["error"].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := errObj["message"].(string)
	if !ok {
		return "", false
	}
	return msg, true
}

// preview shortens body for log fields without splitting a UTF-8 sequence.
func preview(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
