package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/vango-dev/markview/internal/errors"
	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/markdown"
	"github.com/vango-dev/markview/pkg/render"
)

// MessageType is the type of a preview message.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessagePatch    MessageType = "patch"
	MessageRender   MessageType = "render"
	MessageError    MessageType = "error"
)

// ClientMessage is sent by the browser or editor.
type ClientMessage struct {
	Type  MessageType     `json:"type"`
	Doc   json.RawMessage `json:"doc,omitempty"`
	Patch json.RawMessage `json:"patch,omitempty"`
}

// ServerMessage is the reply to a ClientMessage.
type ServerMessage struct {
	Type     MessageType `json:"type"`
	HTML     string      `json:"html,omitempty"`
	Rendered int         `json:"rendered"`
	Skipped  int         `json:"skipped"`
	Code     string      `json:"code,omitempty"`
	Error    string      `json:"error,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// Session is the document state of one connection.
type Session struct {
	renderer *markdown.Renderer
	html     *render.Renderer
	doc      []byte
}

// NewSession creates a session rendering through renderer.
func NewSession(renderer *markdown.Renderer, html *render.Renderer) *Session {
	return &Session{renderer: renderer, html: html}
}

// Handle applies one raw client message and returns the reply.
func (s *Session) Handle(ctx context.Context, data []byte) ServerMessage {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage(errors.New("E130").Wrap(err))
	}

	var doc []byte
	switch msg.Type {
	case MessageSnapshot:
		if len(msg.Doc) == 0 {
			return errorMessage(errors.New("E130").WithDetail("Snapshot message has no doc."))
		}
		doc = msg.Doc
	case MessagePatch:
		if s.doc == nil {
			return errorMessage(errors.New("E131").WithDetail("Patch received before any snapshot."))
		}
		patch, err := jsonpatch.DecodePatch(msg.Patch)
		if err != nil {
			return errorMessage(errors.New("E131").Wrap(err))
		}
		doc, err = patch.Apply(s.doc)
		if err != nil {
			return errorMessage(errors.New("E131").Wrap(err))
		}
	default:
		return errorMessage(errors.New("E130").
			WithDetail("Unknown message type " + string(msg.Type) + "."))
	}

	root, err := hast.Parse(doc, string(msg.Type))
	if err != nil {
		return errorMessage(err)
	}
	reply := s.Render(ctx, root)
	if reply.Type == MessageRender {
		s.doc = doc
	}
	return reply
}

// Render renders root and builds the reply. It does not change the snapshot.
func (s *Session) Render(ctx context.Context, root *hast.Node) ServerMessage {
	out, stats, err := s.renderer.Render(ctx, root)
	if err != nil {
		return errorMessage(err)
	}
	html, err := s.html.RenderToString(out)
	if err != nil {
		return errorMessage(err)
	}
	return ServerMessage{
		Type:     MessageRender,
		HTML:     html,
		Rendered: stats.Rendered,
		Skipped:  stats.Skipped,
	}
}

// Replace renders root and makes it the new snapshot.
func (s *Session) Replace(ctx context.Context, root *hast.Node) ServerMessage {
	doc, err := json.Marshal(root)
	if err != nil {
		return errorMessage(err)
	}
	reply := s.Render(ctx, root)
	if reply.Type == MessageRender {
		s.doc = doc
	}
	return reply
}

func errorMessage(err error) ServerMessage {
	msg := ServerMessage{Type: MessageError, Error: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		msg.Code = e.Code
		msg.Detail = e.Detail
	}
	return msg
}
