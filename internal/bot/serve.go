package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

// Handler serves an agent to engines that connect over a websocket. Each
// connection is one seat; requests on it are answered in order.
type Handler struct {
	agent    game.Agent
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler wraps agent as a websocket endpoint.
func NewHandler(agent game.Agent, logger *log.Logger) *Handler {
	return &Handler{
		agent:  agent,
		logger: logger.WithPrefix("agent-server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(maxMessageSize)

	logger := h.logger.With("remote", r.RemoteAddr)
	ctx := r.Context()
	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("WebSocket error", "error", err)
			}
			return
		}

		reply, err := h.handle(ctx, logger, &msg)
		if err != nil {
			logger.Warn("Request failed", "type", msg.Type, "error", err)
			reply, _ = protocol.NewMessage(protocol.TypeError, protocol.Error{Code: "bad_request", Message: err.Error()})
		}
		if reply == nil {
			continue
		}
		reply.RequestID = msg.RequestID
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			logger.Error("Failed to write message", "error", err)
			return
		}
	}
}

// handle processes one message and returns the reply, if any.
func (h *Handler) handle(ctx context.Context, logger *log.Logger, msg *protocol.Message) (*protocol.Message, error) {
	switch msg.Type {
	case protocol.TypeHello:
		var hello protocol.Hello
		if err := msg.Decode(protocol.TypeHello, &hello); err != nil {
			return nil, err
		}
		logger.Info("Engine connected", "seat", hello.Seat)
		return nil, nil

	case protocol.TypeDecisionRequest:
		var req protocol.DecisionRequest
		if err := msg.Decode(protocol.TypeDecisionRequest, &req); err != nil {
			return nil, err
		}
		view, err := viewFromRequest(req)
		if err != nil {
			return nil, err
		}
		if req.TimeoutMs > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
			defer cancel()
		}
		action, err := h.agent.Decide(ctx, view)
		if err != nil {
			return nil, err
		}
		return protocol.NewMessage(protocol.TypeDecision, decisionFromAction(action))

	case protocol.TypeFeedback:
		var wire protocol.Feedback
		if err := msg.Decode(protocol.TypeFeedback, &wire); err != nil {
			return nil, err
		}
		fr, ok := h.agent.(game.FeedbackReceiver)
		if !ok {
			return nil, nil
		}
		fb, err := feedbackFromWire(wire)
		if err != nil {
			return nil, err
		}
		if err := fr.Feedback(ctx, fb); err != nil {
			logger.Warn("Feedback handler failed", "error", err)
		}
		return nil, nil
	}

	logger.Debug("Ignoring message", "type", msg.Type)
	return nil, nil
}
