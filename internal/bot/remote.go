package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// ErrConnectionClosed is returned once the remote agent's connection is gone.
var ErrConnectionClosed = errors.New("remote agent connection closed")

// RemoteAgent plays a seat through an agent process reached over a
// websocket. Each decision is a request/response pair correlated by request
// ID; answers to abandoned requests are discarded.
type RemoteAgent struct {
	seat    string
	conn    *websocket.Conn
	logger  *log.Logger
	timeout time.Duration

	writeMu sync.Mutex
	nextID  atomic.Uint64
	replies chan *protocol.Message
	done    chan struct{}

	closeOnce sync.Once
	readErr   error
}

// RemoteOption configures a RemoteAgent.
type RemoteOption func(*RemoteAgent)

// WithAdvertisedTimeout tells the agent how long the engine will wait for
// each decision.
func WithAdvertisedTimeout(d time.Duration) RemoteOption {
	return func(r *RemoteAgent) { r.timeout = d }
}

// DialRemote connects to a remote agent at url and introduces the seat.
func DialRemote(ctx context.Context, url, seat string, logger *log.Logger, opts ...RemoteOption) (*RemoteAgent, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	conn.SetReadLimit(maxMessageSize)

	r := &RemoteAgent{
		seat:    seat,
		conn:    conn,
		logger:  logger.WithPrefix("remote").With("seat", seat, "url", url),
		replies: make(chan *protocol.Message, 16),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.send(protocol.TypeHello, "", protocol.Hello{Seat: seat}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	go r.readPump()
	r.logger.Info("Connected to remote agent")
	return r, nil
}

// readPump delivers decision replies until the connection fails.
func (r *RemoteAgent) readPump() {
	defer r.closeDone()
	for {
		var msg protocol.Message
		if err := r.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				r.logger.Error("WebSocket error", "error", err)
			}
			r.readErr = err
			return
		}
		switch msg.Type {
		case protocol.TypeDecision, protocol.TypeError:
			select {
			case r.replies <- &msg:
			default:
				r.logger.Warn("Dropping reply, buffer full", "requestId", msg.RequestID)
			}
		default:
			r.logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

func (r *RemoteAgent) closeDone() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *RemoteAgent) send(t protocol.MessageType, requestID string, data any) error {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}
	msg.RequestID = requestID

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	_ = r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := r.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", t, err)
	}
	return nil
}

// Decide sends the view to the remote agent and waits for its answer.
func (r *RemoteAgent) Decide(ctx context.Context, view game.TableView) (game.Action, error) {
	id := fmt.Sprintf("%s-%d", r.seat, r.nextID.Add(1))
	if err := r.send(protocol.TypeDecisionRequest, id, requestFromView(view, r.timeout)); err != nil {
		return game.Action{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return game.Action{}, ctx.Err()
		case <-r.done:
			if r.readErr != nil {
				return game.Action{}, fmt.Errorf("%w: %v", ErrConnectionClosed, r.readErr)
			}
			return game.Action{}, ErrConnectionClosed
		case msg := <-r.replies:
			if msg.RequestID != id {
				r.logger.Debug("Discarding stale reply", "requestId", msg.RequestID, "want", id)
				continue
			}
			if msg.Type == protocol.TypeError {
				var e protocol.Error
				if err := msg.Decode(protocol.TypeError, &e); err != nil {
					return game.Action{}, err
				}
				return game.Action{}, e
			}
			var d protocol.Decision
			if err := msg.Decode(protocol.TypeDecision, &d); err != nil {
				return game.Action{}, err
			}
			r.logger.Debug("Remote decision", "requestId", id, "action", d.Action, "amount", d.Amount, "reasoning", d.Reasoning)
			return actionFromDecision(d, view)
		}
	}
}

// Feedback forwards the hand result to the remote agent.
func (r *RemoteAgent) Feedback(_ context.Context, fb game.Feedback) error {
	return r.send(protocol.TypeFeedback, "", feedbackToWire(fb))
}

// Close ends the session with a normal close frame.
func (r *RemoteAgent) Close() error {
	r.writeMu.Lock()
	_ = r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	r.writeMu.Unlock()
	return r.conn.Close()
}
