package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/holdem/internal/deck"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/protocol"
)

func compactList(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Compact()
	}
	return out
}

func parseList(cards []string) ([]deck.Card, error) {
	return deck.ParseCards(strings.Join(cards, ""))
}

func playersFromSeats(seats []game.SeatView) []protocol.Player {
	out := make([]protocol.Player, len(seats))
	for i, s := range seats {
		out[i] = protocol.Player(s)
	}
	return out
}

func seatsFromPlayers(players []protocol.Player) []game.SeatView {
	out := make([]game.SeatView, len(players))
	for i, p := range players {
		out[i] = game.SeatView(p)
	}
	return out
}

// requestFromView encodes the acting seat's view for the wire.
func requestFromView(view game.TableView, timeout time.Duration) protocol.DecisionRequest {
	return protocol.DecisionRequest{
		HandID:    view.HandID,
		Street:    view.Street.String(),
		Community: compactList(view.Community),
		Hole:      compactList(view.Hole),
		Pot:       view.Pot,
		TableBet:  view.TableBet,
		MinRaise:  view.MinRaise,
		BigBlind:  view.BigBlind,
		Owed:      view.Owed(),
		CanRaise:  view.CanRaise,
		Acting:    view.Acting,
		Players:   playersFromSeats(view.Seats),
		TimeoutMs: timeout.Milliseconds(),
	}
}

// viewFromRequest decodes a request back into a table view.
func viewFromRequest(req protocol.DecisionRequest) (game.TableView, error) {
	street, err := game.ParseStreet(req.Street)
	if err != nil {
		return game.TableView{}, err
	}
	community, err := parseList(req.Community)
	if err != nil {
		return game.TableView{}, fmt.Errorf("community: %w", err)
	}
	hole, err := parseList(req.Hole)
	if err != nil {
		return game.TableView{}, fmt.Errorf("hole: %w", err)
	}
	if req.Acting < 0 || req.Acting >= len(req.Players) {
		return game.TableView{}, fmt.Errorf("acting seat %d out of range", req.Acting)
	}
	return game.TableView{
		HandID:    req.HandID,
		Street:    street,
		Community: community,
		Pot:       req.Pot,
		TableBet:  req.TableBet,
		MinRaise:  req.MinRaise,
		BigBlind:  req.BigBlind,
		Seats:     seatsFromPlayers(req.Players),
		Acting:    req.Acting,
		Hole:      hole,
		CanRaise:  req.CanRaise,
	}, nil
}

// actionFromDecision interprets a wire decision against the view it
// answers. A delta takes precedence over a named action.
func actionFromDecision(d protocol.Decision, view game.TableView) (game.Action, error) {
	if d.Delta != nil {
		return game.ActionFromDelta(*d.Delta, view)
	}
	kind, err := game.ParseActionKind(d.Action)
	if err != nil {
		return game.Action{}, err
	}
	if kind == game.Raise {
		return game.RaiseTo(d.Amount), nil
	}
	return game.Action{Kind: kind}, nil
}

func decisionFromAction(a game.Action) protocol.Decision {
	d := protocol.Decision{Action: a.Kind.String()}
	if a.Kind == game.AllIn {
		d.Action = "allin"
	}
	if a.Kind == game.Raise {
		d.Amount = a.To
	}
	return d
}

func feedbackToWire(fb game.Feedback) protocol.Feedback {
	return protocol.Feedback{
		HandID:  fb.HandID,
		Players: fb.Players,
		Winners: fb.Winners,
		Board:   compactList(fb.Board),
		Seats:   playersFromSeats(fb.Seats),
		Net:     fb.Net,
	}
}

func feedbackFromWire(fb protocol.Feedback) (game.Feedback, error) {
	board, err := parseList(fb.Board)
	if err != nil {
		return game.Feedback{}, fmt.Errorf("board: %w", err)
	}
	return game.Feedback{
		HandID:  fb.HandID,
		Players: fb.Players,
		Winners: fb.Winners,
		Seats:   seatsFromPlayers(fb.Seats),
		Board:   board,
		Net:     fb.Net,
	}, nil
}
