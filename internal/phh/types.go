// Package phh exports hands in the Poker Hand History format, a TOML
// document with one action string per event.
package phh

// Variant is the PHH code for no-limit Texas Hold'em.
const Variant = "NT"

// HandHistory is a single hand in PHH form. Per-player arrays are in seat
// order, with players named p1, p2, ... in the action strings.
type HandHistory struct {
	Variant           string   `toml:"variant"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	MinBet            int      `toml:"min_bet"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks"`
	Winnings          []int    `toml:"winnings"`
	Actions           []string `toml:"actions"`
	Players           []string `toml:"players"`
	HandID            string   `toml:"hand"`
	Table             string   `toml:"table,omitempty"`
}
