package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Spades},
				{Rank: Queen, Suit: Spades},
				{Rank: Jack, Suit: Spades},
				{Rank: Ten, Suit: Spades},
			},
		},
		{
			name:  "case insensitive with spaces",
			input: "as KH qD jc",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
				{Rank: Jack, Suit: Clubs},
			},
		},
		{
			name:     "ten as 10",
			input:    "10h9d",
			expected: []Card{{Rank: Ten, Suit: Hearts}, {Rank: Nine, Suit: Diamonds}},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardFormatting(t *testing.T) {
	t.Parallel()

	c := NewCard(Ace, Spades)
	assert.Equal(t, "A♠", c.String())
	assert.Equal(t, "As", c.Compact())
	assert.Equal(t, "AsTd", CompactCards(MustParseCards("AsTd")))
	assert.Equal(t, "A♠ T♦", FormatCards(MustParseCards("AsTd")))

	parsed, err := ParseCard("Td")
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: Ten, Suit: Diamonds}, parsed)

	_, err = ParseCard("TdAs")
	assert.Error(t, err)
}

func TestStartingHandKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AKs", StartingHandKey(MustParseCards("KhAh")))
	assert.Equal(t, "72o", StartingHandKey(MustParseCards("2c7d")))
	assert.Equal(t, "TT", StartingHandKey(MustParseCards("TsTd")))
	assert.Equal(t, 1.0, HandPercentile(MustParseCards("AsAd")))
	assert.Equal(t, 0.0, HandPercentile(MustParseCards("7s2d")))
	assert.Greater(t, HandPercentile(MustParseCards("AsKs")), HandPercentile(MustParseCards("AsKd")))
}

func TestStartingHandChartCoversEveryHand(t *testing.T) {
	t.Parallel()

	require.Len(t, startingHands(), 169, "duplicate entries in the chart")
	cards := Standard()
	for i, a := range cards {
		for _, b := range cards[i+1:] {
			key := StartingHandKey([]Card{a, b})
			_, ok := startingHands()[key]
			assert.True(t, ok, "missing %s", key)
		}
	}
}
