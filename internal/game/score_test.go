package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name     string
		hand     []string
		expected int
	}{
		{name: "empty hand", hand: nil, expected: 0},
		{name: "soft blackjack", hand: []string{"AS", "KH"}, expected: 21},
		{name: "one ace demoted", hand: []string{"AS", "AH", "9D"}, expected: 21},
		{name: "hard bust", hand: []string{"KS", "QH", "2D"}, expected: 22},
		{name: "pair of aces", hand: []string{"AS", "AH"}, expected: 12},
		{name: "four aces", hand: []string{"AS", "AH", "AD", "AC"}, expected: 14},
		{name: "ace demoted after hit", hand: []string{"AS", "6H", "9D"}, expected: 16},
		{name: "numerals at face value", hand: []string{"2S", "3H", "10D"}, expected: 15},
		{name: "faces count ten", hand: []string{"JS", "QH"}, expected: 20},
		{name: "soft seventeen", hand: []string{"AS", "6H"}, expected: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateScore(cardsOf(tt.hand...)))
		})
	}
}

func TestCalculateScoreIgnoresOrder(t *testing.T) {
	hands := [][]string{
		{"AS", "AH", "9D"},
		{"AS", "6H", "9D", "AC"},
		{"KS", "QH", "2D"},
		{"2S", "AH", "3D", "AC", "5S", "KH"},
	}

	rng := rand.New(rand.NewSource(7))
	for _, codes := range hands {
		hand := cardsOf(codes...)
		want := CalculateScore(hand)
		for i := 0; i < 20; i++ {
			shuffled := Hand(hand).With()
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			assert.Equal(t, want, shuffled.Score(), "hand %v", shuffled)
		}
	}
}

func TestIsBust(t *testing.T) {
	assert.False(t, IsBust(cardsOf("KS", "QH")))
	assert.True(t, IsBust(cardsOf("KS", "QH", "2D")))
	assert.False(t, IsBust(cardsOf("KS", "QH", "AD")))
}

func TestHandWithDoesNotAlias(t *testing.T) {
	base := make(Hand, 0, 8)
	base = append(base, cardsOf("2S")...)

	a := base.With(cardsOf("3H")...)
	b := base.With(cardsOf("4D")...)

	assert.Len(t, base, 1)
	assert.Equal(t, Three, a[1].Rank)
	assert.Equal(t, Four, b[1].Rank)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", cardsOf("AS")[0].String())
	assert.Equal(t, "10♥", cardsOf("10H")[0].String())
	assert.Equal(t, "K?", Card{Rank: King}.String())
}
