package game

// Hand is the cards held by one party, in the order they were dealt.
type Hand []Card

// With returns a new hand with cards appended. The receiver is left alone.
func (h Hand) With(cards ...Card) Hand {
	out := make(Hand, 0, len(h)+len(cards))
	out = append(out, h...)
	return append(out, cards...)
}

func (h Hand) Score() int {
	return CalculateScore(h)
}

func CalculateScore(hand []Card) int {
	score := 0
	aces := 0

	for _, card := range hand {
		score += CardValues[card.Rank]
		if card.Rank == Ace {
			aces++
		}
	}

	// demote soft aces one at a time
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

func IsBust(cards []Card) bool {
	return CalculateScore(cards) > 21
}
