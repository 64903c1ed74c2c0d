package models

// FlipResult represents the outcome of a coin flip (returned to the user)
type FlipResult struct {
	Key        MessageKey
	Heads      bool
	Wager      int64
	NewBalance int64
}

// BlackjackResult describes a hand after a start, hit or stand.
// Delta and NewBalance are only meaningful once the hand is Resolved.
type BlackjackResult struct {
	Key         MessageKey
	Cards       []int
	Total       int
	DealerTotal int
	Wager       int64
	Outcome     string
	Resolved    bool
	Delta       int64
	NewBalance  int64
}

// RollResult represents an unwagered dice roll
type RollResult struct {
	Sides    int
	Rolled   int
	Modifier int
	Total    int
}
