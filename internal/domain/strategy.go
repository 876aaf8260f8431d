package domain

import "fmt"

// Strategy names the prioritization algorithm the scoring service applies.
// The client forwards it without interpreting it.
type Strategy string

const (
	StrategyFastestWins    Strategy = "fastest_wins"
	StrategyHighImpact     Strategy = "high_impact"
	StrategyDeadlineDriven Strategy = "deadline_driven"
	StrategySmartBalance   Strategy = "smart_balance"

	DefaultStrategy = StrategySmartBalance
)

var Strategies = []Strategy{
	StrategyFastestWins,
	StrategyHighImpact,
	StrategyDeadlineDriven,
	StrategySmartBalance,
}

// ParseStrategy accepts one of the recognised strategy names.
func ParseStrategy(s string) (Strategy, error) {
	for _, known := range Strategies {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
