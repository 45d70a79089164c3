package service

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CreditScoringEngine – pluggable, pure scoring strategy
// ---------------------------------------------------------------------------

// ScoreInput carries the applicant financial attributes used for scoring.
type ScoreInput struct {
	MonthlyIncome             decimal.Decimal
	BankBalance               decimal.Decimal
	ExistingLoans             decimal.Decimal
	EmploymentStabilityMonths int
	PaymentHistory            int // 0..100
	Age                       int
}

// CreditScorer computes a credit score from applicant attributes. The formula
// is a swappable strategy; downstream eligibility only interprets the score
// magnitude against fixed thresholds. Implementations must be pure and
// deterministic: no I/O, same inputs always yield the same score.
type CreditScorer interface {
	Score(in ScoreInput) int
}

const (
	scoreFloor   = 300
	scoreCeiling = 850
)

// WeightedScorer is the default additive scoring formula. Payment history
// dominates, with income, employment stability, liquid savings and age
// contributing smaller bands; existing obligations subtract.
type WeightedScorer struct{}

// NewWeightedScorer returns the default scoring strategy.
func NewWeightedScorer() *WeightedScorer {
	return &WeightedScorer{}
}

// Score maps applicant attributes onto [300, 850].
func (s *WeightedScorer) Score(in ScoreInput) int {
	score := scoreFloor

	// Payment history 0..100 contributes up to 300 points.
	history := in.PaymentHistory
	if history < 0 {
		history = 0
	}
	if history > 100 {
		history = 100
	}
	score += history * 3

	// One point per 1,000 of monthly income, capped at 120.
	score += capInt(int(in.MonthlyIncome.Div(decimal.NewFromInt(1_000)).IntPart()), 120)

	// One point per 2,500 of bank balance, capped at 60.
	score += capInt(int(in.BankBalance.Div(decimal.NewFromInt(2_500)).IntPart()), 60)

	// Half a point per month in the current job, capped at 60.
	score += capInt(in.EmploymentStabilityMonths/2, 60)

	// Prime working-age band gets a small bump.
	switch {
	case in.Age >= 25 && in.Age <= 60:
		score += 30
	case in.Age >= 21 && in.Age < 25:
		score += 15
	}

	// One point off per 500 of existing monthly obligations, capped at 90.
	score -= capInt(int(in.ExistingLoans.Div(decimal.NewFromInt(500)).IntPart()), 90)

	if score < scoreFloor {
		return scoreFloor
	}
	if score > scoreCeiling {
		return scoreCeiling
	}
	return score
}

func capInt(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
