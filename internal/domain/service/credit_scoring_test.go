package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iprofitlabs/lending-service/internal/domain/service"
)

func TestWeightedScorerScore(t *testing.T) {
	scorer := service.NewWeightedScorer()

	t.Run("adds up the weighted components", func(t *testing.T) {
		// 300 floor + 270 history + 8 income + 8 balance
		// + 12 stability + 30 age - 2 obligations = 626.
		score := scorer.Score(service.ScoreInput{
			MonthlyIncome:             decimal.NewFromInt(8000),
			BankBalance:               decimal.NewFromInt(20000),
			ExistingLoans:             decimal.NewFromInt(1000),
			EmploymentStabilityMonths: 24,
			PaymentHistory:            90,
			Age:                       35,
		})
		assert.Equal(t, 626, score)
	})

	t.Run("is deterministic", func(t *testing.T) {
		in := service.ScoreInput{
			MonthlyIncome:  decimal.NewFromInt(5000),
			PaymentHistory: 70,
			Age:            40,
		}
		assert.Equal(t, scorer.Score(in), scorer.Score(in))
	})

	t.Run("clamps to the ceiling", func(t *testing.T) {
		score := scorer.Score(service.ScoreInput{
			MonthlyIncome:             decimal.NewFromInt(500_000),
			BankBalance:               decimal.NewFromInt(1_000_000),
			EmploymentStabilityMonths: 240,
			PaymentHistory:            100,
			Age:                       45,
		})
		assert.Equal(t, 850, score)
	})

	t.Run("never drops below the floor", func(t *testing.T) {
		score := scorer.Score(service.ScoreInput{
			ExistingLoans:  decimal.NewFromInt(1_000_000),
			PaymentHistory: 0,
			Age:            19,
		})
		assert.Equal(t, 300, score)
	})

	t.Run("ignores out-of-range history", func(t *testing.T) {
		over := scorer.Score(service.ScoreInput{PaymentHistory: 150, Age: 30})
		exact := scorer.Score(service.ScoreInput{PaymentHistory: 100, Age: 30})
		assert.Equal(t, exact, over)
	})
}
