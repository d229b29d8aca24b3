package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributionMethodIsValid(t *testing.T) {
	tests := []struct {
		name   string
		method DistributionMethod
		valid  bool
	}{
		{"card-deal", DistributionCardDeal, true},
		{"sequential", DistributionSequential, true},
		{"custom", DistributionCustom, true},
		{"invalid", DistributionMethod("invalid"), false},
		{"empty", DistributionMethod(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.method.IsValid())
		})
	}
}

func TestResponseStrategyIsValid(t *testing.T) {
	tests := []struct {
		name     string
		strategy ResponseStrategy
		valid    bool
	}{
		{"repeat", ResponseRepeat, true},
		{"breakdown", ResponseBreakdown, true},
		{"alternate", ResponseAlternate, true},
		{"invalid", ResponseStrategy("invalid"), false},
		{"empty", ResponseStrategy(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.strategy.IsValid())
		})
	}
}
