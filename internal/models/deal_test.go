package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDealStatusIsValid(t *testing.T) {
	valid := []DealStatus{
		DealStatusLead, DealStatusQualified, DealStatusProposal,
		DealStatusNegotiation, DealStatusWon, DealStatusLost,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	invalid := []DealStatus{"", "WON", "closed", "pending", "Won "}
	for _, s := range invalid {
		assert.False(t, s.IsValid(), "expected %q to be invalid", s)
	}
}

func TestIsWonEntry(t *testing.T) {
	all := []DealStatus{
		DealStatusLead, DealStatusQualified, DealStatusProposal,
		DealStatusNegotiation, DealStatusWon, DealStatusLost,
	}

	for _, old := range all {
		for _, new := range all {
			got := IsWonEntry(old, new)
			want := new == DealStatusWon && old != DealStatusWon
			assert.Equal(t, want, got, "IsWonEntry(%s, %s)", old, new)
		}
	}

	// The two cases that matter most, spelled out:
	assert.True(t, IsWonEntry(DealStatusNegotiation, DealStatusWon))
	assert.False(t, IsWonEntry(DealStatusWon, DealStatusWon))
	// Re-winning after a lost detour is a won entry again; the project
	// uniqueness backstop lives in the store, not here.
	assert.True(t, IsWonEntry(DealStatusLost, DealStatusWon))
}

func TestDeriveFinancials(t *testing.T) {
	tests := []struct {
		name           string
		dealValue      float64
		commissionPct  float64
		wantCommission float64
		wantFee        float64
	}{
		{"default twenty percent", 10000, DefaultCommissionPercentage, 2000, 8000},
		{"custom percentage", 50000, 25, 12500, 37500},
		{"zero value", 0, DefaultCommissionPercentage, 0, 0},
		{"zero percentage", 10000, 0, 0, 10000},
		{"full commission", 10000, 100, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commission, fee := DeriveFinancials(tt.dealValue, tt.commissionPct)
			assert.InDelta(t, tt.wantCommission, commission, 1e-9)
			assert.InDelta(t, tt.wantFee, fee, 1e-9)
			// The split must always reassemble into the deal value.
			assert.InDelta(t, tt.dealValue, commission+fee, 1e-9)
		})
	}
}
