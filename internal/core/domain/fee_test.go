package domain_test

import (
	"testing"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeStatus(t *testing.T) {
	testCases := []struct {
		name     string
		due      string
		paid     string
		expected domain.FeeStatus
	}{
		{"zero due zero paid", "0", "0", domain.FeeStatusNotApplicable},
		{"zero due with payment", "0", "100", domain.FeeStatusNotApplicable},
		{"negative due", "-50", "0", domain.FeeStatusNotApplicable},
		{"unpaid", "1500", "0", domain.FeeStatusDue},
		{"partially paid", "1500", "700", domain.FeeStatusDue},
		{"one short of due", "1500", "1499.99", domain.FeeStatusDue},
		{"exactly paid", "1500", "1500", domain.FeeStatusPaid},
		{"overpaid", "1500", "2000", domain.FeeStatusPaid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := domain.MonthlyFeeRecord{
				AmountDue:  dec(tc.due),
				AmountPaid: dec(tc.paid),
			}
			assert.Equal(t, tc.expected, domain.ComputeStatus(record))
		})
	}
}

func TestRemainingBalance(t *testing.T) {
	record := domain.MonthlyFeeRecord{AmountDue: dec("1500"), AmountPaid: dec("700")}
	assert.True(t, dec("800").Equal(domain.RemainingBalance(record)))

	// Overpayment floors at zero, never negative.
	record = domain.MonthlyFeeRecord{AmountDue: dec("1500"), AmountPaid: dec("2000")}
	assert.True(t, decimal.Zero.Equal(domain.RemainingBalance(record)))

	record = domain.MonthlyFeeRecord{AmountDue: dec("1500"), AmountPaid: dec("1500")}
	assert.True(t, decimal.Zero.Equal(domain.RemainingBalance(record)))
}
