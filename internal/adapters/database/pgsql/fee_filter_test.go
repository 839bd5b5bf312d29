package pgsql

import (
	"testing"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildFeeWhere_Empty(t *testing.T) {
	clause, args := buildFeeWhere(domain.FeeFilter{}, 1)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestBuildFeeWhere_SingleField(t *testing.T) {
	clause, args := buildFeeWhere(domain.FeeFilter{Year: intPtr(2026)}, 1)
	assert.Equal(t, "WHERE f.fee_year = $1", clause)
	assert.Equal(t, []any{2026}, args)
}

func TestBuildFeeWhere_ComposesWithAnd(t *testing.T) {
	f := domain.FeeFilter{
		Year:      intPtr(2026),
		Month:     intPtr(8),
		ClassName: strPtr("5A"),
		Transport: domain.TransportYes,
		Status:    domain.StatusFilterDue,
	}
	clause, args := buildFeeWhere(f, 1)

	assert.Equal(t,
		"WHERE f.fee_year = $1 AND f.fee_month = $2 AND s.class_name = $3"+
			" AND s.uses_van = TRUE AND f.amount_due > 0 AND f.amount_paid < f.amount_due",
		clause)
	assert.Equal(t, []any{2026, 8, "5A"}, args)
}

func TestBuildFeeWhere_StartArgOffset(t *testing.T) {
	// Callers that bind their own parameters first need the numbering to
	// continue from where they left off.
	clause, args := buildFeeWhere(domain.FeeFilter{Year: intPtr(2026), Month: intPtr(1)}, 3)
	assert.Equal(t, "WHERE f.fee_year = $3 AND f.fee_month = $4", clause)
	assert.Equal(t, []any{2026, 1}, args)
}

func TestBuildFeeWhere_TransportNo(t *testing.T) {
	clause, args := buildFeeWhere(domain.FeeFilter{Transport: domain.TransportNo}, 1)
	assert.Equal(t, "WHERE s.uses_van = FALSE", clause)
	assert.Empty(t, args)
}

// evalStatusPredicate mirrors the SQL comparisons of the status predicates
// so they can be checked against the in-memory status computation.
func evalStatusPredicate(status domain.StatusFilter, due, paid decimal.Decimal) bool {
	switch status {
	case domain.StatusFilterPaid:
		return due.IsPositive() && paid.GreaterThanOrEqual(due)
	case domain.StatusFilterDue:
		return due.IsPositive() && paid.LessThan(due)
	case domain.StatusFilterNotApplicable:
		return !due.IsPositive()
	}
	return false
}

func TestStatusPredicatesMatchComputeStatus(t *testing.T) {
	cases := []struct{ due, paid string }{
		{"0", "0"},
		{"0", "100"},
		{"-50", "0"},
		{"1500", "0"},
		{"1500", "700"},
		{"1500", "1499.99"},
		{"1500", "1500"},
		{"1500", "2000"},
	}
	filters := map[domain.StatusFilter]domain.FeeStatus{
		domain.StatusFilterPaid:          domain.FeeStatusPaid,
		domain.StatusFilterDue:           domain.FeeStatusDue,
		domain.StatusFilterNotApplicable: domain.FeeStatusNotApplicable,
	}

	for _, c := range cases {
		record := domain.MonthlyFeeRecord{AmountDue: dec(c.due), AmountPaid: dec(c.paid)}
		computed := domain.ComputeStatus(record)
		for filter, status := range filters {
			matched := evalStatusPredicate(filter, record.AmountDue, record.AmountPaid)
			require.Equal(t, computed == status, matched,
				"due=%s paid=%s filter=%s: predicate disagrees with computed status %s",
				c.due, c.paid, filter, computed)
		}
	}
}
