package domain_test

import (
	"testing"
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)

func newDueRecord(due string) domain.MonthlyFeeRecord {
	return domain.MonthlyFeeRecord{
		FeeID:      1,
		StudentID:  7,
		FeeYear:    2026,
		FeeMonth:   8,
		AmountDue:  dec(due),
		AmountPaid: decimal.Zero,
	}
}

func TestApplyPayment_Accumulates(t *testing.T) {
	record := newDueRecord("1500")

	record = domain.ApplyPayment(record, dec("500"), nil, "u1", testNow)
	assert.True(t, dec("500").Equal(record.AmountPaid))
	assert.False(t, record.IsPaid)
	assert.Nil(t, record.PaymentDate)

	// Same amount again adds, it does not replace.
	record = domain.ApplyPayment(record, dec("500"), nil, "u1", testNow)
	assert.True(t, dec("1000").Equal(record.AmountPaid))
	assert.False(t, record.IsPaid)

	record = domain.ApplyPayment(record, dec("500"), nil, "u1", testNow)
	assert.True(t, dec("1500").Equal(record.AmountPaid))
	assert.True(t, record.IsPaid)
	require.NotNil(t, record.PaymentDate)
	assert.Equal(t, testNow, *record.PaymentDate)
}

func TestApplyPayment_OverpaymentTolerated(t *testing.T) {
	record := newDueRecord("1500")

	record = domain.ApplyPayment(record, dec("2000"), nil, "u1", testNow)
	assert.True(t, dec("2000").Equal(record.AmountPaid))
	assert.True(t, record.IsPaid)
	assert.True(t, decimal.Zero.Equal(domain.RemainingBalance(record)))
}

func TestApplyPayment_ExplicitDateWins(t *testing.T) {
	explicit := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	record := newDueRecord("1500")

	record = domain.ApplyPayment(record, dec("1500"), &explicit, "u1", testNow)
	require.NotNil(t, record.PaymentDate)
	assert.Equal(t, explicit, *record.PaymentDate)
}

func TestApplyPayment_ExplicitDateIgnoredForZeroAmount(t *testing.T) {
	explicit := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	record := newDueRecord("1500")

	// Zero tendered with an explicit date does not stamp the date.
	record = domain.ApplyPayment(record, decimal.Zero, &explicit, "u1", testNow)
	assert.Nil(t, record.PaymentDate)
	assert.False(t, record.IsPaid)
}

func TestApplyPayment_DateClearedWhileUnpaid(t *testing.T) {
	stale := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	record := newDueRecord("1500")
	record.PaymentDate = &stale

	record = domain.ApplyPayment(record, dec("100"), nil, "u1", testNow)
	assert.False(t, record.IsPaid)
	assert.Nil(t, record.PaymentDate)
}

func TestApplyPayment_KeepsExistingDateWhenAlreadyPaid(t *testing.T) {
	first := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	record := newDueRecord("1500")
	record = domain.ApplyPayment(record, dec("1500"), &first, "u1", testNow)

	// Further payment on a settled record keeps the original date.
	record = domain.ApplyPayment(record, dec("100"), nil, "u1", testNow.Add(time.Hour))
	require.NotNil(t, record.PaymentDate)
	assert.Equal(t, first, *record.PaymentDate)
	assert.True(t, dec("1600").Equal(record.AmountPaid))
}

func TestApplyPayment_AuditTrail(t *testing.T) {
	record := newDueRecord("1500")
	record = domain.ApplyPayment(record, dec("100"), nil, "teacher-9", testNow)
	assert.Equal(t, "teacher-9", record.LastUpdatedBy)
	assert.Equal(t, testNow, record.LastUpdatedAt)
}

func TestSettleInFull(t *testing.T) {
	record := newDueRecord("1500")
	record.AmountPaid = dec("700")

	settled := domain.SettleInFull(record, "principal-1", testNow)
	assert.True(t, settled.AmountPaid.Equal(settled.AmountDue))
	assert.True(t, settled.IsPaid)
	require.NotNil(t, settled.PaymentDate)
	assert.Equal(t, testNow, *settled.PaymentDate)
	assert.Equal(t, "principal-1", settled.LastUpdatedBy)
	assert.Equal(t, domain.FeeStatusPaid, domain.ComputeStatus(settled))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleTeacher))
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleAdmin))
	assert.True(t, domain.RolePrincipal.AtLeast(domain.RoleTeacher))
	assert.False(t, domain.RolePrincipal.AtLeast(domain.RoleAdmin))
	assert.False(t, domain.RoleTeacher.AtLeast(domain.RolePrincipal))
	assert.False(t, domain.UserRole("GUEST").AtLeast(domain.RoleTeacher))
}
