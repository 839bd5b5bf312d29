package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyPayment returns the record after tendering amount against it.
//
// The operation is accumulating: the tendered amount is added to the stored
// running total, never replacing it. Calling it twice with the same amount
// double-counts on purpose; callers must not retry blindly.
//
// The payment date is resolved as follows: an explicit date wins when a
// positive amount was tendered; otherwise a record that is now fully paid and
// has no date yet gets "today"; otherwise a record that is not fully paid and
// got no explicit date has its date cleared.
func ApplyPayment(r MonthlyFeeRecord, tendered decimal.Decimal, explicitDate *time.Time, actor string, now time.Time) MonthlyFeeRecord {
	r.AmountPaid = r.AmountPaid.Add(tendered)
	r.IsPaid = r.AmountPaid.GreaterThanOrEqual(r.AmountDue)

	switch {
	case explicitDate != nil && tendered.IsPositive():
		d := *explicitDate
		r.PaymentDate = &d
	case r.IsPaid && r.PaymentDate == nil:
		d := now
		r.PaymentDate = &d
	case !r.IsPaid && explicitDate == nil:
		r.PaymentDate = nil
	}

	r.LastUpdatedAt = now
	r.LastUpdatedBy = actor
	return r
}

// SettleInFull returns the record with the full due amount marked as paid.
// It is the shortcut counterpart of ApplyPayment and must stay consistent
// with its status derivation. Callers are responsible for refusing records
// that are already paid or have nothing due; see FeeStatus / ComputeStatus.
func SettleInFull(r MonthlyFeeRecord, actor string, now time.Time) MonthlyFeeRecord {
	r.AmountPaid = r.AmountDue
	r.IsPaid = true
	d := now
	r.PaymentDate = &d
	r.LastUpdatedAt = now
	r.LastUpdatedBy = actor
	return r
}

// Actor is the authenticated caller of an operation: an explicit value passed
// into every service call instead of ambient session state.
type Actor struct {
	UserID string
	Role   UserRole
}
