package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus is the derived payment status of a monthly fee record.
type FeeStatus string

const (
	// FeeStatusNotApplicable marks records with no amount due at all.
	FeeStatusNotApplicable FeeStatus = "NOT_APPLICABLE"
	// FeeStatusPaid marks records where the running payment total covers the amount due.
	FeeStatusPaid FeeStatus = "PAID"
	// FeeStatusDue marks records with an outstanding balance.
	FeeStatusDue FeeStatus = "DUE"
)

// MonthlyFeeRecord is one student's fee obligation for one (year, month) period.
//
// AmountPaid is an accumulating total: payments add to it and it is never
// reduced by the ledger operations. Overpayment is tolerated, not rejected.
// IsPaid is derived from AmountPaid >= AmountDue on every mutation and is
// never trusted as client input.
type MonthlyFeeRecord struct {
	FeeID          int64           `json:"feeID"` // Primary Key (bigserial)
	StudentID      int64           `json:"studentID"`
	FeeYear        int             `json:"feeYear"`
	FeeMonth       int             `json:"feeMonth"` // 1..12
	BaseFee        decimal.Decimal `json:"baseFee"`
	VanFee         decimal.Decimal `json:"vanFee"`
	ExamFee        decimal.Decimal `json:"examFee"`
	ElectricityFee decimal.Decimal `json:"electricityFee"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	IsPaid         bool            `json:"isPaid"`
	PaymentDate    *time.Time      `json:"paymentDate,omitempty"`
	Notes          string          `json:"notes"`
	AuditFields
}

// FeeRecordWithStudent joins a ledger row to its student summary.
type FeeRecordWithStudent struct {
	MonthlyFeeRecord
	Student StudentSummary `json:"student"`
}

// ComputeStatus derives the payment status of a fee record.
// It is the single source of truth for status text; every listing and
// detail path calls it rather than re-deriving inline.
func ComputeStatus(r MonthlyFeeRecord) FeeStatus {
	if r.AmountDue.LessThanOrEqual(decimal.Zero) {
		return FeeStatusNotApplicable
	}
	if r.AmountPaid.GreaterThanOrEqual(r.AmountDue) {
		return FeeStatusPaid
	}
	return FeeStatusDue
}

// RemainingBalance derives the outstanding amount, floored at zero.
// Never persisted; computed at read time.
func RemainingBalance(r MonthlyFeeRecord) decimal.Decimal {
	remaining := r.AmountDue.Sub(r.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// TransportFilter narrows fee queries by the student's van subscription.
type TransportFilter string

const (
	TransportAny TransportFilter = "any"
	TransportYes TransportFilter = "yes"
	TransportNo  TransportFilter = "no"
)

// StatusFilter narrows fee queries by derived payment status.
type StatusFilter string

const (
	StatusFilterAny           StatusFilter = "any"
	StatusFilterPaid          StatusFilter = "paid"
	StatusFilterDue           StatusFilter = "due"
	StatusFilterNotApplicable StatusFilter = "not_applicable"
)

// FeeFilter is the optional-field predicate set for ledger queries.
// A zero filter matches all records; supplied fields compose with AND.
type FeeFilter struct {
	Year      *int
	Month     *int
	ClassName *string
	Transport TransportFilter
	Status    StatusFilter
}
