package dto

import (
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest is the body of the record-payment endpoint.
// Amount must parse as a non-negative decimal; zero is accepted by validation
// even though it achieves nothing. PaymentDate, when present, must be an ISO
// calendar date (YYYY-MM-DD).
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *string         `json:"paymentDate,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// AssignFeesRequest is the body of the bulk monthly fee assignment endpoint.
// VanFee is only charged to students subscribed to school transport.
type AssignFeesRequest struct {
	Year           int             `json:"year" binding:"required,min=2000,max=2100"`
	Month          int             `json:"month" binding:"required,min=1,max=12"`
	BaseFee        decimal.Decimal `json:"baseFee"`
	VanFee         decimal.Decimal `json:"vanFee"`
	ExamFee        decimal.Decimal `json:"examFee"`
	ElectricityFee decimal.Decimal `json:"electricityFee"`
}

// FeeFilterQuery binds the optional filter fields shared by the fee list and
// the export endpoints. Absent fields match everything.
type FeeFilterQuery struct {
	Year      *int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month     *int    `form:"month" binding:"omitempty,min=1,max=12"`
	Class     *string `form:"class"`
	Transport string  `form:"transport" binding:"omitempty,oneof=any yes no"`
	Status    string  `form:"status" binding:"omitempty,oneof=any paid due not_applicable"`
}

// ToDomain converts the bound query into the domain filter, defaulting the
// enum fields to "any".
func (q FeeFilterQuery) ToDomain() domain.FeeFilter {
	f := domain.FeeFilter{
		Year:      q.Year,
		Month:     q.Month,
		ClassName: q.Class,
		Transport: domain.TransportAny,
		Status:    domain.StatusFilterAny,
	}
	if q.Transport != "" {
		f.Transport = domain.TransportFilter(q.Transport)
	}
	if q.Status != "" {
		f.Status = domain.StatusFilter(q.Status)
	}
	return f
}

// FeeRecordResponse is the API shape of one ledger record with its derived
// status and remaining balance.
type FeeRecordResponse struct {
	FeeID            int64            `json:"feeID"`
	StudentID        int64            `json:"studentID"`
	StudentName      string           `json:"studentName,omitempty"`
	ClassName        string           `json:"className,omitempty"`
	FeeYear          int              `json:"feeYear"`
	FeeMonth         int              `json:"feeMonth"`
	BaseFee          decimal.Decimal  `json:"baseFee"`
	VanFee           decimal.Decimal  `json:"vanFee"`
	ExamFee          decimal.Decimal  `json:"examFee"`
	ElectricityFee   decimal.Decimal  `json:"electricityFee"`
	AmountDue        decimal.Decimal  `json:"amountDue"`
	AmountPaid       decimal.Decimal  `json:"amountPaid"`
	RemainingBalance decimal.Decimal  `json:"remainingBalance"`
	Status           domain.FeeStatus `json:"status"`
	IsPaid           bool             `json:"isPaid"`
	PaymentDate      *time.Time       `json:"paymentDate,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	LastUpdatedAt    time.Time        `json:"lastUpdatedAt"`
}

// ListFeesResponse is a page of ledger records.
type ListFeesResponse struct {
	Fees   []FeeRecordResponse `json:"fees"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// AssignFeesResponse reports the outcome of a bulk assignment.
type AssignFeesResponse struct {
	Created int64  `json:"created"`
	Message string `json:"message"`
}

// ToFeeRecordResponse converts a bare ledger record to its API shape.
func ToFeeRecordResponse(r *domain.MonthlyFeeRecord) FeeRecordResponse {
	return FeeRecordResponse{
		FeeID:            r.FeeID,
		StudentID:        r.StudentID,
		FeeYear:          r.FeeYear,
		FeeMonth:         r.FeeMonth,
		BaseFee:          r.BaseFee,
		VanFee:           r.VanFee,
		ExamFee:          r.ExamFee,
		ElectricityFee:   r.ElectricityFee,
		AmountDue:        r.AmountDue,
		AmountPaid:       r.AmountPaid,
		RemainingBalance: domain.RemainingBalance(*r),
		Status:           domain.ComputeStatus(*r),
		IsPaid:           r.IsPaid,
		PaymentDate:      r.PaymentDate,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		LastUpdatedAt:    r.LastUpdatedAt,
	}
}

// ToFeeRecordWithStudentResponse converts a joined row to its API shape.
func ToFeeRecordWithStudentResponse(r *domain.FeeRecordWithStudent) FeeRecordResponse {
	resp := ToFeeRecordResponse(&r.MonthlyFeeRecord)
	resp.StudentName = r.Student.Name
	resp.ClassName = r.Student.ClassName
	return resp
}

// ToListFeesResponse converts a page of joined rows.
func ToListFeesResponse(rows []domain.FeeRecordWithStudent, limit, offset int) ListFeesResponse {
	fees := make([]FeeRecordResponse, len(rows))
	for i := range rows {
		fees[i] = ToFeeRecordWithStudentResponse(&rows[i])
	}
	return ListFeesResponse{Fees: fees, Limit: limit, Offset: offset}
}
