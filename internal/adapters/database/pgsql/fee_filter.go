package pgsql

import (
	"fmt"
	"strings"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// feePredicate is one WHERE-clause variant for a single supported filter
// field. expr may contain %d verbs that are rewritten to positional
// parameters when the clause is assembled.
type feePredicate struct {
	expr string
	args []any
}

// feePredicates translates the optional filter fields into their tagged
// predicate variants. Absent fields contribute nothing; the result composes
// with AND.
//
// The status predicates are the SQL rendering of domain.ComputeStatus and
// must stay in lockstep with it (covered by TestStatusPredicatesMatchComputeStatus).
func feePredicates(f domain.FeeFilter) []feePredicate {
	var ps []feePredicate

	if f.Year != nil {
		ps = append(ps, feePredicate{expr: "f.fee_year = $%d", args: []any{*f.Year}})
	}
	if f.Month != nil {
		ps = append(ps, feePredicate{expr: "f.fee_month = $%d", args: []any{*f.Month}})
	}
	if f.ClassName != nil {
		ps = append(ps, feePredicate{expr: "s.class_name = $%d", args: []any{*f.ClassName}})
	}

	switch f.Transport {
	case domain.TransportYes:
		ps = append(ps, feePredicate{expr: "s.uses_van = TRUE"})
	case domain.TransportNo:
		ps = append(ps, feePredicate{expr: "s.uses_van = FALSE"})
	}

	switch f.Status {
	case domain.StatusFilterPaid:
		ps = append(ps, feePredicate{expr: "f.amount_due > 0 AND f.amount_paid >= f.amount_due"})
	case domain.StatusFilterDue:
		ps = append(ps, feePredicate{expr: "f.amount_due > 0 AND f.amount_paid < f.amount_due"})
	case domain.StatusFilterNotApplicable:
		ps = append(ps, feePredicate{expr: "f.amount_due <= 0"})
	}

	return ps
}

// buildFeeWhere assembles the AND-composed WHERE clause for a fee filter.
// Positional parameters start at startArg. An empty filter yields an empty
// clause and no args.
func buildFeeWhere(f domain.FeeFilter, startArg int) (string, []any) {
	preds := feePredicates(f)
	if len(preds) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	n := startArg
	for _, p := range preds {
		verbs := make([]any, len(p.args))
		for i := range p.args {
			verbs[i] = n
			n++
		}
		clauses = append(clauses, fmt.Sprintf(p.expr, verbs...))
		args = append(args, p.args...)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
