package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Mismatch is an account whose cached totals disagree with its transaction log.
type Mismatch struct {
	StudentID       uuid.UUID `db:"student_id" json:"student_id"`
	TotalCredits    int64     `db:"total_credits" json:"total_credits"`
	LedgerTotal     int64     `db:"ledger_total" json:"ledger_total"`
	LifetimeCredits int64     `db:"lifetime_credits" json:"lifetime_credits"`
	LedgerLifetime  int64     `db:"ledger_lifetime" json:"ledger_lifetime"`
}

type Report struct {
	Checked    int        `json:"checked"`
	Mismatches []Mismatch `json:"mismatches"`
	CheckedAt  time.Time  `json:"checked_at"`
}

// OK reports whether every checked account reconciled.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}
