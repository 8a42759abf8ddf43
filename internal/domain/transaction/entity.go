package transaction

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type classifies a balance change
type Type string

const (
	TypeCourseCompletion Type = "course_completion"
	TypeModuleCompletion Type = "module_completion"
	TypePurchase         Type = "purchase"
	TypeBonus            Type = "bonus"
	TypeAdminAdjustment  Type = "admin_adjustment"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeCourseCompletion, TypeModuleCompletion, TypePurchase, TypeBonus, TypeAdminAdjustment:
		return true
	}
	return false
}

// IsCompletion reports whether the type is granted by the catalog source.
func (t Type) IsCompletion() bool {
	return t == TypeCourseCompletion || t == TypeModuleCompletion
}

// Transaction is an immutable record of one balance change.
// Amount is signed: positive for credits, negative for debits.
type Transaction struct {
	ID          uuid.UUID      `db:"id"`
	Seq         int64          `db:"seq"`
	StudentID   uuid.UUID      `db:"student_id"`
	Amount      int64          `db:"amount"`
	Type        Type           `db:"tx_type"`
	ReferenceID sql.NullString `db:"reference_id"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Entry describes a transaction to be appended
type Entry struct {
	StudentID   uuid.UUID
	Amount      int64
	Type        Type
	ReferenceID string
	Description string
}

// SearchFilters narrows the admin transaction search
type SearchFilters struct {
	StudentID   *uuid.UUID
	Type        *Type
	ReferenceID *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ClampLimit normalizes a requested history size to 1..MaxHistoryLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
