package purchase

import (
	"github.com/learnhub/credits-api/internal/domain/account"
	"github.com/learnhub/credits-api/internal/domain/inventory"
	"github.com/learnhub/credits-api/internal/domain/store"
	"github.com/learnhub/credits-api/internal/domain/transaction"
)

// State of a purchase attempt. An attempt either reaches Committed or stops
// at Aborted with no side effects.
type State string

const (
	StateRequested State = "requested"
	StateValidated State = "validated"
	StateDebited   State = "debited"
	StateGranted   State = "granted"
	StateCommitted State = "committed"
	StateAborted   State = "aborted"
)

// Result of a committed purchase. Transaction is nil for free items.
type Result struct {
	Item        *store.Item
	Account     *account.Account
	Transaction *transaction.Transaction
	Entry       *inventory.Entry
	State       State
}
