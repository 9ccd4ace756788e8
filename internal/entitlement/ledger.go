// Package entitlement models the subscription/quota fields of a user as an
// explicit state machine, separated from persistence so transitions can be
// tested with a fixed clock and applied inside conditional writes.
package entitlement

import (
	"time"

	"momentum_backend/internal/models"
)

// LedgerState mirrors the entitlement fields of the User row.
type LedgerState struct {
	FreeGenerationsLeft     int
	HasUnlimitedGenerations bool
	Status                  models.SubscriptionStatus
	Provider                string
	SubscriptionID          string
	ProductID               *string
	StartDate               *time.Time
	EndDate                 *time.Time
}

// Event is a ledger transition trigger.
type Event interface{ isEvent() }

// Activated is emitted by a successful payment webhook or a manual grant.
// Replaying it is safe: the resulting state depends only on the event and the
// clock, not on the prior state.
type Activated struct {
	Provider  string
	PaymentID string
	ProductID string
}

// Expired is emitted by the sweeper when the end date has passed.
type Expired struct{}

// Consumed is emitted after a successful metered generation.
type Consumed struct{}

func (Activated) isEvent() {}
func (Expired) isEvent()   {}
func (Consumed) isEvent()  {}

// NewLedger returns the state assigned to a freshly registered user.
func NewLedger() LedgerState {
	return LedgerState{
		FreeGenerationsLeft:     models.FreeGenerationsGrant,
		HasUnlimitedGenerations: false,
		Status:                  models.SubscriptionStatusNone,
	}
}

// Apply returns the state after the event. The input state is not mutated.
func Apply(state LedgerState, event Event, now time.Time) LedgerState {
	switch e := event.(type) {
	case Activated:
		start := now
		end := now.AddDate(0, 1, 0)
		productID := e.ProductID
		return LedgerState{
			FreeGenerationsLeft:     models.UnlimitedGenerationsSentinel,
			HasUnlimitedGenerations: true,
			Status:                  models.SubscriptionStatusActive,
			Provider:                e.Provider,
			SubscriptionID:          e.PaymentID,
			ProductID:               &productID,
			StartDate:               &start,
			EndDate:                 &end,
		}

	case Expired:
		next := state
		next.Status = models.SubscriptionStatusExpired
		next.HasUnlimitedGenerations = false
		next.FreeGenerationsLeft = 0
		return next

	case Consumed:
		next := state
		if next.HasUnlimitedGenerations {
			return next
		}
		if next.FreeGenerationsLeft > 0 {
			next.FreeGenerationsLeft--
		}
		return next
	}

	return state
}

// Allowed reports whether a generation may proceed under the given state.
func Allowed(state LedgerState) bool {
	return state.HasUnlimitedGenerations || state.FreeGenerationsLeft > 0
}

// LedgerFromUser extracts the ledger fields of a user row.
func LedgerFromUser(u *models.User) LedgerState {
	return LedgerState{
		FreeGenerationsLeft:     u.FreeGenerationsLeft,
		HasUnlimitedGenerations: u.HasUnlimitedGenerations,
		Status:                  u.SubscriptionStatus,
		Provider:                u.SubscriptionProvider,
		SubscriptionID:          u.SubscriptionID,
		ProductID:               u.ProductID,
		StartDate:               u.SubscriptionStartDate,
		EndDate:                 u.SubscriptionEndDate,
	}
}
