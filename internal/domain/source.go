package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind tags the seven transactional tables an entry can originate from.
type SourceKind string

const (
	SourceJournal     SourceKind = "JOURNAL"
	SourceBankPayment SourceKind = "BANK_PAYMENT"
	SourceBankReceipt SourceKind = "BANK_RECEIPT"
	SourceCashPayment SourceKind = "CASH_PAYMENT"
	SourceCashReceipt SourceKind = "CASH_RECEIPT"
	SourceSale        SourceKind = "SALE"
	SourcePurchase    SourceKind = "PURCHASE"
)

// ParticipantRole says which column of the source row referenced the account.
type ParticipantRole string

const (
	// RoleDebit and RoleCredit are the generic counter-account columns
	// (drAccountId / crAccountId in the source schema).
	RoleDebit  ParticipantRole = "DR"
	RoleCredit ParticipantRole = "CR"

	// RoleBank is the dedicated bank column on bank payments and receipts.
	RoleBank ParticipantRole = "BANK"

	// RoleStock is the currency position on sales and purchases.
	RoleStock ParticipantRole = "STOCK"
)

// SourceEntry is one raw transactional row reduced to the fields the engine
// needs. Entries are immutable inputs; the engine never writes them back.
//
// CreatedAt is the insertion timestamp of the source row and is the stable
// tiebreak for same-date entries, so repeated rebuilds of the same input set
// order identically.
type SourceEntry struct {
	SourceID  string
	Kind      SourceKind
	Role      ParticipantRole
	Date      time.Time
	Amount    decimal.Decimal
	Narration string
	Reference string
	CreatedAt time.Time
}

// Less is the global ledger ordering: date ascending, then creation order,
// then (kind, source id) so the order is total and deterministic.
func (e SourceEntry) Less(other SourceEntry) bool {
	if !e.Date.Equal(other.Date) {
		return e.Date.Before(other.Date)
	}

	if !e.CreatedAt.Equal(other.CreatedAt) {
		return e.CreatedAt.Before(other.CreatedAt)
	}

	if e.Kind != other.Kind {
		return e.Kind < other.Kind
	}

	return e.SourceID < other.SourceID
}
