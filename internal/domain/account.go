package domain

import (
	"fmt"
	"time"
)

// AccountType discriminates the four polymorphic account variants.
type AccountType string

const (
	AccountTypeCustomer AccountType = "CUSTOMER"
	AccountTypeBank     AccountType = "BANK"
	AccountTypeGeneral  AccountType = "GENERAL"
	AccountTypeCurrency AccountType = "CURRENCY"
)

// ParseAccountType validates a string account type.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeCustomer, AccountTypeBank, AccountTypeGeneral, AccountTypeCurrency:
		return AccountType(s), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
}

// AccountRef is the composite identity of an account within a tenant.
type AccountRef struct {
	TenantID  string
	AccountID string
	Type      AccountType
}

// Key returns a stable string form of the composite identity, used for
// per-account lock keys and log fields.
func (r AccountRef) Key() string {
	return r.TenantID + ":" + string(r.Type) + ":" + r.AccountID
}

// Validate checks that all identity parts are present.
func (r AccountRef) Validate() error {
	if r.TenantID == "" || r.AccountID == "" {
		return ErrInvalidAccountRef
	}

	_, err := ParseAccountType(string(r.Type))

	return err
}

// Account is one of the four account variants. Detail carries the optional
// variant-specific metadata (contact for customers, account number for banks,
// currency code for currency positions).
type Account struct {
	TenantID  string
	ID        string
	Type      AccountType
	Name      string
	Detail    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the account's composite identity.
func (a *Account) Ref() AccountRef {
	return AccountRef{TenantID: a.TenantID, AccountID: a.ID, Type: a.Type}
}
