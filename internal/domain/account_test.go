package domain_test

import (
	"errors"
	"testing"

	"github.com/iho/bookkeeper/internal/domain"
)

func TestParseAccountType(t *testing.T) {
	for _, valid := range []string{"CUSTOMER", "BANK", "GENERAL", "CURRENCY"} {
		if _, err := domain.ParseAccountType(valid); err != nil {
			t.Errorf("ParseAccountType(%q) errored: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "customer", "VENDOR"} {
		if _, err := domain.ParseAccountType(invalid); !errors.Is(err, domain.ErrInvalidAccountType) {
			t.Errorf("ParseAccountType(%q): expected ErrInvalidAccountType, got %v", invalid, err)
		}
	}
}

func TestAccountRefValidate(t *testing.T) {
	ref := domain.AccountRef{TenantID: "t1", AccountID: "a1", Type: domain.AccountTypeBank}
	if err := ref.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		ref  domain.AccountRef
		want error
	}{
		{"missing tenant", domain.AccountRef{AccountID: "a1", Type: domain.AccountTypeBank}, domain.ErrInvalidAccountRef},
		{"missing account", domain.AccountRef{TenantID: "t1", Type: domain.AccountTypeBank}, domain.ErrInvalidAccountRef},
		{"bad type", domain.AccountRef{TenantID: "t1", AccountID: "a1", Type: "SAVINGS"}, domain.ErrInvalidAccountType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ref.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAccountRefKey(t *testing.T) {
	ref := domain.AccountRef{TenantID: "t1", AccountID: "a1", Type: domain.AccountTypeCustomer}
	if got := ref.Key(); got != "t1:CUSTOMER:a1" {
		t.Fatalf("Key() = %q", got)
	}
}
