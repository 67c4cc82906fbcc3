package domain

// Side is the ledger column a normalized entry contributes to.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

type polarityKey struct {
	Kind SourceKind
	Role ParticipantRole
}

// polarityTable is the fixed sign-convention lookup. It is enumerated, not
// derived: journal columns map straight through, while the four
// payment/receipt vouchers invert their counter-account columns (a payment
// recorded against a party's debit column increases what the business owes
// that party, i.e. its credit balance). The bank column follows cash flow
// direction, and currency positions grow on the purchase side.
var polarityTable = map[polarityKey]Side{
	{SourceJournal, RoleDebit}:  SideDebit,
	{SourceJournal, RoleCredit}: SideCredit,

	{SourceBankPayment, RoleDebit}:  SideCredit,
	{SourceBankPayment, RoleCredit}: SideDebit,
	{SourceBankPayment, RoleBank}:   SideCredit,

	{SourceBankReceipt, RoleDebit}:  SideCredit,
	{SourceBankReceipt, RoleCredit}: SideDebit,
	{SourceBankReceipt, RoleBank}:   SideDebit,

	{SourceCashPayment, RoleDebit}:  SideCredit,
	{SourceCashPayment, RoleCredit}: SideDebit,

	{SourceCashReceipt, RoleDebit}:  SideCredit,
	{SourceCashReceipt, RoleCredit}: SideDebit,

	{SourceSale, RoleStock}:     SideCredit,
	{SourcePurchase, RoleStock}: SideDebit,
}

// Contribution resolves which ledger column an entry of the given source kind
// and participant role adds its amount to.
func Contribution(kind SourceKind, role ParticipantRole) (Side, error) {
	side, ok := polarityTable[polarityKey{Kind: kind, Role: role}]
	if !ok {
		return "", ErrUnknownPolarity
	}

	return side, nil
}

// participation lists which source kinds can reference each account type and
// through which roles. The Source Collector fans out queries from this table.
var participation = map[AccountType]map[SourceKind][]ParticipantRole{
	AccountTypeCustomer: {
		SourceJournal:     {RoleDebit, RoleCredit},
		SourceBankPayment: {RoleDebit, RoleCredit},
		SourceBankReceipt: {RoleDebit, RoleCredit},
		SourceCashPayment: {RoleDebit, RoleCredit},
		SourceCashReceipt: {RoleDebit, RoleCredit},
	},
	AccountTypeBank: {
		SourceBankPayment: {RoleBank},
		SourceBankReceipt: {RoleBank},
		SourceCashPayment: {RoleDebit, RoleCredit},
		SourceCashReceipt: {RoleDebit, RoleCredit},
	},
	AccountTypeGeneral: {
		SourceJournal: {RoleDebit, RoleCredit},
	},
	AccountTypeCurrency: {
		SourceSale:     {RoleStock},
		SourcePurchase: {RoleStock},
	},
}

// Participation returns the source kinds and roles that can reference
// accounts of the given type.
func Participation(t AccountType) map[SourceKind][]ParticipantRole {
	return participation[t]
}

// Participates reports whether a source kind applies to an account type at all.
func Participates(t AccountType, kind SourceKind) bool {
	_, ok := participation[t][kind]
	return ok
}
