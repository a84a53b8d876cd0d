package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts serialize as JSON numbers, matching what API consumers expect
	// from the original service.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType classifies a statement line item from its description.
type TransactionType string

const (
	TypePurchase    TransactionType = "purchase"
	TypeInstallment TransactionType = "installment"
	TypePayment     TransactionType = "payment"
	TypeRefund      TransactionType = "refund"
	TypeFee         TransactionType = "fee"
	TypeAdjustment  TransactionType = "adjustment"
)

// IsCredit reports whether a transaction of this type reduces the statement
// balance. Payments, refunds and adjustments count against the card subtotal;
// everything else adds to it.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TypePayment, TypeRefund, TypeAdjustment:
		return true
	}
	return false
}

// Installment holds the N/M progress of an installment purchase
// ("PARC 03/10" → Current 3, Total 10).
type Installment struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Transaction is a single parsed line item. Amount is always an absolute
// magnitude; the type tag says how it counts toward the card subtotal.
// Date is ISO YYYY-MM-DD and may be empty when the row carried no
// resolvable date.
type Transaction struct {
	Date        string            `json:"date,omitempty"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Type        TransactionType   `json:"type,omitempty"`
	Installment *Installment      `json:"installment,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SignedAmount is the transaction's contribution to its card's computed
// subtotal under the uniform credit-flip convention.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CardSection tags a card block as belonging to the statement's principal
// card section or the additional-cards section.
type CardSection string

const (
	SectionPrincipal  CardSection = "principal"
	SectionAdditional CardSection = "additional"
)

// CardBlock is one card's slice of the statement: identity parsed from the
// subtotal-marker row, the declared subtotal from that row, and the
// transactions detected in the rows that followed it.
type CardBlock struct {
	Section          CardSection      `json:"section"`
	Label            string           `json:"label,omitempty"`
	Cardholder       string           `json:"cardholder,omitempty"`
	LastFourDigits   string           `json:"lastFourDigits,omitempty"`
	CardType         string           `json:"cardType,omitempty"`
	IsAdditional     bool             `json:"isAdditional"`
	DeclaredSubtotal *decimal.Decimal `json:"declaredSubtotal,omitempty"`
	ComputedSubtotal decimal.Decimal  `json:"computedSubtotal"`
	SubtotalDiff     *decimal.Decimal `json:"subtotalDifference,omitempty"`
	Transactions     []Transaction    `json:"transactions"`
}

// AutoDebit is the three-state auto-debit flag from the statement header.
type AutoDebit string

const (
	AutoDebitEnabled  AutoDebit = "Enabled"
	AutoDebitDisabled AutoDebit = "Disabled"
)

// HeaderFields is the sparse set of labeled header values detected near the
// top of the statement. Nil pointers mean the label never matched.
// First match wins; later rows never overwrite a populated field.
type HeaderFields struct {
	CardholderName  string
	DueDate         string // ISO YYYY-MM-DD
	ClosingDate     string // ISO YYYY-MM-DD
	InvoiceNumber   string
	TotalAmount     *decimal.Decimal
	MinimumPayment  *decimal.Decimal
	CreditLimit     *decimal.Decimal
	AvailableLimit  *decimal.Decimal
	AnnualFee       *decimal.Decimal
	BestPurchaseDay int
	AutoDebit       *AutoDebit
}

// DateContext carries the fallback year and closing month derived from the
// header's closing date into transaction-date resolution. A transaction
// month greater than ClosingMonth resolves to Year-1 (statements spanning
// a year boundary).
type DateContext struct {
	Year         int
	ClosingMonth int
}

// StatementRecord is the assembled output of a successful parse.
type StatementRecord struct {
	CardholderName  string           `json:"cardholderName,omitempty"`
	DueDate         string           `json:"dueDate,omitempty"`
	ClosingDate     string           `json:"closingDate,omitempty"`
	InvoiceNumber   string           `json:"invoiceNumber,omitempty"`
	TotalAmountDue  *decimal.Decimal `json:"totalAmountDue,omitempty"`
	MinimumPayment  *decimal.Decimal `json:"minimumPayment,omitempty"`
	BestPurchaseDay int              `json:"bestPurchaseDay,omitempty"`
	AutoDebit       *AutoDebit       `json:"autoDebit,omitempty"`
	AnnualFee       *decimal.Decimal `json:"annualFee,omitempty"`
	CreditLimit     *decimal.Decimal `json:"creditLimit,omitempty"`
	AvailableLimit  *decimal.Decimal `json:"availableLimit,omitempty"`
	Cards           []CardBlock      `json:"cards"`
	Metadata        Metadata         `json:"metadata"`
}

// TransactionCount sums transactions across all card blocks.
func (s *StatementRecord) TransactionCount() int {
	n := 0
	for _, c := range s.Cards {
		n += len(c.Transactions)
	}
	return n
}
