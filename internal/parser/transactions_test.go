package parser

import (
	"testing"

	"github.com/cartaoclaro/fatura-parser/internal/models"
)

var jan2024 = models.DateContext{Year: 2024, ClosingMonth: 1}

func TestDetectTransactionsBasic(t *testing.T) {
	rows := makeRows(
		[]string{"05 jan", "SUPERMERCADO PAGUE MENOS", "600,00"},
		[]string{"12 jan", "POSTO BR", "PARC 02/04", "900,00"},
	)

	txns := detectTransactions(rows, jan2024)
	if len(txns) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txns))
	}

	first := txns[0]
	if first.Date != "2024-01-05" {
		t.Errorf("txn[0].Date = %q, want 2024-01-05", first.Date)
	}
	if first.Description != "SUPERMERCADO PAGUE MENOS" {
		t.Errorf("txn[0].Description = %q", first.Description)
	}
	if first.Amount.StringFixed(2) != "600.00" {
		t.Errorf("txn[0].Amount = %s, want 600.00", first.Amount)
	}
	if first.Type != models.TypePurchase {
		t.Errorf("txn[0].Type = %q, want purchase", first.Type)
	}
	if first.Currency != "BRL" {
		t.Errorf("txn[0].Currency = %q, want BRL", first.Currency)
	}

	second := txns[1]
	if second.Description != "POSTO BR PARC 02/04" {
		t.Errorf("txn[1].Description = %q", second.Description)
	}
	if second.Type != models.TypeInstallment {
		t.Errorf("txn[1].Type = %q, want installment", second.Type)
	}
	if second.Installment == nil || second.Installment.Current != 2 || second.Installment.Total != 4 {
		t.Errorf("txn[1].Installment = %+v, want 2/4", second.Installment)
	}
}

func TestDetectTransactionsYearBoundary(t *testing.T) {
	// Statement closes in January; a December row belongs to the previous
	// year.
	rows := makeRows([]string{"15 dez", "LOJA DO NATAL", "150,00"})
	txns := detectTransactions(rows, jan2024)
	if len(txns) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txns))
	}
	if txns[0].Date != "2023-12-15" {
		t.Errorf("Date = %q, want 2023-12-15", txns[0].Date)
	}
}

func TestDetectTransactionsGroupWithoutAmountDropped(t *testing.T) {
	rows := makeRows(
		// First group never closes: a second date chunk opens a new group.
		[]string{"05 jan", "NO AMOUNT HERE", "12 jan", "REAL PURCHASE", "100,00"},
		// Group open at end of row, no amount at all.
		[]string{"20 jan", "DANGLING DESCRIPTION"},
	)
	txns := detectTransactions(rows, jan2024)
	if len(txns) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txns))
	}
	if txns[0].Description != "REAL PURCHASE" {
		t.Errorf("Description = %q, want REAL PURCHASE", txns[0].Description)
	}
}

func TestDetectTransactionsTooFewChunksDropped(t *testing.T) {
	// Date immediately followed by amount: no description chunk, group has
	// only 2 chunks and is rejected.
	rows := makeRows([]string{"05 jan", "600,00"})
	if txns := detectTransactions(rows, jan2024); len(txns) != 0 {
		t.Fatalf("transactions: got %d, want 0", len(txns))
	}
}

func TestDetectTransactionsNegativeAmountStoredAbsolute(t *testing.T) {
	rows := makeRows([]string{"08 jan", "PAGAMENTO EFETUADO", "-2.000,00"})
	txns := detectTransactions(rows, jan2024)
	if len(txns) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txns))
	}
	if txns[0].Amount.StringFixed(2) != "2000.00" {
		t.Errorf("Amount = %s, want absolute 2000.00", txns[0].Amount)
	}
	if txns[0].Type != models.TypePayment {
		t.Errorf("Type = %q, want payment", txns[0].Type)
	}
	if txns[0].SignedAmount().StringFixed(2) != "-2000.00" {
		t.Errorf("SignedAmount = %s, want -2000.00", txns[0].SignedAmount())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		desc string
		want models.TransactionType
	}{
		{"ESTORNO COMPRA LOJA X", models.TypeRefund},
		{"DEVOLUÇÃO MERCADO", models.TypeRefund},
		{"PAGAMENTO EFETUADO", models.TypePayment},
		{"PGTO DEBITO AUTOMATICO", models.TypePayment},
		{"AJUSTE DE COBRANÇA", models.TypeAdjustment},
		{"ANUIDADE DIFERENCIADA", models.TypeFee},
		{"JUROS DE MORA", models.TypeFee},
		{"IOF COMPRA INTERNACIONAL", models.TypeFee},
		{"LOJA PARCELA 03/10", models.TypeInstallment},
		{"MAGAZINE 02/05", models.TypeInstallment},
		{"SUPERMERCADO PAGUE MENOS", models.TypePurchase},
	}
	for _, tt := range tests {
		got, _ := classify(tt.desc)
		if got != tt.want {
			t.Errorf("classify(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}

	// Keyword precedence: refund wins even when an installment marker is
	// present, but the installment info is still extracted.
	typ, inst := classify("ESTORNO PARCELA 02/04")
	if typ != models.TypeRefund {
		t.Errorf("classify precedence: got %q, want refund", typ)
	}
	if inst == nil || inst.Current != 2 || inst.Total != 4 {
		t.Errorf("installment info = %+v, want 2/4", inst)
	}
}

func TestMatchInstallmentRejectsInvalid(t *testing.T) {
	if inst := matchInstallment("loja 10/02"); inst != nil {
		t.Errorf("10/02 (current > total) should not parse, got %+v", inst)
	}
	if inst := matchInstallment("sem parcela"); inst != nil {
		t.Errorf("no marker should yield nil, got %+v", inst)
	}
}

func TestDetectTransactionsByPosition(t *testing.T) {
	rows := makeRows(
		[]string{"05 jan", "SUPERMERCADO", "600,00"},
		[]string{"12 jan", "POSTO BR", "KM 42", "900,00"},
		// Rightmost chunk not an amount: skipped.
		[]string{"15 jan", "LOJA", "SEM VALOR"},
		// Leftmost chunk not a date: skipped.
		[]string{"SALDO", "ANTERIOR", "100,00"},
	)
	txns := detectTransactionsByPosition(rows, jan2024)
	if len(txns) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txns))
	}
	if txns[1].Description != "POSTO BR KM 42" {
		t.Errorf("txn[1].Description = %q", txns[1].Description)
	}
}
