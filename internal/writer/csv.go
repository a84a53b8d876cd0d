package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cartaoclaro/fatura-parser/internal/models"
	"github.com/shopspring/decimal"
)

// CSVWriter flattens a parsed statement into CSV: one row per transaction
// across all cards, optionally preceded by statement metadata rows.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the statement as CSV to the given path.
func (w *CSVWriter) WriteToFile(path string, stmt *models.StatementRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, stmt)
}

// Write writes the statement in CSV form to out.
func (w *CSVWriter) Write(out io.Writer, stmt *models.StatementRecord) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		if stmt.CardholderName != "" {
			writer.Write([]string{"# Cardholder", stmt.CardholderName})
		}
		if stmt.DueDate != "" {
			writer.Write([]string{"# Due Date", stmt.DueDate})
		}
		if stmt.ClosingDate != "" {
			writer.Write([]string{"# Closing Date", stmt.ClosingDate})
		}
		if stmt.TotalAmountDue != nil {
			writer.Write([]string{"# Total Due", stmt.TotalAmountDue.StringFixed(2)})
		}
		if stmt.MinimumPayment != nil {
			writer.Write([]string{"# Minimum Payment", stmt.MinimumPayment.StringFixed(2)})
		}
	}

	header := []string{"Card", "Section", "Date", "Description", "Type", "Installment", "Amount", "Currency"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, card := range stmt.Cards {
		for _, txn := range card.Transactions {
			row := []string{
				card.LastFourDigits,
				string(card.Section),
				txn.Date,
				txn.Description,
				string(txn.Type),
				formatInstallment(txn.Installment),
				formatAmount(txn.Amount),
				txn.Currency,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatInstallment(inst *models.Installment) string {
	if inst == nil {
		return ""
	}
	return strconv.Itoa(inst.Current) + "/" + strconv.Itoa(inst.Total)
}
