// Package ofx turns OFX/QFX bank and credit card statements into importable entries.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/log"
)

// MaxStatementSize is the largest statement Parse accepts, in bytes.
const MaxStatementSize = 5 << 20

// ErrTooLarge is returned for statements over MaxStatementSize.
var ErrTooLarge = errors.New("OFX file exceeds the size limit")

// Entry is one statement line.
type Entry struct {
	FitID       string
	Date        time.Time
	Amount      decimal.Decimal // always positive
	Description string
	Type        core.TransactionType
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// opening tags missing their closing bracket at end of line
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in OFX files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads every bank and credit card statement in r. Debits become expenses,
// credits income; zero-amount lines are skipped.
func Parse(ctx context.Context, r io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(io.LimitReader(r, MaxStatementSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if len(content) > MaxStatementSize {
		return nil, ErrTooLarge
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	logger := log.FromContext(ctx).WithComponent(log.ComponentImport)
	entries := make([]Entry, 0)
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		for _, tx := range stmt.BankTranList.Transactions {
			if e, ok := convert(tx); ok {
				entries = append(entries, e)
			} else {
				skipped++
			}
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		for _, tx := range stmt.BankTranList.Transactions {
			if e, ok := convert(tx); ok {
				entries = append(entries, e)
			} else {
				skipped++
			}
		}
	}

	logger.InfoContext(ctx, "Parsed OFX file",
		log.FieldCount, len(entries),
		"skipped", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func convert(tx ofxgo.Transaction) (Entry, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return Entry{}, false
	}

	typ := core.Income
	if amount.IsNegative() {
		typ = core.Expense
	}

	return Entry{
		FitID:       string(tx.FiTID),
		Date:        core.TruncateDate(tx.DtPosted.Time),
		Amount:      amount.Abs(),
		Description: description(tx),
		Type:        typ,
	}, true
}

// description prefers the payee, then the name, then the memo.
func description(tx ofxgo.Transaction) string {
	candidates := []string{string(tx.Name), string(tx.Memo)}
	if tx.Payee != nil {
		candidates = append([]string{string(tx.Payee.Name)}, candidates...)
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return "Imported transaction"
}
