package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/events"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/ofx"
	"finance-tracker-backend/internal/storage"
	"finance-tracker-backend/internal/storage/memory"
)

const statementHead = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240331120000[0:GMT]
`

const statementLines = `<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240305120000[0:GMT]
<TRNAMT>-64.20
<FITID>2024030501
<NAME>CITY MARKET
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240310120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024031001
<NAME>CLIENT INVOICE 42
</STMTTRN>
`

const statementTail = `</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1435.80
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const statement = statementHead + statementLines + statementTail

func TestImportTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.ImportTransactions(ctx, "u1", strings.NewReader(statement), ImportInput{
		IncomeCategoryID: "freelance", ExpenseCategoryID: "groceries",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	market := created[0]
	assert.Equal(t, core.Expense, market.Type)
	assert.Equal(t, "groceries", market.CategoryID)
	assert.True(t, market.Amount.Equal(dec("64.2")))
	assert.Equal(t, "CITY MARKET", market.Description)
	assert.Equal(t, "2024-03-05", core.FormatDate(market.Date))

	invoice := created[1]
	assert.Equal(t, core.Income, invoice.Type)
	assert.Equal(t, "freelance", invoice.CategoryID)

	stored, err := f.mem.ListTransactions(ctx, "u1", storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.TransactionImported, f.pub.events[0].Type)
	assert.Equal(t, 2, f.pub.events[0].Count)
}

func TestImportTransactions_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		in      ImportInput
		message string
	}{
		{"missing categories", statement, ImportInput{IncomeCategoryID: "salary"}, "Income and expense categories are required"},
		{"expense category as income", statement, ImportInput{IncomeCategoryID: "rent", ExpenseCategoryID: "rent"}, "Invalid income category"},
		{"income category as expense", statement, ImportInput{IncomeCategoryID: "salary", ExpenseCategoryID: "salary"}, "Invalid expense category"},
		{"unknown category", statement, ImportInput{IncomeCategoryID: "salary", ExpenseCategoryID: "nope"}, "Invalid expense category"},
		{"not ofx", "date,amount\n2024-03-01,10", ImportInput{IncomeCategoryID: "salary", ExpenseCategoryID: "rent"}, "Invalid OFX file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.ImportTransactions(context.Background(), "u1", strings.NewReader(tt.body), tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrValidation))
			assert.Equal(t, tt.message, core.Message(err, ""))
			assert.Empty(t, f.pub.types())
		})
	}
}

func TestImportTransactions_EmptyStatement(t *testing.T) {
	f := newFixture(t)
	empty := statementHead + statementTail

	_, err := f.svc.ImportTransactions(context.Background(), "u1", strings.NewReader(empty), ImportInput{
		IncomeCategoryID: "salary", ExpenseCategoryID: "rent",
	})
	assert.Equal(t, "No transactions found in file", core.Message(err, ""))
}

func TestImportTransactions_TooLarge(t *testing.T) {
	f := newFixture(t)
	huge := statement + strings.Repeat(" ", ofx.MaxStatementSize)

	_, err := f.svc.ImportTransactions(context.Background(), "u1", strings.NewReader(huge), ImportInput{
		IncomeCategoryID: "salary", ExpenseCategoryID: "rent",
	})
	assert.True(t, errors.Is(err, core.ErrValidation))
	assert.Equal(t, "OFX file is too large", core.Message(err, ""))
}

func TestImportTransactions_LogsRejectionAsService(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Format: "json", Output: &buf})
	svc := New(memory.New(), nil, nil, logger, Options{Now: func() time.Time { return fixedNow }})

	_, err := svc.ImportTransactions(context.Background(), "u1", strings.NewReader("garbage"), ImportInput{
		IncomeCategoryID: "salary", ExpenseCategoryID: "rent",
	})
	require.Error(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "Rejected statement", record["msg"])
	assert.Equal(t, log.ComponentService, record[log.FieldComponent])
	assert.Equal(t, "u1", record[log.FieldUserID])
}
