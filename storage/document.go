package storage

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/robinvdvleuten/accounts/ledger"
	"gopkg.in/yaml.v3"
)

// The document types below define the on-disk layout of month and config
// files. Field names must not change: existing ledgers are read back with
// them.

type monthDocument struct {
	Date                   ledger.YearMonth        `yaml:"date"`
	OpeningBalance         amount                  `yaml:"opening-balance"`
	ReceiptsCarriedForward amount                  `yaml:"receipts-carried-forward"`
	Transactions           []transactionDocument   `yaml:"transactions"`
	IsClosed               bool                    `yaml:"is-closed"`
	Reconciliation         *reconciliationDocument `yaml:"reconciliation,omitempty"`
}

type transactionDocument struct {
	Date               int                      `yaml:"date"`
	Description        string                   `yaml:"description"`
	SummaryDescription string                   `yaml:"summary-description,omitempty"`
	Category           *ledger.Category         `yaml:"category"`
	ReceiptsIn         amount                   `yaml:"receipts-in,omitempty"`
	ReceiptsOut        amount                   `yaml:"receipts-out,omitempty"`
	CheckingIn         amount                   `yaml:"checking-in,omitempty"`
	CheckingOut        amount                   `yaml:"checking-out,omitempty"`
	SubTransactions    []subTransactionDocument `yaml:"sub-transactions,omitempty"`
}

type subTransactionDocument struct {
	Description string                `yaml:"description"`
	Category    *ledger.Category      `yaml:"category,omitempty"`
	Type        ledger.ResolutionType `yaml:"type"`
	Amount      amount                `yaml:"amount"`
}

type reconciliationDocument struct {
	DateReconciled           isoDate                           `yaml:"date-reconciled"`
	StatementBalance         amount                            `yaml:"statement-balance"`
	ReconciledBalance        amount                            `yaml:"reconciled-balance"`
	UnreconciledTransactions []unreconciledTransactionDocument `yaml:"unreconciled-transactions"`
}

type unreconciledTransactionDocument struct {
	Date        isoDate `yaml:"date"`
	Description string  `yaml:"description"`
	Amount      amount  `yaml:"amount"`
}

type configDocument struct {
	CongregationName       string                     `yaml:"congregation-name"`
	CongregationCity       string                     `yaml:"congregation-city"`
	CongregationState      string                     `yaml:"congregation-state"`
	AccountsSheetFormPath  string                     `yaml:"accounts-sheet-form-path"`
	FundsTransferFormPath  string                     `yaml:"funds-transfer-form-path"`
	AccountsReportFormPath string                     `yaml:"accounts-report-form-path"`
	RootDir                string                     `yaml:"root-dir"`
	CurrentMonth           *ledger.YearMonth          `yaml:"current-month,omitempty"`
	BranchResolutions      []branchResolutionDocument `yaml:"branch-resolutions,omitempty"`
	TransferDescription    string                     `yaml:"transfer-description,omitempty"`
}

type branchResolutionDocument struct {
	Description string                `yaml:"description"`
	Category    *ledger.Category      `yaml:"category,omitempty"`
	Type        ledger.ResolutionType `yaml:"type"`
	Amount      amount                `yaml:"amount"`
}

// amount writes Money as a plain scalar such as 0.00 or (17.00).
// Decoding goes through the embedded Money's UnmarshalText.
type amount struct {
	ledger.Money
}

func (a amount) MarshalYAML() (interface{}, error) {
	return plainScalar(a.FormattedStringPreserveZero()), nil
}

// isoDate is a calendar date written as YYYY-MM-DD.
type isoDate struct {
	time.Time
}

func (d isoDate) MarshalYAML() (interface{}, error) {
	return plainScalar(ledger.FormatDate(d.Time)), nil
}

func (d *isoDate) UnmarshalText(text []byte) error {
	t, err := ledger.ParseDate(string(text))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func plainScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func missingField(kind string) error {
	return ledger.NewParseError(kind, "", errors.New("missing"))
}

// knownType rejects a resolution type that was absent from the document.
// Unknown names already fail while decoding.
func knownType(t ledger.ResolutionType) error {
	if t == "" {
		return missingField("resolution type")
	}
	if !t.Known() {
		return ledger.NewParseError("resolution type", string(t), errors.New("unknown"))
	}
	return nil
}

func categoryOrExpense(c *ledger.Category) ledger.Category {
	if c == nil {
		return ledger.Expense
	}
	return *c
}

// MarshalMonth encodes a month as a YAML document.
func MarshalMonth(m *ledger.AccountsMonth) ([]byte, error) {
	doc := monthDocument{
		Date:                   m.Date,
		OpeningBalance:         amount{m.OpeningBalance},
		ReceiptsCarriedForward: amount{m.ReceiptsCarriedForward},
		Transactions:           []transactionDocument{},
		IsClosed:               m.Closed,
	}
	for _, txn := range m.Transactions() {
		category := txn.Category
		td := transactionDocument{
			Date:               txn.Day,
			Description:        txn.Description,
			SummaryDescription: txn.Summary,
			Category:           &category,
			ReceiptsIn:         amount{txn.ReceiptsIn},
			ReceiptsOut:        amount{txn.ReceiptsOut},
			CheckingIn:         amount{txn.CheckingIn},
			CheckingOut:        amount{txn.CheckingOut},
		}
		for _, sub := range txn.SubTransactions {
			category := sub.Category
			td.SubTransactions = append(td.SubTransactions, subTransactionDocument{
				Description: sub.Description,
				Category:    &category,
				Type:        sub.Type,
				Amount:      amount{sub.Amount},
			})
		}
		doc.Transactions = append(doc.Transactions, td)
	}
	if r := m.Reconciliation; r != nil {
		rd := &reconciliationDocument{
			DateReconciled:           isoDate{r.DateReconciled},
			StatementBalance:         amount{r.StatementBalance},
			ReconciledBalance:        amount{r.ReconciledBalance},
			UnreconciledTransactions: []unreconciledTransactionDocument{},
		}
		for _, u := range r.Unreconciled {
			rd.UnreconciledTransactions = append(rd.UnreconciledTransactions, unreconciledTransactionDocument{
				Date:        isoDate{u.Date},
				Description: u.Description,
				Amount:      amount{u.Amount},
			})
		}
		doc.Reconciliation = rd
	}
	return encode(doc)
}

// UnmarshalMonth decodes a YAML month document.
func UnmarshalMonth(data []byte) (*ledger.AccountsMonth, error) {
	var doc monthDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode month: %w", err)
	}
	if doc.Date.IsZero() {
		return nil, ledger.NewParseError("month document", "", fmt.Errorf("missing date"))
	}

	txns := make([]ledger.Transaction, 0, len(doc.Transactions))
	for _, td := range doc.Transactions {
		if td.Category == nil {
			return nil, fmt.Errorf("decode month: transaction %q: %w", td.Description, missingField("category"))
		}
		txn := ledger.Transaction{
			Day:         td.Date,
			Description: td.Description,
			Summary:     td.SummaryDescription,
			Category:    *td.Category,
			ReceiptsIn:  td.ReceiptsIn.Money,
			ReceiptsOut: td.ReceiptsOut.Money,
			CheckingIn:  td.CheckingIn.Money,
			CheckingOut: td.CheckingOut.Money,
		}
		for _, sd := range td.SubTransactions {
			if err := knownType(sd.Type); err != nil {
				return nil, fmt.Errorf("decode month: sub-transaction %q: %w", sd.Description, err)
			}
			txn.SubTransactions = append(txn.SubTransactions, ledger.SubTransaction{
				Description: sd.Description,
				Category:    categoryOrExpense(sd.Category),
				Type:        sd.Type,
				Amount:      sd.Amount.Money,
			})
		}
		if txn.Validate(doc.Date) != nil {
			return nil, fmt.Errorf("decode month: %w", ledger.NewParseError("transaction date",
				strconv.Itoa(td.Date), fmt.Errorf("day is outside %s", doc.Date)))
		}
		txns = append(txns, txn)
	}

	m := ledger.NewMonth(doc.Date, doc.OpeningBalance.Money, doc.ReceiptsCarriedForward.Money).
		WithTransactions(txns...)
	m.Closed = doc.IsClosed
	if rd := doc.Reconciliation; rd != nil {
		r := &ledger.Reconciliation{
			DateReconciled:    rd.DateReconciled.Time,
			StatementBalance:  rd.StatementBalance.Money,
			ReconciledBalance: rd.ReconciledBalance.Money,
		}
		for _, ud := range rd.UnreconciledTransactions {
			r.Unreconciled = append(r.Unreconciled, ledger.UnreconciledTransaction{
				Date:        ud.Date.Time,
				Description: ud.Description,
				Amount:      ud.Amount.Money,
			})
		}
		m.Reconciliation = r
	}
	return m, nil
}

// MarshalConfig encodes the congregation configuration as YAML.
func MarshalConfig(c *ledger.Config) ([]byte, error) {
	doc := configDocument{
		CongregationName:       c.CongregationName,
		CongregationCity:       c.CongregationCity,
		CongregationState:      c.CongregationState,
		AccountsSheetFormPath:  c.AccountsSheetFormPath,
		FundsTransferFormPath:  c.FundsTransferFormPath,
		AccountsReportFormPath: c.AccountsReportFormPath,
		RootDir:                c.RootDir,
		TransferDescription:    c.TransferDescription,
	}
	if !c.CurrentMonth.IsZero() {
		current := c.CurrentMonth
		doc.CurrentMonth = &current
	}
	for _, r := range c.BranchResolutions {
		category := r.Category
		doc.BranchResolutions = append(doc.BranchResolutions, branchResolutionDocument{
			Description: r.Description,
			Category:    &category,
			Type:        r.Type,
			Amount:      amount{r.Amount},
		})
	}
	return encode(doc)
}

// UnmarshalConfig decodes a YAML configuration document.
func UnmarshalConfig(data []byte) (*ledger.Config, error) {
	var doc configDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c := &ledger.Config{
		CongregationName:       doc.CongregationName,
		CongregationCity:       doc.CongregationCity,
		CongregationState:      doc.CongregationState,
		AccountsSheetFormPath:  doc.AccountsSheetFormPath,
		FundsTransferFormPath:  doc.FundsTransferFormPath,
		AccountsReportFormPath: doc.AccountsReportFormPath,
		RootDir:                doc.RootDir,
		TransferDescription:    doc.TransferDescription,
	}
	if doc.CurrentMonth != nil {
		c.CurrentMonth = *doc.CurrentMonth
	}
	for _, rd := range doc.BranchResolutions {
		if err := knownType(rd.Type); err != nil {
			return nil, fmt.Errorf("decode config: branch resolution %q: %w", rd.Description, err)
		}
		c.BranchResolutions = append(c.BranchResolutions, ledger.BranchResolution{
			Description: rd.Description,
			Category:    categoryOrExpense(rd.Category),
			Type:        rd.Type,
			Amount:      rd.Amount.Money,
		})
	}
	return c, nil
}

func encode(doc interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
