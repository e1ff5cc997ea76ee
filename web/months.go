package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/robinvdvleuten/accounts/ledger"
	"github.com/robinvdvleuten/accounts/reports"
	"github.com/robinvdvleuten/accounts/storage"
	"go.uber.org/zap"
)

func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeTextResponse(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// writeError maps store and ledger errors to a status code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case ledger.IsParseError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commitSha,omitempty"`
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, &VersionResponse{Version: s.Version, CommitSHA: s.CommitSHA})
}

type ConfigResponse struct {
	CongregationName    string                     `json:"congregationName"`
	CongregationCity    string                     `json:"congregationCity"`
	CongregationState   string                     `json:"congregationState"`
	CurrentMonth        *ledger.YearMonth          `json:"currentMonth,omitempty"`
	TransferDescription string                     `json:"transferDescription"`
	BranchResolutions   []BranchResolutionResponse `json:"branchResolutions"`
}

type BranchResolutionResponse struct {
	Description string                `json:"description"`
	Category    ledger.Category       `json:"category"`
	Type        ledger.ResolutionType `json:"type"`
	Amount      ledger.Money          `json:"amount"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.ReadConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := &ConfigResponse{
		CongregationName:    cfg.CongregationName,
		CongregationCity:    cfg.CongregationCity,
		CongregationState:   cfg.CongregationState,
		TransferDescription: cfg.Transfer(),
		BranchResolutions:   make([]BranchResolutionResponse, 0, len(cfg.BranchResolutions)),
	}
	if !cfg.CurrentMonth.IsZero() {
		resp.CurrentMonth = &cfg.CurrentMonth
	}
	for _, br := range cfg.BranchResolutions {
		resp.BranchResolutions = append(resp.BranchResolutions, BranchResolutionResponse(br))
	}
	writeJSONResponse(w, resp)
}

type MonthsResponse struct {
	Months []ledger.YearMonth `json:"months"`
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.store.ListMonths(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if months == nil {
		months = []ledger.YearMonth{}
	}
	writeJSONResponse(w, &MonthsResponse{Months: months})
}

type MonthResponse struct {
	Date                   ledger.YearMonth        `json:"date"`
	OpeningBalance         ledger.Money            `json:"openingBalance"`
	ReceiptsCarriedForward ledger.Money            `json:"receiptsCarriedForward"`
	Closed                 bool                    `json:"closed"`
	Transactions           []TransactionResponse   `json:"transactions"`
	Reconciliation         *ReconciliationResponse `json:"reconciliation,omitempty"`
}

type TransactionResponse struct {
	Date            string                   `json:"date"`
	Description     string                   `json:"description"`
	Summary         string                   `json:"summary"`
	Category        ledger.Category          `json:"category"`
	ReceiptsIn      ledger.Money             `json:"receiptsIn"`
	ReceiptsOut     ledger.Money             `json:"receiptsOut"`
	CheckingIn      ledger.Money             `json:"checkingIn"`
	CheckingOut     ledger.Money             `json:"checkingOut"`
	SubTransactions []SubTransactionResponse `json:"subTransactions,omitempty"`
}

type SubTransactionResponse struct {
	Description string                `json:"description"`
	Category    ledger.Category       `json:"category"`
	Type        ledger.ResolutionType `json:"type"`
	Amount      ledger.Money          `json:"amount"`
}

type ReconciliationResponse struct {
	DateReconciled    string                 `json:"dateReconciled"`
	StatementBalance  ledger.Money           `json:"statementBalance"`
	ReconciledBalance ledger.Money           `json:"reconciledBalance"`
	Unreconciled      []UnreconciledResponse `json:"unreconciled"`
}

type UnreconciledResponse struct {
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Amount      ledger.Money `json:"amount"`
}

func newMonthResponse(m *ledger.AccountsMonth) *MonthResponse {
	resp := &MonthResponse{
		Date:                   m.Date,
		OpeningBalance:         m.OpeningBalance,
		ReceiptsCarriedForward: m.ReceiptsCarriedForward,
		Closed:                 m.Closed,
		Transactions:           make([]TransactionResponse, 0, m.Len()),
	}
	for _, txn := range m.Transactions() {
		tr := TransactionResponse{
			Date:        ledger.FormatDate(m.Date.Day(txn.Day)),
			Description: txn.Description,
			Summary:     txn.SummaryDescription(),
			Category:    txn.Category,
			ReceiptsIn:  txn.ReceiptsIn,
			ReceiptsOut: txn.ReceiptsOut,
			CheckingIn:  txn.CheckingIn,
			CheckingOut: txn.CheckingOut,
		}
		for _, sub := range txn.SubTransactions {
			tr.SubTransactions = append(tr.SubTransactions, SubTransactionResponse(sub))
		}
		resp.Transactions = append(resp.Transactions, tr)
	}
	if rec := m.Reconciliation; rec != nil {
		rr := &ReconciliationResponse{
			DateReconciled:    ledger.FormatDate(rec.DateReconciled),
			StatementBalance:  rec.StatementBalance,
			ReconciledBalance: rec.ReconciledBalance,
			Unreconciled:      make([]UnreconciledResponse, 0, len(rec.Unreconciled)),
		}
		for _, u := range rec.Unreconciled {
			rr.Unreconciled = append(rr.Unreconciled, UnreconciledResponse{
				Date:        ledger.FormatDate(u.Date),
				Description: u.Description,
				Amount:      u.Amount,
			})
		}
		resp.Reconciliation = rr
	}
	return resp
}

// readMonth loads the month named by the {month} path value.
func (s *Server) readMonth(w http.ResponseWriter, r *http.Request) (*ledger.AccountsMonth, bool) {
	date, err := ledger.ParseYearMonth(r.PathValue("month"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	month, err := s.store.ReadMonth(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return month, true
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := s.readMonth(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, newMonthResponse(month))
}

type TotalsResponse struct {
	TotalCongregationReceipts  ledger.Money `json:"totalCongregationReceipts"`
	TotalWorldwideReceipts     ledger.Money `json:"totalWorldwideReceipts"`
	TotalReceiptsIn            ledger.Money `json:"totalReceiptsIn"`
	TotalReceiptsOut           ledger.Money `json:"totalReceiptsOut"`
	TotalCheckingIn            ledger.Money `json:"totalCheckingIn"`
	TotalCheckingOut           ledger.Money `json:"totalCheckingOut"`
	TotalCongregationExpenses  ledger.Money `json:"totalCongregationExpenses"`
	TotalWorldwideTransfer     ledger.Money `json:"totalWorldwideTransfer"`
	ReceiptsOutstandingBalance ledger.Money `json:"receiptsOutstandingBalance"`
	CheckingBalance            ledger.Money `json:"checkingBalance"`
	TotalOfAllBalances         ledger.Money `json:"totalOfAllBalances"`
}

func (s *Server) handleGetTotals(w http.ResponseWriter, r *http.Request) {
	month, ok := s.readMonth(w, r)
	if !ok {
		return
	}
	totals, err := month.Totals()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := TotalsResponse(totals)
	writeJSONResponse(w, &resp)
}

func (s *Server) handleGetCheckbook(w http.ResponseWriter, r *http.Request) {
	month, ok := s.readMonth(w, r)
	if !ok {
		return
	}
	var b strings.Builder
	reports.RenderCheckbook(&b, month)
	writeTextResponse(w, "text/plain", b.String())
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := s.readMonth(w, r)
	if !ok {
		return
	}
	md, err := reports.Summary(month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeTextResponse(w, "text/markdown", md)
}
