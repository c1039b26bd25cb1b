package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// walletRequest is the body of POST /wallets.
type walletRequest struct {
	Name string             `json:"name"`
	Type finance.WalletType `json:"type"`
}

// transactionRequest is the body of POST /wallets/{id}/transactions and
// POST /wallets/{id}/split.
type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Income      bool            `json:"income"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Friends     []string        `json:"friends"`
}

// amountRequest is the body of deposits, withdrawals and valuations.
type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// splitResponse is the outcome of a split expense.
type splitResponse struct {
	Transaction finance.Transaction `json:"transaction"`
	Debts       []finance.Debt      `json:"debts"`
}

// idResponse is returned when a record is created with nothing more to say.
type idResponse struct {
	ID int64 `json:"id"`
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", finance.ErrInvalid, err)
	}
	return nil
}

// pathID reads the {id} path variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", finance.ErrInvalid, mux.Vars(r)["id"])
	}
	return id, nil
}

func (s *Server) money(d decimal.Decimal) finance.Money { return finance.M(d, s.repo.Currency()) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.repo.Home(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	total, err := s.repo.NetWorth(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]finance.Money{"netWorth": total})
}

// handleMonthlySpend serves the current month spending, of all wallets or of
// the one in the "wallet" query parameter.
func (s *Server) handleMonthlySpend(w http.ResponseWriter, r *http.Request) {
	var walletID *int64
	if v := r.URL.Query().Get("wallet"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: bad wallet %q", finance.ErrInvalid, v))
			return
		}
		if _, err := s.repo.Wallet(r.Context(), id); err != nil {
			s.fail(w, r, err)
			return
		}
		walletID = &id
	}
	spend, err := s.repo.MonthlySpend(r.Context(), walletID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]finance.Money{"monthlySpend": spend})
}

// handleStats serves the spending breakdown, optionally restricted with the
// "period" (day, week, month, quarter, year) and "date" query parameters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var within *date.Range
	q := r.URL.Query()
	if p := q.Get("period"); p != "" {
		period, err := date.ParsePeriod(p)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: %v", finance.ErrInvalid, err))
			return
		}
		on := date.FromTime(s.repo.Now())
		if d := q.Get("date"); d != "" {
			if on, err = date.Parse(d); err != nil {
				s.fail(w, r, fmt.Errorf("%w: %v", finance.ErrInvalid, err))
				return
			}
		}
		rg := date.NewRange(on, period)
		within = &rg
	}
	stats, err := s.repo.SpendingStats(r.Context(), within)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.repo.Holdings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.repo.AddWallet(r.Context(), req.Name, req.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wallet, err := s.repo.Wallet(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.created("wallet", 1)
	writeJSON(w, http.StatusCreated, wallet)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := s.repo.WalletDetail(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.Wallet(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	txs, err := s.repo.TransactionsForWallet(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tx, err := s.repo.RecordTransaction(r.Context(), id, s.money(req.Amount), !req.Income, req.Category, req.Description)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.created("transaction", 1)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tx, debts, err := s.repo.RecordSplitExpense(r.Context(), id, s.money(req.Amount), req.Category, req.Description, req.Friends)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.created("transaction", 1)
	s.metrics.created("debt", len(debts))
	writeJSON(w, http.StatusCreated, splitResponse{Transaction: tx, Debts: nonNil(debts)})
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.Wallet(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	debts, err := s.repo.DebtsForWallet(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(debts))
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.SettleDebt(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCapital serves deposits when deposit is true, withdrawals otherwise.
func (s *Server) handleCapital(deposit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var req amountRequest
		if err := decode(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		move := s.repo.WithdrawCapital
		if deposit {
			move = s.repo.DepositCapital
		}
		tx, err := move(r.Context(), id, s.money(req.Amount))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.created("transaction", 1)
		writeJSON(w, http.StatusCreated, tx)
	}
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.Wallet(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	snaps, err := s.repo.Snapshots(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(snaps))
}

func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req amountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.repo.UpdateValuation(r.Context(), id, s.money(req.Amount))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.created("snapshot", 1)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.repo.Wallet(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	perf, err := s.repo.InvestmentPerformance(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

// nonNil turns a nil list into an empty one, so that it encodes as [].
func nonNil[T any](l []T) []T {
	if l == nil {
		return []T{}
	}
	return l
}
