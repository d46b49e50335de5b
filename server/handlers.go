package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fileErrorJSON struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func fileErrors(errs []*camsfolio.FileError) []fileErrorJSON {
	res := make([]fileErrorJSON, len(errs))
	for i, e := range errs {
		res[i] = fileErrorJSON{File: e.File, Kind: e.Kind(), Message: e.Err.Error()}
	}
	return res
}

type uploadResponse struct {
	SessionID string          `json:"session_id"`
	Accepted  []string        `json:"accepted"`
	Errors    []fileErrorJSON `json:"errors"`
	Gaps      []camsfolio.Gap `json:"gaps"`
	Rows      int             `json:"rows"`
	Error     string          `json:"error,omitempty"`
}

// maxPasswordLen bounds a "passwords" form value.
const maxPasswordLen = 1 << 10

// uploadStatements ingests the multipart "files", with their "passwords" in the same
// order. A single password applies to every file.
func (s *Server) uploadStatements(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxRequestBytes)
	statements, passwords, err := s.readStatements(c.Request)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request exceeds the %d bytes limit", tooLarge.Limit)})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a multipart form: " + err.Error()})
		return
	case len(statements) == 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	for i := range statements {
		statements[i].Password = password(passwords, i)
	}

	batch := s.ingester.Ingest(c.Request.Context(), statements...)
	table, gaps, err := batch.Normalize()

	sess, ok := s.store.Get(c.GetHeader(HeaderSessionID))
	if !ok {
		sess = s.store.New()
	}
	c.Header(HeaderSessionID, sess.ID)

	resp := uploadResponse{
		SessionID: sess.ID,
		Accepted:  []string{},
		Errors:    fileErrors(batch.Errors),
		Gaps:      append([]camsfolio.Gap{}, gaps...),
		Rows:      table.Len(),
	}
	for _, t := range batch.Tables {
		resp.Accepted = append(resp.Accepted, t.Source)
	}
	if errors.Is(err, camsfolio.ErrNoData) {
		resp.Error = err.Error()
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	sess.Load(table, gaps, batch.Errors)
	logrus.WithFields(logrus.Fields{"session": sess.ID, "rows": table.Len(), "rejected": len(batch.Errors)}).Info("statements loaded")
	c.JSON(http.StatusOK, resp)
}

// password returns the password of the i-th file.
func password(passwords []string, i int) string {
	switch {
	case len(passwords) == 1:
		return passwords[0]
	case i < len(passwords):
		return passwords[i]
	}
	return ""
}

// readStatements streams the multipart parts of r. Nothing is written to disk.
func (s *Server) readStatements(r *http.Request) ([]camsfolio.Statement, []string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, err
	}
	var (
		statements []camsfolio.Statement
		passwords  []string
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return statements, passwords, nil
		}
		if err != nil {
			return nil, nil, err
		}
		switch part.FormName() {
		case "passwords":
			value, err := io.ReadAll(io.LimitReader(part, maxPasswordLen))
			if err != nil {
				return nil, nil, err
			}
			passwords = append(passwords, string(value))
		case "files":
			st, err := s.readStatement(part)
			if err != nil {
				return nil, nil, err
			}
			statements = append(statements, st)
		}
		// discards what was not read
		if err := part.Close(); err != nil {
			return nil, nil, err
		}
	}
}

// readStatement keeps the content of a file part in memory, up to the size limit.
// The content of a part the ingester rejects on its name is never read, and an
// oversize part keeps no content: Ingest reports both.
func (s *Server) readStatement(part *multipart.Part) (camsfolio.Statement, error) {
	st := camsfolio.Statement{Name: part.FileName()}
	if err := s.ingester.Validate(st); err != nil {
		return st, nil
	}
	limit := s.ingester.SizeLimit()
	content, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return st, err
	}
	st.Size = int64(len(content))
	if st.Size > limit {
		return st, nil
	}
	st.Open = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil }
	return st, nil
}

type summaryResponse struct {
	Rows       []camsfolio.SummaryRow `json:"rows"`
	Totals     camsfolio.Totals       `json:"totals"`
	NAVWarning string                 `json:"nav_warning,omitempty"`
}

func (s *Server) valuate(sess *session.Session) (rows []camsfolio.SummaryRow, navErr error) {
	sess.Update(func(st *session.State) {
		v := camsfolio.Valuate(st.Table, s.navs)
		rows, navErr = v.Filter(st.Filter), v.NAVErr
	})
	if rows == nil {
		rows = []camsfolio.SummaryRow{}
	}
	return rows, navErr
}

func (s *Server) getSummary(c *gin.Context, sess *session.Session) {
	rows, navErr := s.valuate(sess)
	resp := summaryResponse{Rows: rows, Totals: camsfolio.TotalsOf(rows)}
	if navErr != nil {
		resp.NAVWarning = navErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type ownerJSON struct {
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

type filtersResponse struct {
	Owners     []ownerJSON           `json:"owners"`
	FundGroups []camsfolio.FundGroup `json:"fund_groups"`
}

func filters(f *camsfolio.FilterState) filtersResponse {
	resp := filtersResponse{Owners: []ownerJSON{}, FundGroups: f.FundGroups()}
	for _, o := range f.AllOwners() {
		resp.Owners = append(resp.Owners, ownerJSON{Value: o, Checked: f.OwnerSelected(o)})
	}
	return resp
}

func (s *Server) getFilters(c *gin.Context, sess *session.Session) {
	var resp filtersResponse
	sess.Update(func(st *session.State) { resp = filters(st.Filter) })
	c.JSON(http.StatusOK, resp)
}

type toggleRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=owner fund group"`
	Value string `json:"value" binding:"required,max=256"`
}

func (s *Server) toggleFilter(c *gin.Context, sess *session.Session) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		ok   bool
		resp filtersResponse
	)
	sess.Update(func(st *session.State) {
		switch req.Kind {
		case "owner":
			ok = st.Filter.ToggleOwner(req.Value)
		case "fund":
			ok = st.Filter.ToggleFund(req.Value)
		case "group":
			ok = st.Filter.ToggleGroup(req.Value)
		}
		resp = filters(st.Filter)
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown " + req.Kind + ": " + req.Value})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) resetFilters(c *gin.Context, sess *session.Session) {
	var resp filtersResponse
	sess.Update(func(st *session.State) {
		st.Filter.Reset(st.Table)
		resp = filters(st.Filter)
	})
	c.JSON(http.StatusOK, resp)
}

// transactionQuery are the query parameters of the transactions endpoints.
type transactionQuery struct {
	From   string   `form:"from"`
	To     string   `form:"to"`
	Min    string   `form:"min" binding:"omitempty,numeric"`
	Max    string   `form:"max" binding:"omitempty,numeric"`
	Types  []string `form:"type" binding:"dive,oneof=buy sell dividend other Buy Sell Dividend Other"`
	Folios []string `form:"folio"`
	PANs   []string `form:"pan" binding:"dive,pan"`
}

// filter builds the TransactionFilter of the query on top of the session selection.
func (q transactionQuery) filter(state *camsfolio.FilterState) (camsfolio.TransactionFilter, error) {
	f := camsfolio.TransactionFilter{State: state, Folios: q.Folios}
	if q.From != "" || q.To != "" {
		var r camsfolio.Range
		var err error
		if q.From != "" {
			if r.From, err = camsfolio.ParseDate(q.From); err != nil {
				return f, err
			}
		}
		if q.To != "" {
			if r.To, err = camsfolio.ParseDate(q.To); err != nil {
				return f, err
			}
		}
		f.Dates = &r
	}
	if q.Min != "" || q.Max != "" {
		var r camsfolio.AmountRange
		if q.Min != "" {
			m, err := decimal.NewFromString(q.Min)
			if err != nil {
				return f, err
			}
			r.Min = &m
		}
		if q.Max != "" {
			m, err := decimal.NewFromString(q.Max)
			if err != nil {
				return f, err
			}
			r.Max = &m
		}
		f.Amounts = &r
	}
	for _, t := range q.Types {
		f.Types = append(f.Types, camsfolio.ParseTxnType(t))
	}
	return f, nil
}

// transactions returns the session transactions matching the request query.
func (s *Server) transactions(c *gin.Context, sess *session.Session) (*camsfolio.Table, bool) {
	var q transactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	var (
		res *camsfolio.Table
		err error
	)
	sess.Update(func(st *session.State) {
		var f camsfolio.TransactionFilter
		if f, err = q.filter(st.Filter); err != nil {
			return
		}
		res = f.Apply(st.Table)
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(q.PANs) > 0 {
		res = ownedBy(res, q.PANs)
	}
	return res, true
}

// ownedBy narrows t to the transactions of the given PANs.
func ownedBy(t *camsfolio.Table, pans []string) *camsfolio.Table {
	var rows []camsfolio.Transaction
	for tx := range t.All() {
		for _, p := range pans {
			if strings.EqualFold(tx.Owner, p) {
				rows = append(rows, tx)
				break
			}
		}
	}
	return camsfolio.NewTable(rows...)
}

type transactionJSON struct {
	Owner        string              `json:"pan"`
	Folio        string              `json:"folio_num"`
	Fund         string              `json:"fund_name"`
	ISIN         string              `json:"isin,omitempty"`
	SchemeCode   string              `json:"scheme_code,omitempty"`
	Date         camsfolio.Date      `json:"date"`
	Type         string              `json:"txn"`
	Amount       decimal.NullDecimal `json:"amount"`
	Units        decimal.NullDecimal `json:"units"`
	Price        decimal.NullDecimal `json:"nav"`
	BalanceUnits decimal.NullDecimal `json:"balance_units"`
	Source       string              `json:"source_file"`
	CurrentNAV   *camsfolio.Money    `json:"current_nav"` // null when the ISIN has no scheme
	CurrentValue camsfolio.Money     `json:"current_value"`
	Gain         camsfolio.Money     `json:"unrealized_gain"`
	TodaysGain   camsfolio.Money     `json:"todays_gain"`
}

type transactionsResponse struct {
	Rows       []transactionJSON           `json:"rows"`
	Stats      camsfolio.TransactionStats  `json:"stats"`
	Totals     camsfolio.TransactionTotals `json:"totals"`
	NAVWarning string                      `json:"nav_warning,omitempty"`
}

func (s *Server) getTransactions(c *gin.Context, sess *session.Session) {
	t, ok := s.transactions(c, sess)
	if !ok {
		return
	}
	v := camsfolio.ValueTransactions(t, s.navs)
	resp := transactionsResponse{Rows: []transactionJSON{}, Stats: camsfolio.Stats(t), Totals: v.Totals()}
	if v.NAVErr != nil {
		resp.NAVWarning = v.NAVErr.Error()
	}
	for _, tv := range v.Rows {
		tx := tv.Transaction
		row := transactionJSON{
			Owner: tx.Owner, Folio: tx.Folio, Fund: tx.Fund, ISIN: tx.ISIN, SchemeCode: tx.SchemeCode,
			Date: tx.Date, Type: tx.TypeLabel(),
			Amount: tx.Amount, Units: tx.Units, Price: tx.Price, BalanceUnits: tx.BalanceUnits,
			Source:       tx.Source,
			CurrentValue: tv.CurrentValue, Gain: tv.Gain, TodaysGain: tv.TodaysGain,
		}
		if tv.Matched {
			row.CurrentNAV = &tv.CurrentNAV
		}
		resp.Rows = append(resp.Rows, row)
	}
	c.JSON(http.StatusOK, resp)
}
