package server

import (
	"net/http"

	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/session"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func attachment(c *gin.Context, name, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+name)
}

func (s *Server) exportSummaryCSV(c *gin.Context, sess *session.Session) {
	rows, _ := s.valuate(sess)
	attachment(c, "investment_summary.csv", "text/csv; charset=utf-8")
	if err := camsfolio.WriteSummaryCSV(c.Writer, rows); err != nil {
		c.Error(err)
	}
}

func (s *Server) exportTransactionsCSV(c *gin.Context, sess *session.Session) {
	t, ok := s.transactions(c, sess)
	if !ok {
		return
	}
	attachment(c, "transactions.csv", "text/csv; charset=utf-8")
	if err := camsfolio.WriteTransactionsCSV(c.Writer, t); err != nil {
		c.Error(err)
	}
}

// exportWorkbook writes the selected summary and every transaction of the session.
func (s *Server) exportWorkbook(c *gin.Context, sess *session.Session) {
	rows, _ := s.valuate(sess)
	var table *camsfolio.Table
	sess.Update(func(st *session.State) { table = st.Table })
	attachment(c, "mutual_fund_analysis.xlsx", xlsxContentType)
	if err := camsfolio.WriteWorkbook(c.Writer, rows, table); err != nil {
		c.Error(err)
		c.Status(http.StatusInternalServerError)
	}
}
