// Package server exposes the statement pipeline as a JSON API for a browser dashboard.
//
// A browser session is identified by the X-Session-ID header returned by the upload
// endpoint. Every session has its own table and filter selection.
package server

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HeaderSessionID carries the session id in requests and upload responses.
const HeaderSessionID = "X-Session-ID"

// DefaultMaxRequestBytes caps an upload request when Options does not.
const DefaultMaxRequestBytes = 4 * camsfolio.DefaultMaxSize

// Options tunes the HTTP layer.
type Options struct {
	AllowedOrigins  []string // empty allows every origin
	RateLimitRPS    float64  // 0 disables rate limiting
	RateLimitBurst  int
	MaxRequestBytes int64 // upload request body limit, defaults to DefaultMaxRequestBytes
}

// Server serves the API.
type Server struct {
	store    *session.Store
	ingester *camsfolio.Ingester
	navs     camsfolio.NAVSource
	engine   *gin.Engine

	maxRequestBytes int64
}

// New creates a server ingesting statements with ingester and pricing them with navs.
func New(store *session.Store, ingester *camsfolio.Ingester, navs camsfolio.NAVSource, opts Options) *Server {
	registerValidations()
	s := &Server{store: store, ingester: ingester, navs: navs, maxRequestBytes: opts.MaxRequestBytes}
	if s.maxRequestBytes <= 0 {
		s.maxRequestBytes = DefaultMaxRequestBytes
	}

	r := gin.New()
	r.Use(accessLogger(logrus.StandardLogger()))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)))
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api := r.Group("/api")
	api.POST("/statements", s.uploadStatements)
	api.GET("/summary", s.withTable(s.getSummary))
	api.GET("/filters", s.withTable(s.getFilters))
	api.POST("/filters/toggle", s.withTable(s.toggleFilter))
	api.POST("/filters/reset", s.withTable(s.resetFilters))
	api.GET("/transactions", s.withTable(s.getTransactions))
	api.GET("/export/summary.csv", s.withTable(s.exportSummaryCSV))
	api.GET("/export/transactions.csv", s.withTable(s.exportTransactionsCSV))
	api.GET("/export/workbook.xlsx", s.withTable(s.exportWorkbook))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	s.engine = r
	return s
}

// Handler returns the http.Handler of the API.
func (s *Server) Handler() http.Handler { return s.engine }

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowHeaders(HeaderSessionID)
	cfg.AddExposeHeaders(HeaderSessionID, "Content-Disposition")
	return cfg
}

func rateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			logrus.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"remote": c.ClientIP(),
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": http.StatusText(http.StatusTooManyRequests)})
			return
		}
		c.Next()
	}
}

// accessLogger logs every request, and its errors.
func accessLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Debug("request")
	}
}

var panRE = regexp.MustCompile(`^[A-Za-z]{5}[0-9]{4}[A-Za-z]$`)

var registerOnce sync.Once

// registerValidations adds the "pan" tag to gin's validator.
func registerValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
				return panRE.MatchString(fl.Field().String())
			})
		}
	})
}

// withTable resolves the session of the request, and fails unless it has a table.
func (s *Server) withTable(h func(*gin.Context, *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.store.Get(c.GetHeader(HeaderSessionID))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session, upload statements first"})
			return
		}
		loaded := false
		sess.Update(func(st *session.State) { loaded = st.Table != nil })
		if !loaded {
			c.JSON(http.StatusNotFound, gin.H{"error": "no statement loaded"})
			return
		}
		h(c, sess)
	}
}
