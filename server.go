package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/forms"
	"github.com/Zachkp/folio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"markdown": content.Markdown,
	"lower":    strings.ToLower,
	"join":     strings.Join,
	// stars returns five flags, the first n set, for a star rating row.
	"stars": func(n int) []bool {
		out := make([]bool, 5)
		for i := range out {
			out[i] = i < n
		}
		return out
	},
	"ratings": func() []int { return []int{1, 2, 3, 4, 5} },
	"ms":      func(d time.Duration) int64 { return d.Milliseconds() },
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}

// server holds everything the HTTP handlers share.
type server struct {
	cfg       *config.Config
	portfolio *content.Portfolio
	desk      *forms.Desk
	// visits is nil when tracking is disabled.
	visits     *store.Store
	logger     *slog.Logger
	tmpl       *template.Template
	adminToken string

	// pending tracks background visit writes.
	pending sync.WaitGroup
}

func newServer(cfg *config.Config, p *content.Portfolio, visits *store.Store, logger *slog.Logger) (*server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:        cfg,
		portfolio:  p,
		desk:       forms.NewDesk(logger),
		visits:     visits,
		logger:     logger,
		tmpl:       tmpl,
		adminToken: token,
	}, nil
}

// wait blocks until queued visit writes have finished.
func (s *server) wait() { s.pending.Wait() }

// router builds the gin engine with every route.
func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	if s.visits != nil && s.cfg.Tracking.Enabled {
		r.Use(s.trackVisitors())
	}
	r.SetHTMLTemplate(s.tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	s.setupSiteRoutes(r)
	if s.cfg.Admin.Enabled {
		s.setupAdminRoutes(r)
	}
	return r
}

// requestLogger writes one slog record per request. Client addresses are
// never logged.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
