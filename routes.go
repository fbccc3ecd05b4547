package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/forms"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
)

// pageData is handed to every site template.
type pageData struct {
	P             *content.Portfolio
	Titles        []string
	Projects      []content.Project
	Technologies  []string
	Categories    []string
	Tech          string
	Category      string
	Stats         content.ProjectStats
	Skills        []content.SkillCategory
	SkillGroups   []string
	SkillCategory string
	Rotation      time.Duration
	Year          int
}

func (s *server) pageData(c *gin.Context) pageData {
	p := s.portfolio
	tech := c.DefaultQuery("tech", content.All)
	category := c.DefaultQuery("category", content.All)
	skill := c.DefaultQuery("skill", content.All)
	return pageData{
		P:             p,
		Titles:        p.Info.Titles(),
		Projects:      p.FilterProjects(tech, category),
		Technologies:  p.Technologies(),
		Categories:    p.Categories(),
		Tech:          tech,
		Category:      category,
		Stats:         p.Stats(),
		Skills:        p.FilterSkills(skill),
		SkillGroups:   p.SkillCategories(),
		SkillCategory: skill,
		Rotation:      page.DefaultRotation,
		Year:          time.Now().Year(),
	}
}

// formData is handed to the form templates.
type formData struct {
	Contact   forms.Contact
	Reference forms.Reference
	Errors    map[string]string
	Receipt   forms.Receipt
}

func (s *server) setupSiteRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", s.pageData(c))
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// HTMX section fragment
	r.GET("/sections/:id", func(c *gin.Context) {
		id := c.Param("id")
		name := "section-" + id
		if _, err := s.portfolio.Section(id); err != nil || s.tmpl.Lookup(name) == nil {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Section not found"})
			return
		}
		c.HTML(http.StatusOK, name, s.pageData(c))
	})

	r.GET("/projects", func(c *gin.Context) {
		c.HTML(http.StatusOK, "projects-grid", s.pageData(c))
	})

	r.GET("/skills", func(c *gin.Context) {
		c.HTML(http.StatusOK, "skills-grid", s.pageData(c))
	})

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form", formData{})
	})

	r.POST("/contact", func(c *gin.Context) {
		var form forms.Contact
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusOK, "contact-form", formData{Contact: form, Errors: map[string]string{"form": "Could not read the form"}})
			return
		}
		receipt, err := s.desk.SubmitContact(form)
		var verr forms.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusOK, "contact-form", formData{Contact: form, Errors: verr})
			return
		}
		c.HTML(http.StatusOK, "contact-success", formData{Receipt: receipt})
	})

	r.GET("/reference-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "reference-form", formData{})
	})

	r.POST("/references", func(c *gin.Context) {
		var form forms.Reference
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusOK, "reference-form", formData{Reference: form, Errors: map[string]string{"rating": "pick between 1 and 5 stars"}})
			return
		}
		receipt, err := s.desk.SubmitReference(form)
		var verr forms.ValidationError
		if errors.As(err, &verr) {
			c.HTML(http.StatusOK, "reference-form", formData{Reference: form, Errors: verr})
			return
		}
		c.HTML(http.StatusOK, "reference-success", formData{Receipt: receipt})
	})

	r.GET("/motion/effects.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, effectsJSON())
	})

	r.GET("/motion/sections.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.choreographyJSON())
	})

	r.GET("/contact/qr.png", func(c *gin.Context) {
		email := s.portfolio.Info.Email
		if email == "" {
			c.Status(http.StatusNotFound)
			return
		}
		png, err := qrcode.Encode("mailto:"+email, qrcode.Medium, s.cfg.Content.QRSize)
		if err != nil {
			s.logger.Error("encoding contact qr code", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, "image/png", png)
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":      "Privacy Policy",
			"tracking":   s.visits != nil && s.cfg.Tracking.Enabled,
			"respectDNT": s.cfg.Tracking.RespectDNT,
			"retention":  int(s.cfg.Tracking.Retention.Hours() / 24),
		})
	})
}

type effectJSON struct {
	Name       motion.Effect `json:"name"`
	From       motion.Style  `json:"from"`
	To         motion.Style  `json:"to"`
	DurationMS int64         `json:"duration_ms"`
	Ease       string        `json:"ease"`
}

func effectsJSON() []effectJSON {
	defs := motion.Effects()
	out := make([]effectJSON, len(defs))
	for i, d := range defs {
		out[i] = effectJSON{Name: d.Name, From: d.From, To: d.To, DurationMS: d.Duration.Milliseconds(), Ease: d.Ease}
	}
	return out
}

type particlesJSON struct {
	Enabled    bool         `json:"enabled"`
	Count      int          `json:"count"`
	IntervalMS int64        `json:"interval_ms"`
	StaggerMS  int64        `json:"stagger_ms"`
	Colors     []string     `json:"colors"`
	Size       motion.Range `json:"size"`
	Lifetime   motion.Range `json:"lifetime"`
	Rise       motion.Range `json:"rise"`
	Drift      motion.Range `json:"drift"`
	Ease       string       `json:"ease"`
	Bound      int          `json:"bound"`
}

type choreographyJSON struct {
	Viewport         motion.Viewport    `json:"viewport"`
	HeaderOffset     float64            `json:"header_offset"`
	ScrollDurationMS int64              `json:"scroll_duration_ms"`
	ScrollEase       string             `json:"scroll_ease"`
	Particles        particlesJSON      `json:"particles"`
	Sections         []page.SectionPlan `json:"sections"`
}

func (s *server) choreographyJSON() choreographyJSON {
	m := s.cfg.Motion
	vp := viewport(m)
	pc := particleConfig(m.Particles)
	return choreographyJSON{
		Viewport:         vp,
		HeaderOffset:     m.HeaderOffset,
		ScrollDurationMS: m.ScrollDuration.Milliseconds(),
		ScrollEase:       m.ScrollEase,
		Particles: particlesJSON{
			Enabled:    m.Particles.Enabled,
			Count:      pc.Count,
			IntervalMS: pc.Interval.Milliseconds(),
			StaggerMS:  pc.Stagger.Milliseconds(),
			Colors:     pc.Colors,
			Size:       pc.Size,
			Lifetime:   pc.Lifetime,
			Rise:       pc.Rise,
			Drift:      pc.Drift,
			Ease:       pc.Ease,
			Bound:      pc.Bound(),
		},
		Sections: page.Plan(s.portfolio, page.DefaultLayout(vp)),
	}
}

func viewport(m config.MotionConfig) motion.Viewport {
	return motion.Viewport{Width: m.Viewport.Width, Height: m.Viewport.Height}
}

// particleConfig overlays the configured counts and timings on the default
// particle look.
func particleConfig(p config.ParticlesConfig) motion.ParticleConfig {
	pc := motion.DefaultParticleConfig()
	pc.Count = p.Count
	pc.Interval = p.Interval
	pc.Stagger = p.Stagger
	pc.Lifetime = motion.Range{Min: p.LifetimeMin, Max: p.LifetimeMax}
	return pc
}
