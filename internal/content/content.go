// Package content holds the portfolio data rendered by the site and laid out
// by the page choreography.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

// ErrUnknownSection is returned when a section id is not part of the page.
var ErrUnknownSection = errors.New("unknown section")

// Portfolio is everything shown on the page.
type Portfolio struct {
	Info         Info            `yaml:"info" json:"info"`
	Sections     []NavSection    `yaml:"sections" json:"sections"`
	Education    []Education     `yaml:"education" json:"education"`
	Achievements []Achievement   `yaml:"achievements" json:"achievements"`
	Services     []Service       `yaml:"services" json:"services"`
	Projects     []Project       `yaml:"projects" json:"projects"`
	Skills       []SkillCategory `yaml:"skills" json:"skills"`
	References   []Reference     `yaml:"references" json:"references"`
}

// Info is the personal header block. About is markdown.
type Info struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title"`
	About       string `yaml:"about" json:"about"`
	Quote       string `yaml:"quote" json:"quote"`
	QuoteAuthor string `yaml:"quote_author" json:"quote_author"`
	Resume      string `yaml:"resume" json:"resume"`
	Profile     string `yaml:"profile" json:"profile"`
	Email       string `yaml:"email" json:"email"`
	LinkedIn    string `yaml:"linkedin" json:"linkedin"`
	Behance     string `yaml:"behance" json:"behance"`
}

// Titles splits the pipe separated headline into its parts.
func (i Info) Titles() []string {
	var out []string
	for _, p := range strings.Split(i.Title, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NavSection is one entry of the navigation bar, in page order.
type NavSection struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Education struct {
	Degree      string `yaml:"degree" json:"degree"`
	Institution string `yaml:"institution" json:"institution"`
	Year        string `yaml:"year" json:"year"`
	Description string `yaml:"description" json:"description"`
}

type Achievement struct {
	Title       string `yaml:"title" json:"title"`
	Year        string `yaml:"year" json:"year"`
	Description string `yaml:"description" json:"description"`
}

type Service struct {
	Title        string   `yaml:"title" json:"title"`
	Icon         string   `yaml:"icon" json:"icon"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Image        string   `yaml:"image" json:"image"`
	Category     string   `yaml:"category" json:"category"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Year         string   `yaml:"year" json:"year"`
	Role         string   `yaml:"role" json:"role"`
	Demo         string   `yaml:"demo" json:"demo"`
	Code         string   `yaml:"code" json:"code"`
	Features     []string `yaml:"features" json:"features"`
}

// Leadership reports whether the project role was a leading one.
func (p Project) Leadership() bool { return strings.Contains(p.Role, "Leader") }

type SkillCategory struct {
	Category string  `yaml:"category" json:"category"`
	Items    []Skill `yaml:"items" json:"items"`
}

type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Proficiency int    `yaml:"proficiency" json:"proficiency"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Reference struct {
	Name     string `yaml:"name" json:"name"`
	Role     string `yaml:"role" json:"role"`
	Email    string `yaml:"email" json:"email"`
	Rating   int    `yaml:"rating" json:"rating"`
	Feedback string `yaml:"feedback" json:"feedback"`
}

// Default returns the portfolio compiled into the binary.
func Default() (*Portfolio, error) {
	return Parse(defaultPortfolio)
}

// Load reads a portfolio from a YAML file. An empty path loads the built-in
// portfolio.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("reading portfolio: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML portfolio.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the page cannot render without.
func (p *Portfolio) Validate() error {
	var errs []error
	if p.Info.Name == "" {
		errs = append(errs, errors.New("info.name is required"))
	}
	if len(p.Sections) == 0 {
		errs = append(errs, errors.New("at least one section is required"))
	}
	seen := make(map[string]bool, len(p.Sections))
	for i, s := range p.Sections {
		switch {
		case s.ID == "":
			errs = append(errs, fmt.Errorf("sections[%d]: id is required", i))
		case seen[s.ID]:
			errs = append(errs, fmt.Errorf("sections[%d]: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
	}
	for i, s := range p.Skills {
		for j, it := range s.Items {
			if it.Proficiency < 0 || it.Proficiency > 100 {
				errs = append(errs, fmt.Errorf("skills[%d].items[%d]: proficiency %d out of range", i, j, it.Proficiency))
			}
		}
	}
	for i, r := range p.References {
		if r.Rating < 0 || r.Rating > 5 {
			errs = append(errs, fmt.Errorf("references[%d]: rating %d out of range", i, r.Rating))
		}
	}
	return errors.Join(errs...)
}

// Section returns the navigation entry for id.
func (p *Portfolio) Section(id string) (NavSection, error) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return NavSection{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

// SectionIDs returns the section ids in page order.
func (p *Portfolio) SectionIDs() []string {
	ids := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Items returns how many cards a section shows. Sections without cards
// report zero.
func (p *Portfolio) Items(id string) int {
	switch id {
	case "about":
		return len(p.Achievements)
	case "education":
		return len(p.Education)
	case "services":
		return len(p.Services)
	case "projects":
		return len(p.Projects)
	case "skills":
		n := 0
		for _, c := range p.Skills {
			n += len(c.Items)
		}
		return n
	case "references":
		return len(p.References)
	}
	return 0
}
