package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Portfolio {
	t.Helper()
	p, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return p
}

func TestDefaultPortfolio(t *testing.T) {
	p := mustDefault(t)

	want := []string{"home", "about", "education", "services", "projects", "skills", "references", "contact"}
	got := p.SectionIDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("SectionIDs = %v, want %v", got, want)
	}
	if len(p.Projects) != 6 {
		t.Errorf("projects = %d, want 6", len(p.Projects))
	}
	if len(p.Skills) != 4 {
		t.Errorf("skill categories = %d, want 4", len(p.Skills))
	}
	if p.Items("skills") != 33 {
		t.Errorf("skill items = %d, want 33", p.Items("skills"))
	}
	if p.Items("contact") != 0 {
		t.Errorf("contact items = %d, want 0", p.Items("contact"))
	}
	for _, r := range p.References {
		if !strings.HasSuffix(r.Email, "@example.com") {
			t.Errorf("reference email %q is not a placeholder", r.Email)
		}
	}
	if titles := p.Info.Titles(); len(titles) != 5 || titles[0] != "IT Undergraduate" {
		t.Errorf("Titles = %v", titles)
	}
}

func TestSectionLookup(t *testing.T) {
	p := mustDefault(t)

	s, err := p.Section("projects")
	if err != nil || s.Name != "Projects" {
		t.Errorf("Section(projects) = %+v, %v", s, err)
	}
	if _, err := p.Section("blog"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("Section(blog) error = %v, want ErrUnknownSection", err)
	}
}

func TestParseValidates(t *testing.T) {
	cases := map[string]string{
		"missing name": "sections: [{id: home, name: Home}]",
		"no sections":  "info: {name: A}",
		"duplicate":    "info: {name: A}\nsections: [{id: a}, {id: a}]",
		"bad rating":   "info: {name: A}\nsections: [{id: a}]\nreferences: [{name: R, rating: 9}]",
		"bad skill":    "info: {name: A}\nsections: [{id: a}]\nskills: [{category: C, items: [{name: S, proficiency: 120}]}]",
		"not yaml":     "info: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	p, err := Parse([]byte("info: {name: A}\nsections: [{id: a, name: A}]"))
	if err != nil {
		t.Fatalf("minimal portfolio: %v", err)
	}
	if p.Info.Name != "A" {
		t.Errorf("name = %q", p.Info.Name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	if err := os.WriteFile(path, []byte("info: {name: B}\nsections: [{id: home, name: Home}]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Info.Name != "B" {
		t.Errorf("name = %q, want B", p.Info.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	def, err := Load("")
	if err != nil || def.Info.Name == "" {
		t.Errorf("Load(\"\") = %v, %v", def, err)
	}
}

func TestMarkdown(t *testing.T) {
	got := string(Markdown("some **bold** text\n\n- one\n- two\n\n~~gone~~"))
	for _, want := range []string{"<strong>bold</strong>", "<li>one</li>", "<del>gone</del>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown output %q missing %q", got, want)
		}
	}

	unsafe := string(Markdown("<script>alert(1)</script>"))
	if strings.Contains(unsafe, "<script>") {
		t.Errorf("raw HTML passed through: %q", unsafe)
	}
}
