package content

// All matches every value in a filter.
const All = "all"

func matches(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

// FilterProjects returns the projects using tech and belonging to category,
// in their original order. Empty or "all" disables either filter.
func (p *Portfolio) FilterProjects(tech, category string) []Project {
	out := make([]Project, 0, len(p.Projects))
	for _, pr := range p.Projects {
		if !matches(category, pr.Category) {
			continue
		}
		if tech != "" && tech != All && !contains(pr.Technologies, tech) {
			continue
		}
		out = append(out, pr)
	}
	return out
}

// Technologies lists every project technology once, in first-seen order.
func (p *Portfolio) Technologies() []string {
	var all []string
	for _, pr := range p.Projects {
		all = append(all, pr.Technologies...)
	}
	return unique(all)
}

// Categories lists every project category once, in first-seen order.
func (p *Portfolio) Categories() []string {
	all := make([]string, len(p.Projects))
	for i, pr := range p.Projects {
		all[i] = pr.Category
	}
	return unique(all)
}

// ProjectStats are the headline numbers above the project grid.
type ProjectStats struct {
	Total        int `json:"total"`
	Leadership   int `json:"leadership"`
	Technologies int `json:"technologies"`
}

// Stats summarises the full project list.
func (p *Portfolio) Stats() ProjectStats {
	s := ProjectStats{Total: len(p.Projects), Technologies: len(p.Technologies())}
	for _, pr := range p.Projects {
		if pr.Leadership() {
			s.Leadership++
		}
	}
	return s
}

// FilterSkills returns the skill categories matching category.
func (p *Portfolio) FilterSkills(category string) []SkillCategory {
	out := make([]SkillCategory, 0, len(p.Skills))
	for _, c := range p.Skills {
		if matches(category, c.Category) {
			out = append(out, c)
		}
	}
	return out
}

// SkillCategories lists the skill category names in order.
func (p *Portfolio) SkillCategories() []string {
	out := make([]string, len(p.Skills))
	for i, c := range p.Skills {
		out[i] = c.Category
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
