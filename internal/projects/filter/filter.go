package filter

import (
	"strings"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

// Filter returns the projects visible under the given search term and type
// facet. A project is visible iff the facet is "all" or equals the project
// type, and the term is empty or is a case-insensitive substring of the
// title, the description, or at least one technology tag.
//
// The result preserves input order; this is a stable filter, not a re-sort.
// Filter(projects, "", "all") returns the input unchanged.
func Filter(projects []domain.Project, term, selectedType string) []domain.Project {
	if term == "" && (selectedType == "" || selectedType == domain.TypeAll) {
		return projects
	}

	needle := strings.ToLower(term)
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if matchesType(&p, selectedType) && matchesTerm(&p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matchesType(p *domain.Project, selectedType string) bool {
	return selectedType == "" || selectedType == domain.TypeAll || p.Type == selectedType
}

func matchesTerm(p *domain.Project, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tech := range p.Technologies {
		if strings.Contains(strings.ToLower(tech), needle) {
			return true
		}
	}
	return false
}

// Engine memoizes Filter: Visible recomputes only when the projects slice,
// the term, or the facet changed since the last call. Not safe for
// concurrent use; each view owns its engine.
type Engine struct {
	lastHead *domain.Project
	lastLen  int
	lastTerm string
	lastType string
	result   []domain.Project
	valid    bool
}

func NewEngine() *Engine {
	return &Engine{}
}

// Visible returns the filtered view of projects, reusing the previous result
// when none of the inputs changed. Slice identity is judged by length and
// backing array, which is exactly how collection snapshots evolve: every
// mutation produces a fresh slice.
func (e *Engine) Visible(projects []domain.Project, term, selectedType string) []domain.Project {
	var head *domain.Project
	if len(projects) > 0 {
		head = &projects[0]
	}

	if e.valid && head == e.lastHead && len(projects) == e.lastLen &&
		term == e.lastTerm && selectedType == e.lastType {
		return e.result
	}

	e.result = Filter(projects, term, selectedType)
	e.lastHead = head
	e.lastLen = len(projects)
	e.lastTerm = term
	e.lastType = selectedType
	e.valid = true
	return e.result
}
