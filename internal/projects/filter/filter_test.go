package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

func sampleProjects() []domain.Project {
	return []domain.Project{
		{ID: "1", Title: "Portfolio Site", Description: "Personal portfolio", Type: domain.TypeSolo, Technologies: []string{"React", "Tailwind"}},
		{ID: "2", Title: "Team Tracker", Description: "Sprint board for small teams", Type: domain.TypeGroup, Technologies: []string{"Go"}},
		{ID: "3", Title: "Weather CLI", Description: "Terminal forecast tool", Type: domain.TypeSolo, Technologies: []string{"Go", "Cobra"}},
	}
}

func TestFilterIdentity(t *testing.T) {
	projects := sampleProjects()

	got := Filter(projects, "", domain.TypeAll)

	assert.Equal(t, projects, got)
	// identity law returns the very same slice, not a copy
	assert.Same(t, &projects[0], &got[0])
}

func TestFilterBySearchTerm(t *testing.T) {
	projects := sampleProjects()

	t.Run("matches title case-insensitively", func(t *testing.T) {
		got := Filter(projects, "portfolio", domain.TypeAll)
		assert.Len(t, got, 1)
		assert.Equal(t, "Portfolio Site", got[0].Title)
	})

	t.Run("matches description", func(t *testing.T) {
		got := Filter(projects, "sprint board", domain.TypeAll)
		assert.Len(t, got, 1)
		assert.Equal(t, "Team Tracker", got[0].Title)
	})

	t.Run("matches technology tag", func(t *testing.T) {
		got := Filter(projects, "react", domain.TypeAll)
		assert.Len(t, got, 1)
		assert.Equal(t, "Portfolio Site", got[0].Title)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		got := Filter(projects, "kubernetes", domain.TypeAll)
		assert.Empty(t, got)
	})
}

func TestFilterByType(t *testing.T) {
	projects := sampleProjects()

	got := Filter(projects, "", domain.TypeGroup)
	assert.Len(t, got, 1)
	assert.Equal(t, "Team Tracker", got[0].Title)

	got = Filter(projects, "", domain.TypeSolo)
	assert.Len(t, got, 2)
}

func TestFilterCombinesTermAndType(t *testing.T) {
	projects := sampleProjects()

	// "Go" matches projects 2 and 3, the solo facet keeps only 3
	got := Filter(projects, "go", domain.TypeSolo)
	assert.Len(t, got, 1)
	assert.Equal(t, "Weather CLI", got[0].Title)
}

func TestFilterNarrowingLaw(t *testing.T) {
	projects := sampleProjects()
	terms := []string{"", "go", "portfolio", "a", "zzz"}
	types := []string{domain.TypeAll, domain.TypeSolo, domain.TypeGroup}

	for _, typ := range types {
		base := Filter(projects, "", typ)
		baseIDs := make(map[string]bool, len(base))
		for _, p := range base {
			baseIDs[p.ID] = true
		}

		for _, term := range terms {
			for _, p := range Filter(projects, term, typ) {
				assert.True(t, baseIDs[p.ID],
					"project %s visible under term %q but not under empty term", p.ID, term)
			}
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	projects := sampleProjects()

	got := Filter(projects, "go", domain.TypeAll)
	assert.Equal(t, []string{"2", "3"}, []string{got[0].ID, got[1].ID})
}

func TestEngineMemoizes(t *testing.T) {
	engine := NewEngine()
	projects := sampleProjects()

	first := engine.Visible(projects, "go", domain.TypeAll)
	second := engine.Visible(projects, "go", domain.TypeAll)
	assert.Len(t, first, 2)
	// unchanged inputs reuse the previous result
	assert.Same(t, &first[0], &second[0])
}

func TestEngineRecomputesOnChange(t *testing.T) {
	engine := NewEngine()
	projects := sampleProjects()

	first := engine.Visible(projects, "go", domain.TypeAll)
	assert.Len(t, first, 2)

	t.Run("term change", func(t *testing.T) {
		got := engine.Visible(projects, "react", domain.TypeAll)
		assert.Len(t, got, 1)
	})

	t.Run("facet change", func(t *testing.T) {
		got := engine.Visible(projects, "react", domain.TypeGroup)
		assert.Empty(t, got)
	})

	t.Run("snapshot change", func(t *testing.T) {
		next := append([]domain.Project{{ID: "4", Title: "Go Links", Type: domain.TypeSolo}}, projects...)
		got := engine.Visible(next, "go", domain.TypeAll)
		assert.Len(t, got, 3)
	})
}
