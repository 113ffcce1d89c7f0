package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID   string
	Name string
}

func newTestReconciler() *Reconciler[product] {
	return NewReconciler(func(p product) string { return p.ID })
}

func page(ids ...string) []product {
	out := make([]product, len(ids))
	for i, id := range ids {
		out[i] = product{ID: id, Name: "name-" + id}
	}
	return out
}

func TestSetVisiblePageEmpty(t *testing.T) {
	r := newTestReconciler()
	assert.Empty(t, r.SetVisiblePage(nil))
	assert.Empty(t, r.Visible())
}

func TestScenarioCheckOnPartiallySelectedPage(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("p1", "p2"))

	visible := r.SetVisiblePage(page("p2", "p3", "p4"))
	assert.Equal(t, []string{"p2"}, visible)

	visible = r.ReconcileSelectionChange([]string{"p2", "p3"}, []string{"p2", "p3", "p4"})
	assert.Equal(t, []string{"p2", "p3"}, visible)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, r.IDs())
	assert.Equal(t, []string{"p3"}, r.LastDiff().Added)
	assert.Empty(t, r.LastDiff().Removed)
}

func TestSelectionPersistsAcrossPages(t *testing.T) {
	r := newTestReconciler()
	pageA := page("a1", "a2", "a3")
	pageB := page("b1", "b2")

	r.SetVisiblePage(pageA)
	r.ReconcileSelectionChange([]string{"a2"}, []string{"a1", "a2", "a3"})

	assert.Empty(t, r.SetVisiblePage(pageB))
	// The control on page B reports nothing checked; page A must be untouched.
	r.ReconcileSelectionChange(nil, []string{"b1", "b2"})

	assert.Equal(t, []string{"a2"}, r.SetVisiblePage(pageA))
}

func TestSelectAllThenUncheckAffectsOnlyThatPage(t *testing.T) {
	r := newTestReconciler()
	r.SetVisiblePage(page("x1", "x2"))
	r.ReconcileSelectionChange([]string{"x1"}, []string{"x1", "x2"})

	visible := r.SelectAllVisible(page("y1", "y2", "y3"))
	assert.Equal(t, []string{"y1", "y2", "y3"}, visible)

	visible = r.ReconcileSelectionChange(nil, []string{"y1", "y2", "y3"})
	assert.Empty(t, visible)
	assert.Equal(t, []string{"x1"}, r.IDs())
	assert.ElementsMatch(t, []string{"y1", "y2", "y3"}, r.LastDiff().Removed)
}

func TestSelectAllVisibleKeepsPriorSelection(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("p1"))
	r.SelectAllVisible(page("p2", "p3"))

	assert.Equal(t, []string{"p1", "p2", "p3"}, r.IDs())
	assert.Equal(t, 3, r.Len())
}

func TestResolveSelectedRecordsDropsUnknown(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("p1", "gone", "p2"))
	known := map[string]product{"p1": {ID: "p1"}, "p2": {ID: "p2"}}

	got := r.ResolveSelectedRecords(func(id string) (product, bool) {
		p, ok := known[id]
		return p, ok
	})

	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	for _, p := range got {
		assert.True(t, r.Contains(p.ID))
	}
}

func TestClearEmptiesSelection(t *testing.T) {
	r := newTestReconciler()
	r.SetVisiblePage(page("p1", "p2"))
	r.SelectAllVisible(page("p1", "p2"))

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.VisibleSelected())
	assert.Equal(t, []string{"p1", "p2"}, r.LastDiff().Removed)
}

func TestRemoveDropsOnlyGivenIds(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("p1", "p2"))
	r.SetVisiblePage(page("p3", "p4"))
	r.SelectAllVisible(page("p3", "p4"))

	r.Remove([]string{"p1", "p4", "missing"})

	assert.Equal(t, []string{"p2", "p3"}, r.IDs())
	assert.Equal(t, []string{"p3"}, r.VisibleSelected())
	assert.Equal(t, []string{"p1", "p4"}, r.LastDiff().Removed)
	assert.Empty(t, r.LastDiff().Added)
}

func TestReconcileIgnoresIdsOutsidePreviouslyVisibleForRemoval(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("keep"))

	r.ReconcileSelectionChange([]string{"new"}, []string{"new", "other"})

	assert.True(t, r.Contains("keep"))
	assert.True(t, r.Contains("new"))
}

func TestRemovePreservesInsertionOrder(t *testing.T) {
	r := newTestReconciler()
	r.SelectAllVisible(page("a", "b", "c", "d"))
	r.ReconcileSelectionChange([]string{"a", "c", "d"}, []string{"a", "b", "c", "d"})
	r.SelectAllVisible(page("e"))

	assert.Equal(t, []string{"a", "c", "d", "e"}, r.IDs())
}

// Random walk over pages and check the visible/global invariant after every step.
func TestVisibleSelectedInvariantRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := newTestReconciler()
	universe := make([]string, 30)
	for i := range universe {
		universe[i] = fmt.Sprintf("p%02d", i)
	}
	pageOf := func() []product {
		start := rng.Intn(len(universe) - 5)
		return page(universe[start : start+5]...)
	}

	current := pageOf()
	r.SetVisiblePage(current)
	for step := 0; step < 500; step++ {
		var got []string
		switch rng.Intn(3) {
		case 0:
			current = pageOf()
			got = r.SetVisiblePage(current)
		case 1:
			var checked []string
			for _, p := range current {
				if rng.Intn(2) == 0 {
					checked = append(checked, p.ID)
				}
			}
			got = r.ReconcileSelectionChange(checked, r.Visible())
			assert.ElementsMatch(t, checked, got)
		default:
			got = r.SelectAllVisible(current)
		}

		var want []string
		for _, p := range current {
			if r.Contains(p.ID) {
				want = append(want, p.ID)
			}
		}
		if len(want) == 0 {
			assert.Empty(t, got, "step %d", step)
		} else {
			assert.Equal(t, want, got, "step %d", step)
		}
		assert.Equal(t, got, r.VisibleSelected(), "step %d", step)
	}
}
