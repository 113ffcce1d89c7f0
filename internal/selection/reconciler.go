// Package selection keeps a global set of selected ids consistent with a
// checkbox control that only ever reports the currently visible rows.
package selection

import "sync"

// Diff lists the ids added to and removed from the selection by one mutation.
type Diff struct {
	Added   []string
	Removed []string
}

// Empty reports whether the mutation changed nothing.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Reconciler owns the global selection across pages and filters.
//
// Invariant: after every call, VisibleSelected() equals the selection
// intersected with Visible(), in Visible() order.
type Reconciler[E any] struct {
	mu       sync.Mutex
	idOf     func(E) string
	selected orderedSet
	visible  []string
	lastDiff Diff
}

// NewReconciler creates an empty reconciler. idOf extracts the stable id of an entity.
func NewReconciler[E any](idOf func(E) string) *Reconciler[E] {
	return &Reconciler[E]{
		idOf:     idOf,
		selected: newOrderedSet(),
	}
}

// SetVisiblePage records entities as the visible set and returns the
// selected ids among them, in entities order.
func (r *Reconciler[E]) SetVisiblePage(entities []E) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.visible = r.ids(entities)
	return r.intersect(r.visible)
}

// ReconcileSelectionChange applies a change reported by the control.
// nowChecked is the full set of checked rows; previouslyVisible is the set of
// rows the control was showing. Ids outside previouslyVisible are untouched.
func (r *Reconciler[E]) ReconcileSelectionChange(nowChecked []string, previouslyVisible []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := make(map[string]struct{})
	for _, id := range previouslyVisible {
		if r.selected.has(id) {
			prev[id] = struct{}{}
		}
	}
	checked := make(map[string]struct{}, len(nowChecked))
	for _, id := range nowChecked {
		checked[id] = struct{}{}
	}

	var diff Diff
	for _, id := range nowChecked {
		if _, was := prev[id]; was {
			continue
		}
		if r.selected.add(id) {
			diff.Added = append(diff.Added, id)
		}
	}
	for _, id := range previouslyVisible {
		if _, was := prev[id]; !was {
			continue
		}
		if _, still := checked[id]; still {
			continue
		}
		if r.selected.remove(id) {
			diff.Removed = append(diff.Removed, id)
		}
	}
	r.lastDiff = diff

	r.visible = append([]string(nil), previouslyVisible...)
	return r.intersect(r.visible)
}

// SelectAllVisible adds every entity to the selection without clearing
// earlier picks and returns their ids.
func (r *Reconciler[E]) SelectAllVisible(entities []E) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.ids(entities)
	var diff Diff
	for _, id := range ids {
		if r.selected.add(id) {
			diff.Added = append(diff.Added, id)
		}
	}
	r.lastDiff = diff
	r.visible = ids
	return append([]string(nil), ids...)
}

// ResolveSelectedRecords maps every selected id through lookup, in selection
// order, dropping ids lookup does not know.
func (r *Reconciler[E]) ResolveSelectedRecords(lookup func(id string) (E, bool)) []E {
	r.mu.Lock()
	ids := r.selected.list()
	r.mu.Unlock()

	out := make([]E, 0, len(ids))
	for _, id := range ids {
		if e, ok := lookup(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// Clear empties the selection.
func (r *Reconciler[E]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastDiff = Diff{Removed: r.selected.list()}
	r.selected = newOrderedSet()
}

// Remove drops ids from the selection wherever they are, visible or not.
// Ids that are not selected are ignored.
func (r *Reconciler[E]) Remove(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var diff Diff
	for _, id := range ids {
		if r.selected.remove(id) {
			diff.Removed = append(diff.Removed, id)
		}
	}
	r.lastDiff = diff
}

// Len returns the number of selected ids.
func (r *Reconciler[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected.len()
}

// IDs returns the selected ids in selection order.
func (r *Reconciler[E]) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected.list()
}

// Contains reports whether id is selected.
func (r *Reconciler[E]) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected.has(id)
}

// Visible returns the ids of the current visible set.
func (r *Reconciler[E]) Visible() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.visible...)
}

// VisibleSelected recomputes the selected ids among the visible set.
func (r *Reconciler[E]) VisibleSelected() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intersect(r.visible)
}

// LastDiff returns the change made by the most recent mutation.
func (r *Reconciler[E]) LastDiff() Diff {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastDiff
}

func (r *Reconciler[E]) ids(entities []E) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, r.idOf(e))
	}
	return ids
}

func (r *Reconciler[E]) intersect(visible []string) []string {
	out := make([]string, 0, len(visible))
	for _, id := range visible {
		if r.selected.has(id) {
			out = append(out, id)
		}
	}
	return out
}
