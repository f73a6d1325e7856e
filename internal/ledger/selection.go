package ledger

import "sort"

// Selection tracks which records are marked for a batch operation. It is
// transient state, scoped to one batch-mode session, never persisted.
// Ids of records deleted after being selected are tolerated; the batch
// renderer filters the selection against a fresh ledger snapshot.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips the marked state of id.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll marks every id in the given set. When the full set is already
// selected it clears instead: an idempotent flip, not a strict union.
func (s *Selection) SelectAll(all []string) {
	if len(all) > 0 && s.containsAll(all) {
		s.Clear()
		return
	}
	for _, id := range all {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) containsAll(all []string) bool {
	for _, id := range all {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// IsSelected reports whether id is marked.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the marked ids in sorted order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of marked ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear unmarks everything.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}
