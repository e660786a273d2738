package display

// Selection handling. Every mutation keeps the two selection counters in
// step with the rows and recomputes visibility when fold state changes.

// ToggleSelect flips a row between off and on (or static when the modifier
// is held). Deselecting always decrements the counter the row was held
// under, regardless of which modifier the operator releases it with.
func (s *Store) ToggleSelect(i int, static bool) {
	if i < 0 || i >= len(s.Rows) {
		return
	}
	r := s.Rows[i]

	if r.Inverse != InverseOff {
		s.clearSelection(r)
		return
	}

	if static {
		r.Inverse = InverseStatic
		s.NoSelectedStatic++
	} else {
		r.Inverse = InverseOn
		s.NoSelected++
	}
}

// DragSelect repeats ToggleSelect across traversed rows, guarding against
// re-firing while the pointer stays on the same row.
func (s *Store) DragSelect(i int, static bool) {
	if i == s.lastDragged {
		return
	}
	s.lastDragged = i
	s.ToggleSelect(i, static)
}

// EndDrag resets the drag guard when the gesture finishes.
func (s *Store) EndDrag() {
	s.lastDragged = -1
}

// RangeSelect extends the nearest previous selection to row i: if row i is
// unselected and some earlier row is selected, every non-group row between
// them (inclusive of i) takes that row's mode. Already-selected rows are
// left alone so static selections are never demoted by a bulk gesture.
func (s *Store) RangeSelect(i int) {
	if i < 0 || i >= len(s.Rows) {
		return
	}
	if s.Rows[i].Inverse != InverseOff {
		// Shift-click on a selected row degrades to a plain toggle.
		s.ToggleSelect(i, false)
		return
	}

	anchor := -1
	for j := i - 1; j >= 0; j-- {
		if s.Rows[j].Inverse != InverseOff {
			anchor = j
			break
		}
	}
	if anchor < 0 {
		s.ToggleSelect(i, false)
		return
	}

	mode := s.Rows[anchor].Inverse
	for j := anchor + 1; j <= i; j++ {
		r := s.Rows[j]
		if r.IsGroup() || r.Inverse != InverseOff {
			continue
		}
		r.Inverse = mode
		if mode == InverseStatic {
			s.NoSelectedStatic++
		} else {
			s.NoSelected++
		}
	}
}

// ToggleGroup flips the fold state of the group header at index i and every
// contiguous following non-group sibling. Closing a group force-deselects
// any transiently selected sibling. Visibility is recomputed; the caller
// re-runs layout.
func (s *Store) ToggleGroup(i int) {
	if i < 0 || i >= len(s.Rows) || !s.Rows[i].IsGroup() {
		return
	}

	next := PlusMinusClosed
	if s.Rows[i].PlusMinus == PlusMinusClosed {
		next = PlusMinusOpen
	}
	s.setGroupFold(i, next)
	s.RecomputeVisibility()
}

// OpenAll opens every group fold.
func (s *Store) OpenAll() {
	for i, r := range s.Rows {
		if r.IsGroup() {
			s.setGroupFold(i, PlusMinusOpen)
		}
	}
	s.RecomputeVisibility()
}

// CloseAll closes every group fold with the usual counter discipline.
func (s *Store) CloseAll() {
	for i, r := range s.Rows {
		if r.IsGroup() {
			s.setGroupFold(i, PlusMinusClosed)
		}
	}
	s.RecomputeVisibility()
}

// setGroupFold applies the fold to the header at i and its contiguous
// non-group siblings. Closing clears transient selections on the way.
func (s *Store) setGroupFold(i int, fold PlusMinus) {
	s.Rows[i].PlusMinus = fold
	for j := i + 1; j < len(s.Rows); j++ {
		r := s.Rows[j]
		if r.IsGroup() {
			break
		}
		r.PlusMinus = fold
		// A folded-away row cannot stay selected, in either mode.
		if fold == PlusMinusClosed && r.Inverse != InverseOff {
			s.clearSelection(r)
		}
	}
}

// ClearTransient drops every transient (InverseOn) selection, as happens
// after an action dispatch. Static selections persist. Returns the site
// indices whose rows changed so the caller can redraw them.
func (s *Store) ClearTransient() []int {
	var changed []int
	for i, r := range s.Rows {
		if r.Inverse == InverseOn {
			s.clearSelection(r)
			changed = append(changed, i)
		}
	}
	return changed
}
