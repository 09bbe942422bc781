package mascot

// action pairs a forward closure with its exact inverse.
type action struct {
	do   func()
	undo func()
}

// Undo records reversible user actions as paired do/undo closures.
//
// The manager never inspects or diffs state: the undo closure must be the
// exact semantic inverse of the do closure given the state at record time.
// Closures therefore must capture every value they mutate by copy when
// recorded, never by reference to external state that may change later.
//
// Granularity is one user-visible edit. Multi-frame interactions such as a
// drag gesture coalesce into a single record at commit, not one per frame.
type Undo struct {
	done   []action
	undone []action
}

// Record executes do immediately, pushes the pair onto the done stack, and
// discards any previously undone actions (no redo across a fresh edit). The
// discarded slice is dropped entirely so its closures and whatever they
// capture become collectable.
func (u *Undo) Record(do, undo func()) {
	do()
	u.done = append(u.done, action{do: do, undo: undo})
	u.undone = nil
}

// Undo reverses the most recent action. No-op when there is nothing to undo.
func (u *Undo) Undo() {
	if len(u.done) == 0 {
		return
	}
	a := u.done[len(u.done)-1]
	u.done = u.done[:len(u.done)-1]
	a.undo()
	u.undone = append(u.undone, a)
}

// Redo replays the most recently undone action. No-op when there is nothing
// to redo.
func (u *Undo) Redo() {
	if len(u.undone) == 0 {
		return
	}
	a := u.undone[len(u.undone)-1]
	u.undone = u.undone[:len(u.undone)-1]
	a.do()
	u.done = append(u.done, a)
}

// Clear drops both stacks. Called when the tree the closures captured is
// replaced wholesale, e.g. on project load.
func (u *Undo) Clear() {
	u.done = nil
	u.undone = nil
}

// HasUndo reports whether Undo would do anything. Used for UI enablement.
func (u *Undo) HasUndo() bool {
	return len(u.done) > 0
}

// HasRedo reports whether Redo would do anything. Used for UI enablement.
func (u *Undo) HasRedo() bool {
	return len(u.undone) > 0
}
