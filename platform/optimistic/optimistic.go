// Package optimistic provides a generic two-phase update helper: apply a
// tentative transform to a value, attempt the persisted commit, and fall back
// to the original value when the commit fails. Callers get back either the
// tentative state (commit succeeded) or the untouched original (rolled back),
// so they never have to hand-write the inverse transform per call site.
package optimistic

import "context"

// Update applies tentative to current, then runs commit with the tentative
// value. On commit failure it returns the original value and the commit
// error; on success it returns the tentative value.
func Update[T any](ctx context.Context, current T, tentative func(T) T, commit func(context.Context, T) error) (T, error) {
	next := tentative(current)
	if err := commit(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
