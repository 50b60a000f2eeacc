package format

import "bytes"

// ViewportState is the position of one view captured before a replacement.
type ViewportState struct {
	View            View
	CursorOffset    int
	ScrollTopOffset int
}

// CaptureViewports records the cursor and scroll offsets of every view.
func CaptureViewports(views []View) []ViewportState {
	states := make([]ViewportState, 0, len(views))
	for _, v := range views {
		states = append(states, ViewportState{
			View:            v,
			CursorOffset:    v.CursorOffset(),
			ScrollTopOffset: v.ScrollTopOffset(),
		})
	}
	return states
}

// RestoreViewports puts every captured view back at its absolute offsets.
// Offsets are not remapped through the edit; reformatting is assumed to
// move text only a little.
func RestoreViewports(states []ViewportState) {
	for _, s := range states {
		s.View.SetScrollTopOffset(s.ScrollTopOffset)
		s.View.SetCursorOffset(s.CursorOffset)
	}
}

// Apply applies res to host.
//
// A failed run returns a *FormatterError and leaves host untouched. A
// successful run whose output equals the current content is a no-op that
// does not touch any view. Otherwise the content is replaced and every
// visible view gets its cursor and scroll offsets back.
func Apply(host Host, res *Result) (Outcome, error) {
	if !res.Success() {
		return OutcomeNone, &FormatterError{ExitStatus: res.ExitStatus, Stderr: res.Stderr}
	}

	if bytes.Equal(res.Stdout, host.Content()) {
		return OutcomeNoOp, nil
	}

	states := CaptureViewports(host.VisibleViews())
	host.ReplaceContent(res.Stdout)
	RestoreViewports(states)

	return OutcomeApplied, nil
}
