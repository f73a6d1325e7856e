package ledger

// Mode is the UI mode of a single-user session.
type Mode string

const (
	ModeIdle           Mode = "idle"
	ModeEditing        Mode = "editing"
	ModePreviewing     Mode = "previewing"
	ModeBatchSelecting Mode = "batch_selecting"
)

// Session is the explicit form of the UI state machine: editing <-> previewing
// and idle <-> batchSelecting. Each transition states which transient state it
// resets; only batch-mode transitions touch the selection.
type Session struct {
	mode      Mode
	selection *Selection
}

// NewSession starts a session in the idle mode with an empty selection.
func NewSession() *Session {
	return &Session{mode: ModeIdle, selection: NewSelection()}
}

// Mode returns the current UI mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Selection returns the batch selection. Meaningful only while batch selecting.
func (s *Session) Selection() *Selection {
	return s.selection
}

// EnterEditing moves to the editing mode from idle or previewing.
func (s *Session) EnterEditing() {
	s.mode = ModeEditing
}

// EnterPreviewing moves from editing to previewing. The selection is untouched.
func (s *Session) EnterPreviewing() {
	s.mode = ModePreviewing
}

// ExitPreviewing returns from previewing to editing.
func (s *Session) ExitPreviewing() {
	s.mode = ModeEditing
}

// EnterBatch starts batch selection with an empty selection set.
func (s *Session) EnterBatch() {
	s.selection.Clear()
	s.mode = ModeBatchSelecting
}

// ExitBatch leaves batch mode (cancel or after a completed batch render) and
// clears the selection.
func (s *Session) ExitBatch() {
	s.selection.Clear()
	s.mode = ModeIdle
}
