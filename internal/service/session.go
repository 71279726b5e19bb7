package service

import (
	"learncraft/internal/model"
)

// WorkflowState tracks where a user is in the plan-generation workflow.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateConfiguring
	StateGenerating
	StateReady
	StateSaving
)

func (s WorkflowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Session holds one user's planning state: the subject selection with its
// priority weights and the current working schedule. Generating and Saving
// are the only states with an operation in flight; entering them is guarded
// so at most one request runs at a time.
//
// Sessions are mutated only from the bot's update loop, so they carry no lock
// of their own.
type Session struct {
	UserID uint

	state      WorkflowState
	selected   []uint // subject IDs in selection order
	priorities model.PriorityMap
	schedule   []model.TimeSlot
}

func NewSession(userID uint) *Session {
	return &Session{
		UserID:     userID,
		state:      StateIdle,
		priorities: make(model.PriorityMap),
	}
}

func (s *Session) State() WorkflowState { return s.state }

// SelectedSubjects returns the selected subject IDs in selection order.
func (s *Session) SelectedSubjects() []uint {
	out := make([]uint, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s *Session) IsSelected(subjectID uint) bool {
	for _, id := range s.selected {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Priorities returns a copy of the current priority map. Its keys are always
// a subset of the selected subject IDs.
func (s *Session) Priorities() model.PriorityMap {
	out := make(model.PriorityMap, len(s.priorities))
	for id, level := range s.priorities {
		out[id] = level
	}
	return out
}

// Schedule returns the current working schedule, empty unless state is Ready
// or Saving.
func (s *Session) Schedule() []model.TimeSlot {
	out := make([]model.TimeSlot, len(s.schedule))
	copy(out, s.schedule)
	return out
}

// ToggleSubject flips a subject in or out of the selection. Selecting assigns
// the default priority; deselecting purges the priority entry entirely.
// Allowed in any state and never invalidates an already generated schedule.
func (s *Session) ToggleSubject(subjectID uint) (selected bool) {
	if s.state == StateIdle {
		s.state = StateConfiguring
	}

	for i, id := range s.selected {
		if id == subjectID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			delete(s.priorities, subjectID)
			return false
		}
	}

	s.selected = append(s.selected, subjectID)
	s.priorities[subjectID] = model.PriorityDefault
	return true
}

// SetPriority updates the weight of an already selected subject.
func (s *Session) SetPriority(subjectID uint, level int) error {
	if level < model.PriorityMin || level > model.PriorityMax {
		return ErrInvalidPriority
	}
	if !s.IsSelected(subjectID) {
		return ErrSubjectNotSelected
	}
	if s.state == StateIdle {
		s.state = StateConfiguring
	}
	s.priorities[subjectID] = level
	return nil
}

// CanGenerate reports whether the generate control is enabled.
func (s *Session) CanGenerate() bool {
	return len(s.selected) > 0 && s.state != StateGenerating && s.state != StateSaving
}

// CanSave reports whether the save/print controls are enabled.
func (s *Session) CanSave() bool {
	return s.state == StateReady && len(s.schedule) > 0
}

// BeginGeneration moves to Generating. The previous working schedule is
// cleared up front and is not restored if the attempt fails.
func (s *Session) BeginGeneration() error {
	if s.state == StateGenerating || s.state == StateSaving {
		return ErrOperationInFlight
	}
	if len(s.selected) == 0 {
		return ErrNoSubjectsSelected
	}
	s.schedule = nil
	s.state = StateGenerating
	return nil
}

// CompleteGeneration stores the normalized schedule and moves to Ready.
func (s *Session) CompleteGeneration(slots []model.TimeSlot) {
	if s.state != StateGenerating {
		return
	}
	s.schedule = slots
	s.state = StateReady
}

// FailGeneration returns to Configuring, leaving the schedule cleared.
func (s *Session) FailGeneration() {
	if s.state != StateGenerating {
		return
	}
	s.state = StateConfiguring
}

// BeginSave moves to Saving; only a non-empty Ready schedule can be saved.
func (s *Session) BeginSave() error {
	if s.state == StateGenerating || s.state == StateSaving {
		return ErrOperationInFlight
	}
	if s.state != StateReady || len(s.schedule) == 0 {
		return ErrScheduleNotReady
	}
	s.state = StateSaving
	return nil
}

// CompleteSave returns to Ready; the schedule stays displayed.
func (s *Session) CompleteSave() {
	if s.state == StateSaving {
		s.state = StateReady
	}
}

// FailSave also returns to Ready so the user can retry.
func (s *Session) FailSave() {
	if s.state == StateSaving {
		s.state = StateReady
	}
}
