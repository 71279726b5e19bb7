package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learncraft/internal/model"
)

// TextGenerator is the seam to the generative model: opaque text in, opaque
// text out. Keeping it this narrow lets the model be swapped for a local
// scheduler without touching the pipeline.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ScheduleStore persists generated schedules.
type ScheduleStore interface {
	Save(ctx context.Context, userID uint, date time.Time, slots []model.TimeSlot) error
}

// PlannerService runs the schedule acquisition pipeline and keeps one
// planning session per user.
type PlannerService struct {
	generator TextGenerator
	store     ScheduleStore

	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewPlannerService(generator TextGenerator, store ScheduleStore) *PlannerService {
	return &PlannerService{
		generator: generator,
		store:     store,
		sessions:  make(map[uint]*Session),
	}
}

// Session returns the planning session for the user, creating it on first use.
func (s *PlannerService) Session(userID uint) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = NewSession(userID)
		s.sessions[userID] = session
	}
	return session
}

// ResetSession drops the user's planning state, e.g. on /cancel.
func (s *PlannerService) ResetSession(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Generate runs one pass of the pipeline for the session: validate the
// selection, prompt the generator, parse and normalize the reply, and store
// the result as the session's working schedule. A zero selection is rejected
// before any network call. On failure the previous schedule stays cleared.
// Subject and routine state is read, never mutated.
func (s *PlannerService) Generate(ctx context.Context, session *Session, subjects []model.Subject, routines []model.Routine) ([]model.TimeSlot, error) {
	if err := session.BeginGeneration(); err != nil {
		return nil, err
	}

	prompt := BuildSchedulePrompt(selectedSubjects(session, subjects), session.Priorities(), routines)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		session.FailGeneration()
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	slots, err := ParseGeneratedSchedule(raw)
	if err != nil {
		session.FailGeneration()
		return nil, err
	}

	slots = MergeSlots(slots)
	session.CompleteGeneration(slots)
	return slots, nil
}

// Save persists the session's Ready schedule for the given date.
func (s *PlannerService) Save(ctx context.Context, session *Session, date time.Time) error {
	if err := session.BeginSave(); err != nil {
		return err
	}

	if err := s.store.Save(ctx, session.UserID, date, session.Schedule()); err != nil {
		session.FailSave()
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	session.CompleteSave()
	return nil
}

// selectedSubjects filters subjects down to the session's selection,
// preserving selection order.
func selectedSubjects(session *Session, subjects []model.Subject) []model.Subject {
	byID := make(map[uint]model.Subject, len(subjects))
	for _, sub := range subjects {
		byID[sub.ID] = sub
	}

	var out []model.Subject
	for _, id := range session.SelectedSubjects() {
		if sub, ok := byID[id]; ok {
			out = append(out, sub)
		}
	}
	return out
}
