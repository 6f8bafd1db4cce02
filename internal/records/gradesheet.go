package records

import (
	"context"

	"campus/records/internal/events"
)

// PublishGradeSheet stores the opaque reference for (rollNumber, semester),
// overwriting any previous value. Owner-only; semester must be positive.
func (s *Service) PublishGradeSheet(ctx context.Context, caller, rollNumber string, semester uint32, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	if semester == 0 {
		return ErrInvalidSemester
	}
	if err := s.store.Set(ctx, gradeKey(rollNumber, semester), []byte(reference)); err != nil {
		return err
	}

	event := events.New(events.TypeGradeSheetPublished)
	event.RollNumber = rollNumber
	event.Semester = semester
	event.Reference = reference
	s.emit(ctx, event)
	return nil
}

// GradeSheetAsStudent resolves the caller to its linked roll number and
// returns the stored reference for that semester.
func (s *Service) GradeSheetAsStudent(ctx context.Context, caller string, semester uint32) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rollNumber, ok, err := s.rollNumberOf(ctx, caller)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotAuthorized
	}
	return s.gradeReference(ctx, rollNumber, semester)
}

// GradeSheetAsRecruiter returns the reference for any roll number that has
// ever been registered. The owner passes the same gate as recruiters.
// Deliberately checks ever-registered rather than currently-active, so
// recruiters can still read records of deactivated students.
func (s *Service) GradeSheetAsRecruiter(ctx context.Context, caller, rollNumber string, semester uint32) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.ownerOrRecruiter(ctx, caller)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrNotAuthorized
	}
	_, seen, err := s.store.Get(ctx, rollSeenKey(rollNumber))
	if err != nil {
		return "", err
	}
	if !seen {
		return "", ErrNotFound
	}
	return s.gradeReference(ctx, rollNumber, semester)
}

// gradeReference treats an empty stored reference as absent.
func (s *Service) gradeReference(ctx context.Context, rollNumber string, semester uint32) (string, error) {
	value, ok, err := s.store.Get(ctx, gradeKey(rollNumber, semester))
	if err != nil {
		return "", err
	}
	if !ok || len(value) == 0 {
		return "", ErrNotFound
	}
	return string(value), nil
}
