package records

import (
	"context"
	"errors"

	"campus/records/internal/events"
)

// ActivateTeacher registers identity under code, stores the taught subjects
// and issues a password pool of counts[i] values for each subject. The
// teacher record for code is overwritten if one exists; historical pools and
// reviews under the code persist.
func (s *Service) ActivateTeacher(ctx context.Context, caller, identity, code string, subjects []string, counts []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	if len(subjects) != len(counts) {
		return errors.New("subjects and counts length mismatch")
	}
	if _, ok, err := s.teacherCodeOf(ctx, identity); err != nil {
		return err
	} else if ok {
		return ErrAlreadyActive
	}

	record := TeacherRecord{Code: code, Subjects: subjects}
	if err := s.setJSON(ctx, teacherKey(code), record); err != nil {
		return err
	}
	for i, subject := range subjects {
		if err := s.issuePasswords(ctx, identity, code, subject, counts[i]); err != nil {
			return err
		}
	}
	if err := s.store.Set(ctx, teacherLinkKey(identity), []byte(code)); err != nil {
		return err
	}

	event := events.New(events.TypeTeacherActivated)
	event.Identity = identity
	event.Code = code
	s.emit(ctx, event)
	return nil
}

// DeactivateTeacher clears the role flag and the identity link. The teacher
// record, its pools and its reviews are retained under the code.
func (s *Service) DeactivateTeacher(ctx context.Context, caller, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	code, ok, err := s.teacherCodeOf(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotActive
	}
	if err := s.store.Delete(ctx, teacherLinkKey(identity)); err != nil {
		return err
	}

	event := events.New(events.TypeTeacherDeactivated)
	event.Identity = identity
	event.Code = code
	s.emit(ctx, event)
	return nil
}

func (s *Service) ActivateStudent(ctx context.Context, caller, identity, rollNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	if _, ok, err := s.rollNumberOf(ctx, identity); err != nil {
		return err
	} else if ok {
		return ErrAlreadyActive
	}
	if err := s.store.Set(ctx, studentLinkKey(identity), []byte(rollNumber)); err != nil {
		return err
	}
	if err := s.store.Set(ctx, rollSeenKey(rollNumber), []byte("1")); err != nil {
		return err
	}

	event := events.New(events.TypeStudentActivated)
	event.Identity = identity
	event.RollNumber = rollNumber
	s.emit(ctx, event)
	return nil
}

// DeactivateStudent clears the identity link. Grade references under the
// roll number and the ever-registered flag are retained.
func (s *Service) DeactivateStudent(ctx context.Context, caller, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	rollNumber, ok, err := s.rollNumberOf(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotActive
	}
	if err := s.store.Delete(ctx, studentLinkKey(identity)); err != nil {
		return err
	}

	event := events.New(events.TypeStudentDeactivated)
	event.Identity = identity
	event.RollNumber = rollNumber
	s.emit(ctx, event)
	return nil
}

func (s *Service) ActivateRecruiter(ctx context.Context, caller, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	ok, err := s.isRecruiter(ctx, identity)
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyActive
	}
	if err := s.store.Set(ctx, recruiterKey(identity), []byte("1")); err != nil {
		return err
	}

	event := events.New(events.TypeRecruiterActivated)
	event.Identity = identity
	s.emit(ctx, event)
	return nil
}

func (s *Service) DeactivateRecruiter(ctx context.Context, caller, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOwner(caller) {
		return ErrNotAuthorized
	}
	ok, err := s.isRecruiter(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotActive
	}
	if err := s.store.Delete(ctx, recruiterKey(identity)); err != nil {
		return err
	}

	event := events.New(events.TypeRecruiterDeactivated)
	event.Identity = identity
	s.emit(ctx, event)
	return nil
}

// GetTeacher returns the record stored under code, readable by the owner or
// the teacher currently linked to that code.
func (s *Service) GetTeacher(ctx context.Context, caller, code string) (TeacherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.ownerOrTeacherOfCode(ctx, caller, code)
	if err != nil {
		return TeacherRecord{}, err
	}
	if !allowed {
		return TeacherRecord{}, ErrNotAuthorized
	}
	var record TeacherRecord
	ok, err := s.getJSON(ctx, teacherKey(code), &record)
	if err != nil {
		return TeacherRecord{}, err
	}
	if !ok {
		return TeacherRecord{}, ErrNotFound
	}
	return record, nil
}
