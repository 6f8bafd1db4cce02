package records

import "context"

// Authorization predicates. Stateless: each is evaluated per call against
// the current role links, and every violation surfaces as the same
// ErrNotAuthorized regardless of which predicate failed.

func (s *Service) isOwner(caller string) bool {
	return caller != "" && caller == s.owner
}

// teacherCodeOf resolves the code linked to an active teacher identity.
func (s *Service) teacherCodeOf(ctx context.Context, caller string) (string, bool, error) {
	value, ok, err := s.store.Get(ctx, teacherLinkKey(caller))
	if err != nil || !ok {
		return "", false, err
	}
	return string(value), true, nil
}

// rollNumberOf resolves the roll number linked to an active student identity.
func (s *Service) rollNumberOf(ctx context.Context, caller string) (string, bool, error) {
	value, ok, err := s.store.Get(ctx, studentLinkKey(caller))
	if err != nil || !ok {
		return "", false, err
	}
	return string(value), true, nil
}

func (s *Service) isRecruiter(ctx context.Context, caller string) (bool, error) {
	_, ok, err := s.store.Get(ctx, recruiterKey(caller))
	return ok, err
}

func (s *Service) isStudent(ctx context.Context, caller string) (bool, error) {
	_, ok, err := s.rollNumberOf(ctx, caller)
	return ok, err
}

func (s *Service) ownerOrTeacherOfCode(ctx context.Context, caller, code string) (bool, error) {
	if s.isOwner(caller) {
		return true, nil
	}
	linked, ok, err := s.teacherCodeOf(ctx, caller)
	if err != nil {
		return false, err
	}
	return ok && linked == code, nil
}

func (s *Service) ownerOrRecruiter(ctx context.Context, caller string) (bool, error) {
	if s.isOwner(caller) {
		return true, nil
	}
	return s.isRecruiter(ctx, caller)
}
