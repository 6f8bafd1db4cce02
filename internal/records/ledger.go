package records

import (
	"context"

	"campus/records/internal/events"
)

// SubmitReview appends an anonymous review for (code, subject) after spending
// password. Preconditions run in order: the pool must exist and be
// non-empty, the password must not be globally redeemed, and it must belong
// to the pool. The stored review carries no link to the caller.
func (s *Service) SubmitReview(ctx context.Context, caller, code, subject string, rating uint8, comments string, password uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.isStudent(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthorized
	}

	var pool []uint32
	ok, err = s.getJSON(ctx, poolKey(code, subject), &pool)
	if err != nil {
		return err
	}
	if !ok || len(pool) == 0 {
		return ErrNotFound
	}
	redeemed, err := s.isRedeemed(ctx, password)
	if err != nil {
		return err
	}
	if redeemed {
		return ErrAlreadyRedeemed
	}
	if !poolContains(pool, password) {
		return ErrInvalidCredential
	}
	if err := s.redeem(ctx, password); err != nil {
		return err
	}

	var reviews []Review
	if _, err := s.getJSON(ctx, reviewsKey(code, subject), &reviews); err != nil {
		return err
	}
	reviews = append(reviews, Review{Rating: rating, Comments: comments})
	if err := s.setJSON(ctx, reviewsKey(code, subject), reviews); err != nil {
		return err
	}

	event := events.New(events.TypeReviewAdded)
	event.Code = code
	event.Subject = subject
	event.Rating = rating
	s.emit(ctx, event)
	return nil
}

// ListReviews returns the reviews for (code, subject) in submission order,
// readable by the owner or the teacher linked to code.
func (s *Service) ListReviews(ctx context.Context, caller, code, subject string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.ownerOrTeacherOfCode(ctx, caller, code)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAuthorized
	}
	reviews := []Review{}
	if _, err := s.getJSON(ctx, reviewsKey(code, subject), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
