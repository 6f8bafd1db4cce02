package records

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestConcurrentSubmitRedeemsOnce(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if err := service.ActivateTeacher(ctx, testOwner, "teacher-1", "CS01", []string{"CS101"}, []int{1}); err != nil {
		t.Fatalf("activate teacher error: %v", err)
	}
	students := []string{"student-1", "student-2", "student-3", "student-4"}
	for i, identity := range students {
		if err := service.ActivateStudent(ctx, testOwner, identity, "R10"+string(rune('0'+i))); err != nil {
			t.Fatalf("activate student error: %v", err)
		}
	}
	pool, err := service.GetPasswords(ctx, testOwner, "CS01", "CS101")
	if err != nil {
		t.Fatalf("get passwords error: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(students))
	for _, identity := range students {
		wg.Add(1)
		go func(identity string) {
			defer wg.Done()
			results <- service.SubmitReview(ctx, identity, "CS01", "CS101", 3, "race", pool[0])
		}(identity)
	}
	wg.Wait()
	close(results)

	succeeded, replayed := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyRedeemed):
			replayed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || replayed != len(students)-1 {
		t.Fatalf("expected exactly one success, got %d successes %d replays", succeeded, replayed)
	}

	reviews, err := service.ListReviews(ctx, testOwner, "CS01", "CS101")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
}

func TestCodeReassignmentOverwritesSubjects(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if err := service.ActivateTeacher(ctx, testOwner, "teacher-1", "CS01", []string{"CS101"}, []int{2}); err != nil {
		t.Fatalf("activate error: %v", err)
	}
	if err := service.ActivateStudent(ctx, testOwner, "student-1", "R100"); err != nil {
		t.Fatalf("activate student error: %v", err)
	}
	pool, err := service.GetPasswords(ctx, testOwner, "CS01", "CS101")
	if err != nil {
		t.Fatalf("get passwords error: %v", err)
	}
	if err := service.SubmitReview(ctx, "student-1", "CS01", "CS101", 4, "before", pool[0]); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if err := service.DeactivateTeacher(ctx, testOwner, "teacher-1"); err != nil {
		t.Fatalf("deactivate error: %v", err)
	}

	// Reassigning the code replaces the subject list; prior reviews stay.
	if err := service.ActivateTeacher(ctx, testOwner, "teacher-2", "CS01", []string{"CS201"}, []int{1}); err != nil {
		t.Fatalf("reassign error: %v", err)
	}
	record, err := service.GetTeacher(ctx, testOwner, "CS01")
	if err != nil {
		t.Fatalf("get teacher error: %v", err)
	}
	if len(record.Subjects) != 1 || record.Subjects[0] != "CS201" {
		t.Fatalf("expected overwritten subjects, got %+v", record.Subjects)
	}
	reviews, err := service.ListReviews(ctx, testOwner, "CS01", "CS101")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected historical review to persist, got %d", len(reviews))
	}
}
