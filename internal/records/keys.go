package records

import "fmt"

// All state lives flat in the key-value store under composite keys, one
// entry per (code, subject) or (roll, semester) pair.

func teacherKey(code string) string {
	return fmt.Sprintf("teacher:%s", code)
}

func poolKey(code, subject string) string {
	return fmt.Sprintf("pool:%s:%s", code, subject)
}

func reviewsKey(code, subject string) string {
	return fmt.Sprintf("reviews:%s:%s", code, subject)
}

func gradeKey(rollNumber string, semester uint32) string {
	return fmt.Sprintf("grade:%s:%d", rollNumber, semester)
}

// Redemption keys share one namespace regardless of which pool issued the
// password, so a value redeemed once is spent everywhere.
func redeemedKey(password uint32) string {
	return fmt.Sprintf("redeemed:%05d", password)
}

func teacherLinkKey(identity string) string {
	return fmt.Sprintf("link:teacher:%s", identity)
}

func studentLinkKey(identity string) string {
	return fmt.Sprintf("link:student:%s", identity)
}

func recruiterKey(identity string) string {
	return fmt.Sprintf("role:recruiter:%s", identity)
}

// rollSeenKey marks a roll number as registered at least once. Deactivation
// never clears it.
func rollSeenKey(rollNumber string) string {
	return fmt.Sprintf("roll:%s", rollNumber)
}
