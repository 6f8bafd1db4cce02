package records

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

// passwordSpace bounds derived passwords to five digits.
const passwordSpace = 100000

// derivePassword is a one-way hash over a fixed-order encoding of the
// issuing identity, teacher code, subject code and sequence index.
// Reproducible from the same inputs, not practically invertible. Values may
// collide across pools; redemption is global so a collision spent once is
// spent everywhere.
func derivePassword(identity, code, subject string, index int) uint32 {
	h := sha256.New()
	h.Write([]byte(identity))
	h.Write([]byte{0})
	h.Write([]byte(code))
	h.Write([]byte{0})
	h.Write([]byte(subject))
	h.Write([]byte{0})
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(index))
	h.Write(buf[:])
	sum := h.Sum(nil)
	return uint32(binary.BigEndian.Uint64(sum[:8]) % passwordSpace)
}

func derivePool(identity, code, subject string, count int) []uint32 {
	pool := make([]uint32, 0, count)
	for index := 0; index < count; index++ {
		pool = append(pool, derivePassword(identity, code, subject, index))
	}
	return pool
}

// issuePasswords replaces the pool for (code, subject). No uniqueness check
// against other pools is performed.
func (s *Service) issuePasswords(ctx context.Context, identity, code, subject string, count int) error {
	return s.setJSON(ctx, poolKey(code, subject), derivePool(identity, code, subject, count))
}

// GetPasswords returns the issued pool for (code, subject), readable by the
// owner or the teacher linked to code.
func (s *Service) GetPasswords(ctx context.Context, caller, code, subject string) ([]uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.ownerOrTeacherOfCode(ctx, caller, code)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAuthorized
	}
	var pool []uint32
	ok, err := s.getJSON(ctx, poolKey(code, subject), &pool)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return pool, nil
}

func (s *Service) isRedeemed(ctx context.Context, password uint32) (bool, error) {
	_, ok, err := s.store.Get(ctx, redeemedKey(password))
	return ok, err
}

// redeem marks password as spent, exactly once system-wide. Callers hold the
// write lock; SetNX keeps the check-and-set atomic against other processes
// sharing the store.
func (s *Service) redeem(ctx context.Context, password uint32) error {
	set, err := s.store.SetNX(ctx, redeemedKey(password), []byte("1"))
	if err != nil {
		return err
	}
	if !set {
		return ErrAlreadyRedeemed
	}
	return nil
}

// poolContains must stay correct when the pool holds duplicate values.
func poolContains(pool []uint32, password uint32) bool {
	for _, value := range pool {
		if value == password {
			return true
		}
	}
	return false
}
