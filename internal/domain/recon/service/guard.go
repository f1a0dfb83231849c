package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chatledger/chatledger/internal/domain/recon"
)

// ConfirmGuard is the in-flight set of confirm fingerprints. A
// double-tapped confirmation acquires the same fingerprint and is
// rejected instead of committing the draft twice. Process-local, like the
// throttle.
type ConfirmGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewConfirmGuard() *ConfirmGuard {
	return &ConfirmGuard{inFlight: make(map[string]struct{})}
}

// Acquire claims the fingerprint; false means the same confirm is already
// running.
func (g *ConfirmGuard) Acquire(fp string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[fp]; busy {
		return false
	}
	g.inFlight[fp] = struct{}{}
	return true
}

// Release frees the fingerprint once the confirm finished either way.
func (g *ConfirmGuard) Release(fp string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, fp)
}

// Fingerprint derives a stable identity for a user's draft batch from the
// fields that define what would be committed.
func Fingerprint(userID uuid.UUID, batch []*recon.Candidate) string {
	var b strings.Builder
	b.WriteString(userID.String())
	for _, c := range batch {
		b.WriteByte('|')
		b.WriteString(string(c.Direction))
		b.WriteByte(':')
		b.WriteString(c.Amount.String())
		b.WriteByte(':')
		b.WriteString(c.Currency)
		b.WriteByte(':')
		if c.AccountID != nil {
			b.WriteString(c.AccountID.String())
		}
		b.WriteByte(':')
		if c.ToAccountID != nil {
			b.WriteString(c.ToAccountID.String())
		}
		b.WriteByte(':')
		b.WriteString(c.TransactionDate.UTC().Format("2006-01-02"))
		b.WriteByte(':')
		b.WriteString(c.Description)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
