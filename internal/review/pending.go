package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"teambot/internal/knowledge"
	"teambot/internal/logging"
)

const (
	pendingCapacity = 512
	pendingTTL      = 30 * time.Minute
)

// PendingRegistration is a reviewed request waiting for the user to choose
// how to register it.
type PendingRegistration struct {
	TeamKey   string
	Kind      knowledge.Kind
	Original  string
	Improved  string
	UserID    string
	ChannelID string
	ThreadTS  string
}

// PendingStore holds reviewed registrations keyed by action ID. Entries
// expire after 30 minutes or get evicted under capacity pressure, so a
// missing entry always means "만료" to the caller.
type PendingStore struct {
	cache  *expirable.LRU[string, PendingRegistration]
	logger logging.Logger
}

func NewPendingStore(logger logging.Logger) *PendingStore {
	return &PendingStore{
		cache:  expirable.NewLRU[string, PendingRegistration](pendingCapacity, nil, pendingTTL),
		logger: logging.OrNop(logger),
	}
}

// NewActionID mints the identifier tying the review message's buttons to the
// stored registration.
func NewActionID() string {
	return "review_" + uuid.NewString()
}

func (s *PendingStore) Put(actionID string, reg PendingRegistration) {
	s.cache.Add(actionID, reg)
	s.logger.Debug("review: pending %s team=%s kind=%s", actionID, reg.TeamKey, reg.Kind)
}

// Get returns the registration without consuming it. Used when opening the
// edit modal, which must leave the entry for the eventual submission.
func (s *PendingStore) Get(actionID string) (PendingRegistration, bool) {
	return s.cache.Get(actionID)
}

// Take removes and returns the registration so each review is registered at
// most once even when a button is clicked twice.
func (s *PendingStore) Take(actionID string) (PendingRegistration, bool) {
	reg, ok := s.cache.Get(actionID)
	if ok {
		s.cache.Remove(actionID)
	}
	return reg, ok
}

func (s *PendingStore) Remove(actionID string) {
	s.cache.Remove(actionID)
}
