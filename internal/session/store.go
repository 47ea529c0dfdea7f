// Package session owns the credential lifecycle: load on start, remote
// revalidation, decode into an in-memory session, publish to consumers,
// and teardown. Nothing else reads or writes the persisted credential.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/desk-console/internal/auth"
	"github.com/spec-kit/desk-console/internal/credstore"
	"github.com/spec-kit/desk-console/internal/domain"
)

// DeskAuth is the slice of the remote client the store needs.
type DeskAuth interface {
	// Login exchanges credentials for a signed token.
	Login(ctx context.Context, email, password string) (string, error)
	// Validate probes the desk with a candidate token.
	Validate(ctx context.Context, token string) error
}

// Snapshot is one published store state. Seq increases monotonically;
// consumers holding an older snapshot must replace it.
type Snapshot struct {
	Session domain.Session
	Loading bool
	Seq     uint64
}

// Store is the single owner of the signed credential.
type Store struct {
	creds  credstore.Store
	desk   DeskAuth
	logger *zap.Logger

	mu          sync.Mutex
	session     domain.Session
	token       string
	loading     bool
	seq         uint64
	op          uint64
	initialized bool
	subscribers []chan Snapshot
}

// NewStore builds a session store. The store starts absent and not
// loading; Initialize establishes the real state.
func NewStore(creds credstore.Store, desk DeskAuth, logger *zap.Logger) *Store {
	return &Store{creds: creds, desk: desk, logger: logger}
}

// Token supplies the current credential for authenticated desk calls.
// Empty means anonymous. Wire this as the remote client's TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Snapshot returns the latest published state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Session: s.session, Loading: s.loading, Seq: s.seq}
}

// Subscribe returns a channel that receives every published snapshot,
// newest wins: if the consumer lags, older snapshots are dropped rather
// than queued. Call cancel to release the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub == ch {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

// Initialize restores the session from the persisted credential: load,
// revalidate against the desk once, decode, publish. Any failure purges
// the credential and publishes an absent session; none of it reaches
// the caller as an error. Runs at most once per process lifetime.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		s.logger.Warn("session store initialized twice; ignoring")
		return
	}
	s.initialized = true
	s.op++
	op := s.op
	s.loading = true
	s.publishLocked()
	s.mu.Unlock()

	token, err := s.creds.Load()
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			s.logger.Warn("credential load failed", zap.Error(err))
		}
		s.settle(op, domain.Session{}, "", false)
		return
	}

	if err := s.desk.Validate(ctx, token); err != nil {
		s.logger.Info("stored credential rejected", zap.Error(err))
		s.settle(op, domain.Session{}, "", true)
		return
	}

	sess, err := auth.DecodeCredential(token, time.Now())
	if err != nil {
		s.logger.Info("stored credential undecodable", zap.Error(err))
		s.settle(op, domain.Session{}, "", true)
		return
	}

	s.settle(op, sess, token, false)
}

// Login authenticates against the desk. On success the credential is
// stored and the decoded session published; on failure the error is
// returned verbatim and stored state is untouched. Callers must not
// start a second Login while Loading is true — the triggering control
// is disabled, not the store locked.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.op++
	op := s.op
	s.loading = true
	s.publishLocked()
	s.mu.Unlock()

	token, err := s.desk.Login(ctx, email, password)
	if err != nil {
		s.finishLoading(op)
		return err
	}

	sess, decodeErr := auth.DecodeCredential(token, time.Now())
	if decodeErr != nil {
		// The desk handed back a token the client cannot read. Treat it
		// like a rejected credential rather than surfacing a half-open
		// session.
		s.logger.Error("issued credential undecodable", zap.Error(decodeErr))
		s.settle(op, domain.Session{}, "", true)
		return decodeErr
	}

	return s.settleLogin(op, sess, token)
}

// Logout purges the credential and publishes an absent session.
// Idempotent, and it supersedes any in-flight Initialize or Login:
// their late completions are discarded.
func (s *Store) Logout() {
	s.mu.Lock()
	s.op++
	op := s.op
	s.mu.Unlock()
	s.settle(op, domain.Session{}, "", true)
}

// settle applies an operation's outcome if no later operation has
// superseded it. Late completions after a Logout land here and are
// dropped, so a finished validation cannot resurrect a session.
func (s *Store) settle(op uint64, sess domain.Session, token string, purge bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op != s.op {
		s.logger.Debug("discarding superseded session result")
		return
	}
	if purge {
		if err := s.creds.Clear(); err != nil {
			s.logger.Warn("credential clear failed", zap.Error(err))
		}
	}
	s.session = sess
	s.token = token
	s.loading = false
	s.publishLocked()
}

// settleLogin persists and publishes a successful login, unless a later
// operation superseded it. The save happens inside the supersession
// check: a logout that raced the login must not find a fresh credential
// on disk afterwards.
func (s *Store) settleLogin(op uint64, sess domain.Session, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op != s.op {
		s.logger.Debug("discarding superseded login result")
		return nil
	}
	if err := s.creds.Save(token); err != nil {
		s.loading = false
		s.publishLocked()
		return err
	}
	s.session = sess
	s.token = token
	s.loading = false
	s.publishLocked()
	return nil
}

// finishLoading drops the loading flag without changing the session,
// for failure paths that must leave stored state alone.
func (s *Store) finishLoading(op uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op != s.op {
		return
	}
	s.loading = false
	s.publishLocked()
}

// publishLocked bumps the sequence and fans the snapshot out. Callers
// hold s.mu. Sends never block: each subscriber channel holds only the
// newest snapshot.
func (s *Store) publishLocked() {
	s.seq++
	snap := Snapshot{Session: s.session, Loading: s.loading, Seq: s.seq}
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
