package identity

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshTTL is the coarse interval after which cached subscription
// state is considered stale. Billing changes are not pushed into this
// service, so staleness up to this interval is accepted.
const DefaultRefreshTTL = 5 * time.Minute

type entry struct {
	gen       uint64
	user      CurrentUser
	fetchedAt time.Time
}

// Store is the single writer of derived CurrentUser state. All consumers
// read through Resolve; mutations of cached entries happen only here.
//
// Each entry carries a generation counter. A resolution started against
// generation g is applied only if the entry still exists at generation g,
// so a late-arriving result for a superseded login or an invalidated user
// is a no-op rather than an overwrite.
type Store struct {
	resolver *Resolver
	ttl      time.Duration
	clock    func() time.Time

	mu       sync.Mutex
	entries  map[uint]*entry
	watchers map[int]func(CurrentUser)
	nextID   int
}

func NewStore(resolver *Resolver, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	return &Store{
		resolver: resolver,
		ttl:      ttl,
		clock:    time.Now,
		entries:  make(map[uint]*entry),
		watchers: make(map[int]func(CurrentUser)),
	}
}

// Resolve returns the CurrentUser for a live session. A fresh cached entry
// for the same user is reused without re-fetching, so token refreshes and
// repeated requests do not trigger redundant network calls.
func (s *Store) Resolve(ctx context.Context, sess Session) CurrentUser {
	now := s.clock()

	s.mu.Lock()
	e, ok := s.entries[sess.UserID]
	if ok && now.Sub(e.fetchedAt) < s.ttl {
		// Session metadata may rotate between requests; the derived state stays.
		e.user.Session = sess
		cu := e.user
		s.mu.Unlock()
		return cu
	}
	if !ok {
		e = &entry{}
		s.entries[sess.UserID] = e
	}
	e.gen++
	gen := e.gen
	s.mu.Unlock()

	profile := s.resolver.ResolveProfile(ctx, sess)
	sub := s.resolver.ResolveSubscription(ctx, sess.UserID)
	cu := DeriveCurrentUser(sess, profile, sub, s.clock())

	s.mu.Lock()
	stored, ok := s.entries[sess.UserID]
	if ok && stored == e && stored.gen == gen {
		stored.user = cu
		stored.fetchedAt = cu.ResolvedAt
		s.notifyLocked(cu)
	}
	// A superseded resolution still answers its own caller but is not
	// applied to the cache.
	s.mu.Unlock()

	return cu
}

// Invalidate drops the cached entry for a user so the next Resolve
// re-fetches. Called on logout, role changes and subscription mutations.
// In-flight resolutions started before the invalidation will not be applied.
func (s *Store) Invalidate(userID uint) {
	s.mu.Lock()
	if e, ok := s.entries[userID]; ok {
		e.gen++
		delete(s.entries, userID)
	}
	s.mu.Unlock()
}

// Refresh forces an immediate re-resolution for a live session.
func (s *Store) Refresh(ctx context.Context, sess Session) CurrentUser {
	s.Invalidate(sess.UserID)
	return s.Resolve(ctx, sess)
}

// Subscribe registers a callback invoked whenever a derived CurrentUser is
// applied to the cache. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(CurrentUser)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// StartRefreshLoop re-resolves all cached users on a coarse interval until
// the context is canceled. This is the poll that bounds subscription
// staleness in the absence of billing webhooks.
func (s *Store) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, sess := range s.cachedSessions() {
					s.Refresh(ctx, sess)
				}
			}
		}
	}()
}

func (s *Store) cachedSessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]Session, 0, len(s.entries))
	for _, e := range s.entries {
		sessions = append(sessions, e.user.Session)
	}
	return sessions
}

func (s *Store) notifyLocked(cu CurrentUser) {
	for _, fn := range s.watchers {
		go fn(cu)
	}
}
