package bot

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/views"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"strconv"
	"sync"
	"time"
)

// session is the UI state of one chat: a list view, a detail view and the
// filter machine driving the list.
type session struct {
	chatID  int64
	list    *views.ListController
	detail  *views.DetailController
	filters *filters.Machine

	loadOnce sync.Once
}

func newSession(chatID int64, client views.JobsAPI, bus EventBus.Bus, options Options) *session {
	s := &session{
		chatID: chatID,
		list:   views.NewListController(client, bus, chatID),
		detail: views.NewDetailController(client, options.ShareBaseURL),
	}
	s.filters = filters.NewMachine(options.SearchDebounce, func(state filters.State) {
		s.list.Refresh(context.Background(), state)
	})
	return s
}

// ensureLoaded fetches lookups and jobs once without announcing the list, so
// filter commands can resolve titles before the first /jobs.
func (s *session) ensureLoaded(ctx context.Context) {
	s.loadOnce.Do(func() {
		s.filters.WithCommitted(func(state filters.State) {
			s.list.Load(ctx, state)
		})
	})
}

func (s *session) mount(ctx context.Context) {
	s.loadOnce.Do(func() {})
	s.filters.WithCommitted(func(state filters.State) {
		s.list.Mount(ctx, state)
	})
}

func (s *session) close() {
	s.filters.Stop()
	log.Debugf("session %d closed", s.chatID)
}

type sessionStore struct {
	mu     sync.Mutex
	cache  *gocache.Cache
	create func(chatID int64) *session
}

// newSessionStore keeps sessions for ttl after their last use and sweeps
// expired ones every cleanupInterval. Evicted sessions are closed so their
// pending search never commits.
func newSessionStore(ttl, cleanupInterval time.Duration, create func(chatID int64) *session) *sessionStore {
	cache := gocache.New(ttl, cleanupInterval)
	cache.OnEvicted(func(_ string, value interface{}) {
		value.(*session).close()
	})
	return &sessionStore{cache: cache, create: create}
}

func (s *sessionStore) getOrCreate(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(chatID)
	if cached, found := s.cache.Get(key); found {
		existing := cached.(*session)
		s.cache.SetDefault(key, existing)
		return existing
	}

	// An expired session the janitor has not swept yet would be overwritten
	// without OnEvicted; sweep first so it gets closed.
	s.cache.DeleteExpired()

	created := s.create(chatID)
	s.cache.SetDefault(key, created)
	return created
}

func (s *sessionStore) get(chatID int64) (*session, bool) {
	cached, found := s.cache.Get(sessionKey(chatID))
	if !found {
		return nil, false
	}
	return cached.(*session), true
}

func (s *sessionStore) remove(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionKey(chatID))
}

func (s *sessionStore) count() int {
	return s.cache.ItemCount()
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache.Items() {
		s.cache.Delete(key)
	}
}

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
