package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/infrastructure/db/docstore"
	"github.com/safespace/support-portal/internal/infrastructure/db/memory"
	"github.com/safespace/support-portal/internal/infrastructure/queue"
)

// ---------------------------------------------------------------------------
// Real file-backed store under t.TempDir, served by a running coordinator.
// ---------------------------------------------------------------------------

type fixture struct {
	dir         string
	backend     *docstore.FileBackend
	store       *docstore.Store
	coordinator *queue.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return openFixture(t, t.TempDir())
}

// openFixture builds a fresh store over dir, as a process restart would.
func openFixture(t *testing.T, dir string) *fixture {
	t.Helper()
	backend, err := docstore.NewFileBackend(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	coord := queue.NewCoordinator(2, zerolog.Nop())
	coord.Start(ctx)

	return &fixture{
		dir:         dir,
		backend:     backend,
		store:       docstore.NewStore(backend, docstore.Normalizer{}, zerolog.Nop()),
		coordinator: coord,
	}
}

func (f *fixture) readFile(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(f.backend.Path(name))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return raw
}

func (f *fixture) community() *CommunityService {
	return NewCommunityService(f.store, f.coordinator, 100, zerolog.Nop())
}

func (f *fixture) conversation(p *stubCompletion) *ConversationService {
	cfg := ConversationConfig{Timeout: 200 * time.Millisecond}
	if p == nil {
		return NewConversationService(f.store, f.coordinator, nil, cfg, zerolog.Nop())
	}
	return NewConversationService(f.store, f.coordinator, p, cfg, zerolog.Nop())
}

func (f *fixture) navigation(conv *ConversationService) (*NavigationService, *memory.SessionStore) {
	sessions := memory.NewSessionStore(time.Hour)
	return NewNavigationService(sessions, conv, f.community(), zerolog.Nop()), sessions
}

// loggedIn returns an authenticated session for username without going
// through the navigation service.
func loggedIn(username string) *domain.Session {
	s := domain.NewSession("sess-"+username, time.Now().UTC())
	s.Authenticated = true
	s.Username = username
	s.View = domain.Landing()
	s.HistorySeeded = true
	return s
}

// ---------------------------------------------------------------------------
// Completion stub
// ---------------------------------------------------------------------------

type stubCompletion struct {
	mu     sync.Mutex
	reply  string
	err    error
	block  bool // wait for ctx to end
	system string
	calls  [][]domain.Turn
}

func (p *stubCompletion) Complete(ctx context.Context, system string, turns []domain.Turn) (string, error) {
	p.mu.Lock()
	p.system = system
	p.calls = append(p.calls, append([]domain.Turn{}, turns...))
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.reply, p.err
}
