package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	mu sync.Mutex

	raw     []byte
	rawErr  error
	sha     string
	exists  bool
	shaErr  error
	putSHA  string
	putErr  error
	puts    []stubPut
	putGate chan struct{}
}

type stubPut struct {
	content []byte
	sha     string
	message string
}

func (r *stubRemote) FetchRaw(context.Context, RemoteFileRef) ([]byte, error) {
	return r.raw, r.rawErr
}

func (r *stubRemote) GetContentSHA(context.Context, RemoteFileRef) (string, bool, error) {
	return r.sha, r.exists, r.shaErr
}

func (r *stubRemote) PutContent(_ context.Context, _ RemoteFileRef, content []byte, sha, message string) (string, error) {
	if r.putGate != nil {
		<-r.putGate
	}
	r.mu.Lock()
	r.puts = append(r.puts, stubPut{content: content, sha: sha, message: message})
	r.mu.Unlock()
	if r.putErr != nil {
		return "", r.putErr
	}
	return r.putSHA, nil
}

func testRef() RemoteFileRef {
	return RemoteFileRef{Owner: "kacemyassine", Repo: "atlantis-showdown", Path: "src/data/defaultLeagueData.json", Branch: "main"}
}

func TestFetchRemote_ReplacesLocalSnapshot(t *testing.T) {
	t.Parallel()

	remote := league.DefaultSnapshot()
	remote.Teams[0].Played = 3
	remote.Teams[0].Won = 3
	remote.Teams[0].Points = 9
	raw, err := sonic.Marshal(remote)
	require.NoError(t, err)

	engine := newTestEngine(t, &stubStore{}, false)
	sync := NewSyncService(engine, &stubRemote{raw: raw}, testRef(), nil)

	applied, err := sync.FetchRemote(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9, applied.Teams[0].Points)
	require.Equal(t, 9, engine.FullState(context.Background()).Teams[0].Points)
}

func TestFetchRemote_FailuresLeaveLocalStateUntouched(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	before := engine.FullState(context.Background())

	for name, remote := range map[string]*stubRemote{
		"transport error": {rawErr: errors.New("connection refused")},
		"undecodable":     {raw: []byte("<html>not json</html>")},
	} {
		sync := NewSyncService(engine, remote, testRef(), nil)
		_, err := sync.FetchRemote(context.Background())
		require.ErrorIs(t, err, ErrRemoteUnavailable, name)
	}

	after := engine.FullState(context.Background())
	require.Equal(t, before.Teams, after.Teams)
	require.Equal(t, len(before.Matches), len(after.Matches))
}

func TestFetchRemote_InvalidSnapshotRejected(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	raw, err := sonic.Marshal(league.Snapshot{Teams: []league.Team{{ID: "only", Name: "One"}}})
	require.NoError(t, err)

	sync := NewSyncService(engine, &stubRemote{raw: raw}, testRef(), nil)
	_, err = sync.FetchRemote(context.Background())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPushRemote_ReadsRevisionThenWrites(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	remote := &stubRemote{sha: "abc123", exists: true, putSHA: "def456"}
	sync := NewSyncService(engine, remote, testRef(), nil)
	sync.now = func() time.Time { return time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC) }

	result, err := sync.PushRemote(context.Background())
	require.NoError(t, err)
	require.Equal(t, "def456", result.SHA)

	require.Len(t, remote.puts, 1)
	require.Equal(t, "abc123", remote.puts[0].sha)
	require.Equal(t, "Update league data - 2026-05-01T18:00:00Z", remote.puts[0].message)

	var pushed league.Snapshot
	require.NoError(t, sonic.Unmarshal(remote.puts[0].content, &pushed))
	require.Len(t, pushed.Teams, 2)
}

func TestPushRemote_AbsentFilePushesWithoutRevision(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	remote := &stubRemote{exists: false, putSHA: "first"}
	sync := NewSyncService(engine, remote, testRef(), nil)

	_, err := sync.PushRemote(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", remote.puts[0].sha)
}

func TestPushRemote_ConflictPassesThrough(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	remote := &stubRemote{sha: "stale", exists: true, putErr: ErrRemoteConflict}
	sync := NewSyncService(engine, remote, testRef(), nil)

	_, err := sync.PushRemote(context.Background())
	require.ErrorIs(t, err, ErrRemoteConflict)
	require.NotErrorIs(t, err, ErrRemoteUnavailable)
}

func TestPushRemote_RevisionLookupFailure(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	remote := &stubRemote{shaErr: errors.New("502 bad gateway")}
	sync := NewSyncService(engine, remote, testRef(), nil)

	_, err := sync.PushRemote(context.Background())
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	require.Empty(t, remote.puts)
}

func TestPushRemote_SecondPushWhileInFlightIsRejected(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &stubStore{}, false)
	gate := make(chan struct{})
	remote := &stubRemote{exists: true, sha: "abc", putSHA: "next", putGate: gate}
	svc := NewSyncService(engine, remote, testRef(), nil)

	firstStarted := make(chan struct{})
	firstErr := make(chan error, 1)
	go func() {
		close(firstStarted)
		_, err := svc.PushRemote(context.Background())
		firstErr <- err
	}()

	<-firstStarted
	require.Eventually(t, func() bool { return svc.pushing.Load() }, time.Second, time.Millisecond)

	_, err := svc.PushRemote(context.Background())
	require.ErrorIs(t, err, ErrPushInFlight)

	close(gate)
	require.NoError(t, <-firstErr)
	require.Len(t, remote.puts, 1)

	// The guard is released after completion.
	remote.putGate = nil
	_, err = svc.PushRemote(context.Background())
	require.NoError(t, err)
}
