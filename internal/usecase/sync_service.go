package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/kacemyassine/atlantis-league/internal/domain/league"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
)

// RemoteFileRef addresses one file in the remote content store.
type RemoteFileRef struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

// RemoteStore is the transport the sync service pushes through. GetContentSHA
// reports (sha, exists): a file that does not yet exist is an acceptable
// non-error state with no revision. PutContent submits full content together
// with the prior revision when one is known, so the remote store can reject
// conflicting concurrent writes (surfaced as ErrRemoteConflict).
type RemoteStore interface {
	FetchRaw(ctx context.Context, ref RemoteFileRef) ([]byte, error)
	GetContentSHA(ctx context.Context, ref RemoteFileRef) (string, bool, error)
	PutContent(ctx context.Context, ref RemoteFileRef, content []byte, sha, message string) (string, error)
}

// PushResult reports the new remote revision after a successful push.
type PushResult struct {
	SHA string `json:"sha"`
}

// SyncService keeps the local engine and the remote canonical dataset in
// step. Fetch replaces the whole local snapshot; push performs a
// read-revision-then-write against the remote store. A failed remote call
// never corrupts local state.
type SyncService struct {
	engine  *LeagueService
	remote  RemoteStore
	ref     RemoteFileRef
	logger  *logging.Logger
	now     func() time.Time
	pushing atomic.Bool
}

func NewSyncService(engine *LeagueService, remote RemoteStore, ref RemoteFileRef, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		engine: engine,
		remote: remote,
		ref:    ref,
		logger: logger,
		now:    time.Now,
	}
}

// FetchRemote pulls the canonical dataset, bypassing caches, and replaces
// the local snapshot with it.
func (s *SyncService) FetchRemote(ctx context.Context) (league.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.FetchRemote")
	defer span.End()

	raw, err := s.remote.FetchRaw(ctx, s.ref)
	if err != nil {
		s.logger.WarnContext(ctx, "remote fetch failed", "error", err)
		return league.Snapshot{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	var snapshot league.Snapshot
	if err := sonic.Unmarshal(raw, &snapshot); err != nil {
		s.logger.WarnContext(ctx, "remote dataset undecodable", "error", err)
		return league.Snapshot{}, fmt.Errorf("%w: decode remote dataset: %v", ErrRemoteUnavailable, err)
	}

	applied, err := s.engine.ReplaceState(ctx, snapshot)
	if err != nil {
		return league.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "remote dataset applied",
		"teams", len(applied.Teams),
		"players", len(applied.Players),
		"matches", len(applied.Matches),
	)

	return applied, nil
}

// PushRemote publishes the current full snapshot. Only one push may be in
// flight at a time: the revision-check-then-write at the remote store is the
// sole conflict-detection mechanism, and interleaving two local pushes would
// defeat it. Retrying after a reported failure is safe because the revision
// is re-read on every call.
func (s *SyncService) PushRemote(ctx context.Context) (PushResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.PushRemote")
	defer span.End()

	if !s.pushing.CompareAndSwap(false, true) {
		return PushResult{}, ErrPushInFlight
	}
	defer s.pushing.Store(false)

	snapshot := s.engine.FullState(ctx)
	content, err := sonic.ConfigDefault.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return PushResult{}, fmt.Errorf("encode snapshot: %w", err)
	}

	sha, exists, err := s.remote.GetContentSHA(ctx, s.ref)
	if err != nil {
		s.logger.WarnContext(ctx, "remote revision lookup failed", "error", err)
		return PushResult{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if !exists {
		sha = ""
	}

	message := "Update league data - " + s.now().UTC().Format(time.RFC3339)
	newSHA, err := s.remote.PutContent(ctx, s.ref, content, sha, message)
	if err != nil {
		if errors.Is(err, ErrRemoteConflict) {
			s.logger.WarnContext(ctx, "remote rejected stale revision", "sha", sha)
			return PushResult{}, err
		}
		s.logger.WarnContext(ctx, "remote push failed", "error", err)
		return PushResult{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	s.logger.InfoContext(ctx, "remote dataset updated", "sha", newSHA, "matches", len(snapshot.Matches))

	return PushResult{SHA: newSHA}, nil
}
