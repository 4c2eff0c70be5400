package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"prepcoach/internal/apperr"
	"prepcoach/internal/kv"
	"prepcoach/internal/models"

	"go.uber.org/zap"
)

const (
	snapshotPrefix = "interviewSession:"
	resultPrefix   = "interview_results:"
	historyPrefix  = "user_interviews:"
	resultsIndex   = "results_index"

	DefaultProfile = "default"
)

func SnapshotKey(profile string) string { return snapshotPrefix + profile }

func ResultKey(userID, sessionID string) string {
	return resultPrefix + userID + ":" + sessionID
}

func HistoryKey(userID string) string { return historyPrefix + userID }

// StoredSnapshot is one current-session slot found by ListSnapshots.
// Session is nil when the slot holds data that cannot be decoded.
type StoredSnapshot struct {
	Profile string
	Session *models.Session
}

// SnapshotStore keeps in-progress sessions, completed results and per-user
// history on top of a kv.Store. Missing or corrupt entries read as empty.
type SnapshotStore struct {
	kv      kv.Store
	profile string
	logger  *zap.Logger
	mu      *sync.Mutex
}

func NewSnapshotStore(store kv.Store, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{kv: store, profile: DefaultProfile, logger: logger, mu: &sync.Mutex{}}
}

// ForProfile returns a view whose snapshot slot belongs to profile. Result,
// history and index operations are shared by every view.
func (s *SnapshotStore) ForProfile(profile string) *SnapshotStore {
	view := *s
	view.profile = profile
	return &view
}

func (s *SnapshotStore) Profile() string { return s.profile }

func storeErr(msg string, err error) error {
	return apperr.Store("store_failure", msg, err)
}

// get returns (nil, nil) when the key is absent.
func (s *SnapshotStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("failed to read "+key, err)
	}
	return data, nil
}

func (s *SnapshotStore) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return storeErr("failed to encode "+key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return storeErr("failed to write "+key, err)
	}
	return nil
}

func (s *SnapshotStore) corrupt(key string, err error) {
	s.logger.Warn("discarding corrupt entry",
		zap.String("key", key),
		zap.Error(apperr.State("corrupt_entry", "entry could not be decoded", err)))
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, session *models.Session) error {
	return s.put(ctx, SnapshotKey(s.profile), session)
}

// LoadSnapshot returns (nil, nil) when the slot is empty. A slot that cannot
// be decoded is deleted and also reads as empty.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*models.Session, error) {
	key := SnapshotKey(s.profile)
	data, err := s.get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.corrupt(key, err)
		if derr := s.kv.Delete(ctx, key); derr != nil {
			return nil, storeErr("failed to delete corrupt snapshot", derr)
		}
		return nil, nil
	}
	return &session, nil
}

func (s *SnapshotStore) ClearSnapshot(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SnapshotKey(s.profile)); err != nil {
		return storeErr("failed to clear snapshot", err)
	}
	return nil
}

// ListSnapshots scans every current-session slot.
func (s *SnapshotStore) ListSnapshots(ctx context.Context) ([]StoredSnapshot, error) {
	entries, err := s.kv.Scan(ctx, snapshotPrefix)
	if err != nil {
		return nil, storeErr("failed to scan snapshots", err)
	}
	out := make([]StoredSnapshot, 0, len(entries))
	for _, e := range entries {
		snap := StoredSnapshot{Profile: strings.TrimPrefix(e.Key, snapshotPrefix)}
		var session models.Session
		if err := json.Unmarshal(e.Value, &session); err != nil {
			s.corrupt(e.Key, err)
		} else {
			snap.Session = &session
		}
		out = append(out, snap)
	}
	return out, nil
}

// SaveResult writes the result blob and, the first time a pair is seen,
// appends it to the results index.
func (s *SnapshotStore) SaveResult(ctx context.Context, userID, sessionID string, result *models.CompletedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ResultKey(userID, sessionID)
	existing, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if err := s.put(ctx, key, result); err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	refs, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}
	refs = append(refs, models.ResultRef{UserID: userID, SessionID: sessionID})
	return s.put(ctx, resultsIndex, refs)
}

// GetResult returns (nil, nil) for a missing or corrupt blob.
func (s *SnapshotStore) GetResult(ctx context.Context, userID, sessionID string) (*models.CompletedResult, error) {
	key := ResultKey(userID, sessionID)
	data, err := s.get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var result models.CompletedResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.corrupt(key, err)
		return nil, nil
	}
	return &result, nil
}

func (s *SnapshotStore) loadIndex(ctx context.Context) ([]models.ResultRef, error) {
	data, err := s.get(ctx, resultsIndex)
	if err != nil || data == nil {
		return nil, err
	}
	var refs []models.ResultRef
	if err := json.Unmarshal(data, &refs); err != nil {
		s.corrupt(resultsIndex, err)
		return nil, nil
	}
	return refs, nil
}

// ListAllResults walks the results index in insertion order. The cost is
// O(N) reads; refs whose blob is gone or unreadable are skipped.
func (s *SnapshotStore) ListAllResults(ctx context.Context) ([]models.CompletedResult, error) {
	s.mu.Lock()
	refs, err := s.loadIndex(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	results := make([]models.CompletedResult, 0, len(refs))
	for _, ref := range refs {
		r, err := s.GetResult(ctx, ref.UserID, ref.SessionID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		results = append(results, *r)
	}
	return results, nil
}

func (s *SnapshotStore) AppendToUserHistory(ctx context.Context, userID string, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.ListUserHistory(ctx, userID)
	if err != nil {
		return err
	}
	history = append(history, entry)
	return s.put(ctx, HistoryKey(userID), history)
}

// ListUserHistory returns the user's entries in append order. A corrupt list reads as empty.
func (s *SnapshotStore) ListUserHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	key := HistoryKey(userID)
	data, err := s.get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var history []models.HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		s.corrupt(key, err)
		return nil, nil
	}
	return history, nil
}

// ListAllHistories scans every user's history list, keyed by user id.
func (s *SnapshotStore) ListAllHistories(ctx context.Context) (map[string][]models.HistoryEntry, error) {
	entries, err := s.kv.Scan(ctx, historyPrefix)
	if err != nil {
		return nil, storeErr("failed to scan histories", err)
	}
	out := make(map[string][]models.HistoryEntry, len(entries))
	for _, e := range entries {
		var history []models.HistoryEntry
		if err := json.Unmarshal(e.Value, &history); err != nil {
			s.corrupt(e.Key, err)
			continue
		}
		out[strings.TrimPrefix(e.Key, historyPrefix)] = history
	}
	return out, nil
}
