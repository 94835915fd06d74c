package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/compozy/semtag/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// SessionSchemaVersion is written into every journal file
	SessionSchemaVersion = "1.0.0"
	// SessionFilePermissions applies to journal files
	SessionFilePermissions = 0600
	// SessionDirPermissions applies to the journal directory
	SessionDirPermissions = 0700
	// LockTimeout bounds how long a journal file lock is awaited
	LockTimeout = 30 * time.Second
	// LockRetryInterval is the polling interval while waiting for a lock
	LockRetryInterval = 100 * time.Millisecond

	sessionFilePrefix = "session-"
	sessionFileSuffix = ".json"
	latestFile        = "latest.txt"
)

// SessionRepository defines the interface for the publish session journal
type SessionRepository interface {
	Save(ctx context.Context, session *domain.PublishSession) error
	Load(ctx context.Context, sessionID string) (*domain.PublishSession, error)
	LoadLatest(ctx context.Context) (*domain.PublishSession, error)
	List(ctx context.Context) ([]*domain.PublishSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// sessionEnvelope is the on-disk form of a session. Checksum covers the
// compact JSON encoding of Session.
type sessionEnvelope struct {
	SchemaVersion string          `json:"schema_version"`
	Checksum      string          `json:"checksum"`
	SavedAt       time.Time       `json:"saved_at"`
	Session       json.RawMessage `json:"session"`
}

// JSONSessionRepository stores one JSON file per session. Lock files live on
// the OS filesystem next to the session files.
type JSONSessionRepository struct {
	fs  afero.Fs
	dir string
	// mu serializes updates of the latest pointer within the process
	mu sync.Mutex
}

// SessionDir returns the journal directory for a repository rooted at dir.
func SessionDir(dir string) string {
	return filepath.Join(dir, ".git", "semtag")
}

// NewJSONSessionRepository creates a journal stored in sessionDir.
func NewJSONSessionRepository(fs afero.Fs, sessionDir string) SessionRepository {
	return &JSONSessionRepository{fs: fs, dir: sessionDir}
}

// Save writes the session and marks it as the latest one.
func (r *JSONSessionRepository) Save(ctx context.Context, session *domain.PublishSession) error {
	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	data, err := json.MarshalIndent(sessionEnvelope{
		SchemaVersion: SessionSchemaVersion,
		Checksum:      checksum(body),
		SavedAt:       time.Now(),
		Session:       body,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	if err := r.fs.MkdirAll(r.dir, SessionDirPermissions); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	unlock, err := r.lock(ctx, session.SessionID, false)
	if err != nil {
		return err
	}
	defer unlock()
	if err := r.writeAtomic(r.sessionPath(session.SessionID), data); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeAtomic(r.latestPath(), []byte(session.SessionID))
}

// Load reads a session and verifies its schema and checksum.
func (r *JSONSessionRepository) Load(ctx context.Context, sessionID string) (*domain.PublishSession, error) {
	path := r.sessionPath(sessionID)
	if _, err := r.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to stat session %s: %w", sessionID, err)
	}
	unlock, err := r.lock(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	defer unlock()
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}
	return decodeSession(data)
}

// LoadLatest reads the session saved last.
func (r *JSONSessionRepository) LoadLatest(ctx context.Context) (*domain.PublishSession, error) {
	r.mu.Lock()
	data, err := afero.ReadFile(r.fs, r.latestPath())
	r.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no sessions recorded", domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("failed to read latest session pointer: %w", err)
	}
	sessionID := strings.TrimSpace(string(data))
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty latest session pointer", domain.ErrSessionNotFound)
	}
	return r.Load(ctx, sessionID)
}

// List returns every readable session, newest first.
func (r *JSONSessionRepository) List(ctx context.Context) ([]*domain.PublishSession, error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}
	var sessions []*domain.PublishSession
	for _, entry := range entries {
		id, ok := sessionIDFromFile(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		if session, err := r.Load(ctx, id); err == nil {
			sessions = append(sessions, session)
		}
	}
	slices.SortFunc(sessions, func(a, b *domain.PublishSession) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return sessions, nil
}

// Delete removes a session, clearing the latest pointer when it named it.
func (r *JSONSessionRepository) Delete(ctx context.Context, sessionID string) error {
	unlock, err := r.lock(ctx, sessionID, false)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(r.sessionPath(sessionID)); err != nil && !os.IsNotExist(err) {
		unlock()
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	unlock()
	_ = os.Remove(r.lockPath(sessionID))

	r.mu.Lock()
	defer r.mu.Unlock()
	latest, err := afero.ReadFile(r.fs, r.latestPath())
	if err == nil && strings.TrimSpace(string(latest)) == sessionID {
		if err := r.fs.Remove(r.latestPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear latest session pointer: %w", err)
		}
	}
	return nil
}

func decodeSession(data []byte) (*domain.PublishSession, error) {
	var env sessionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	if env.SchemaVersion != SessionSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			SessionSchemaVersion, env.SchemaVersion)
	}
	var body bytes.Buffer
	if err := json.Compact(&body, env.Session); err != nil {
		return nil, fmt.Errorf("failed to decode session body: %w", err)
	}
	if checksum(body.Bytes()) != env.Checksum {
		return nil, fmt.Errorf("session checksum mismatch: data may be corrupted")
	}
	var session domain.PublishSession
	if err := json.Unmarshal(body.Bytes(), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// lock takes a shared or exclusive flock on the session's lock file.
func (r *JSONSessionRepository) lock(ctx context.Context, sessionID string, shared bool) (func(), error) {
	if err := os.MkdirAll(r.dir, SessionDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	fl := flock.New(r.lockPath(sessionID))
	ctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	acquire := fl.TryLockContext
	if shared {
		acquire = fl.TryRLockContext
	}
	locked, err := acquire(ctx, LockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not lock session %s within %s", sessionID, LockTimeout)
	}
	return func() { _ = fl.Unlock() }, nil
}

// writeAtomic writes data next to path and renames it into place.
func (r *JSONSessionRepository) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, SessionFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := r.fs.Rename(tmp, path); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (r *JSONSessionRepository) sessionPath(sessionID string) string {
	return filepath.Join(r.dir, sessionFilePrefix+sessionID+sessionFileSuffix)
}

func (r *JSONSessionRepository) lockPath(sessionID string) string {
	return filepath.Join(r.dir, "."+sessionFilePrefix+sessionID+".lock")
}

func (r *JSONSessionRepository) latestPath() string {
	return filepath.Join(r.dir, latestFile)
}

func sessionIDFromFile(name string) (string, bool) {
	if !strings.HasPrefix(name, sessionFilePrefix) || !strings.HasSuffix(name, sessionFileSuffix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, sessionFilePrefix), sessionFileSuffix), true
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
