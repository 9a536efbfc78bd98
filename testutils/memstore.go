package testutils

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

// The in-memory stores below mirror the error kinds of the Mongo
// repositories so services can be tested without a database.
var (
	errEmailTaken      = errors.New("an account with this email already exists")
	errUserNotFound    = errors.New("user not found")
	errProfileNotFound = errors.New("profile not found")
	errSessionNotFound = errors.New("session not found")
	errWriteConflict   = errors.New("profile was modified concurrently")
)

type MemUsers struct {
	Mu    sync.Mutex
	Users map[string]*model.User
}

func NewMemUsers() *MemUsers { return &MemUsers{Users: map[string]*model.User{}} }

func (m *MemUsers) AddUser(_ context.Context, user *model.User) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	for _, u := range m.Users {
		if !user.IsGuest && !u.IsGuest && u.Email == user.Email {
			return apperr.New(apperr.KindAccountExists, "add user", errEmailTaken)
		}
	}
	cp := *user
	m.Users[user.UserID] = &cp
	return nil
}

func (m *MemUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email && !u.IsGuest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("find user by email", errUserNotFound)
}

func (m *MemUsers) FindUser(_ context.Context, userID string) (*model.User, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	u, ok := m.Users[userID]
	if !ok {
		return nil, apperr.NotFound("find user", errUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MemUsers) UpdateDisplayName(_ context.Context, userID, name string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	u, ok := m.Users[userID]
	if !ok {
		return apperr.NotFound("update user display name", errUserNotFound)
	}
	u.DisplayName = name
	return nil
}

// MemProfiles mimics the version-guarded Mongo store. BeforeWrite runs
// inside WriteProfile before the version check and may inject failures.
type MemProfiles struct {
	Mu          sync.Mutex
	Profiles    map[string]*model.UserProfile
	Writes      int
	BeforeWrite func(m *MemProfiles, profile *model.UserProfile) error
	FailGet     error
}

func NewMemProfiles() *MemProfiles { return &MemProfiles{Profiles: map[string]*model.UserProfile{}} }

func (m *MemProfiles) GetProfile(_ context.Context, userID string) (*model.UserProfile, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	p, ok := m.Profiles[userID]
	if !ok {
		return nil, apperr.NotFound("get profile", errProfileNotFound)
	}
	return p.Clone(), nil
}

func (m *MemProfiles) CreateProfile(_ context.Context, profile *model.UserProfile) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if _, ok := m.Profiles[profile.UserID]; ok {
		return apperr.Conflict("create profile", errors.New("profile already exists"))
	}
	profile.Version = 1
	m.Profiles[profile.UserID] = profile.Clone()
	return nil
}

func (m *MemProfiles) WriteProfile(_ context.Context, profile *model.UserProfile, expectedVersion int64) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.BeforeWrite != nil {
		if err := m.BeforeWrite(m, profile); err != nil {
			return err
		}
	}
	stored, ok := m.Profiles[profile.UserID]
	if !ok || stored.Version != expectedVersion {
		return apperr.Conflict("write profile", errWriteConflict)
	}
	next := profile.Clone()
	next.Version = expectedVersion + 1
	m.Profiles[profile.UserID] = next
	profile.Version = next.Version
	m.Writes++
	return nil
}

func (m *MemProfiles) QueryTopProfiles(_ context.Context, limit int) ([]*model.UserProfile, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var out []*model.UserProfile
	for _, p := range m.Profiles {
		if !p.IsGuest {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.TasksCompleted != b.TasksCompleted {
			return a.TasksCompleted > b.TasksCompleted
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.UserID < b.UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemProfiles) UpdateDisplayName(_ context.Context, userID, name string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	p, ok := m.Profiles[userID]
	if !ok {
		return apperr.NotFound("update profile display name", errProfileNotFound)
	}
	p.DisplayName = name
	return nil
}

// Stored returns the persisted profile without going through failGet.
func (m *MemProfiles) Stored(userID string) *model.UserProfile {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Profiles[userID].Clone()
}

type MemSessions struct {
	Mu       sync.Mutex
	Sessions map[string]*model.Session
}

func NewMemSessions() *MemSessions { return &MemSessions{Sessions: map[string]*model.Session{}} }

func (m *MemSessions) CreateSession(_ context.Context, s *model.Session) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	cp := *s
	m.Sessions[s.SessionID] = &cp
	return nil
}

func (m *MemSessions) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return nil, apperr.NotFound("get session", errSessionNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *MemSessions) Touch(_ context.Context, id string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if s, ok := m.Sessions[id]; ok && s.IsActive {
		s.LastActivityAt = time.Now()
	}
	return nil
}

func (m *MemSessions) EndSession(_ context.Context, id string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return apperr.NotFound("end session", errSessionNotFound)
	}
	s.IsActive = false
	return nil
}

func (m *MemSessions) activeLocked(userID string) []*model.Session {
	var out []*model.Session
	for _, s := range m.Sessions {
		if s.UserID == userID && s.IsActive && s.ExpiresAt.After(time.Now()) {
			out = append(out, s)
		}
	}
	return out
}

func (m *MemSessions) EndLeastActiveSession(_ context.Context, userID string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	active := m.activeLocked(userID)
	if len(active) == 0 {
		return nil
	}
	sort.Slice(active, func(i, j int) bool { return active[i].LastActivityAt.Before(active[j].LastActivityAt) })
	active[0].IsActive = false
	return nil
}

func (m *MemSessions) CountActiveSessions(_ context.Context, userID string) (int, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.activeLocked(userID)), nil
}

type MemRevoker struct {
	Mu      sync.Mutex
	Revoked map[string]bool
	Err     error
}

func NewMemRevoker() *MemRevoker { return &MemRevoker{Revoked: map[string]bool{}} }

func (m *MemRevoker) Revoke(_ context.Context, token, _ string, _ time.Time) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Revoked[token] = true
	return nil
}

func (m *MemRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	return m.Revoked[token], nil
}

type MemBoardCache struct {
	Mu          sync.Mutex
	Gen         int64
	Entries     map[int64]map[int][]model.LeaderboardEntry
	Invalidated int
}

func NewMemBoardCache() *MemBoardCache {
	return &MemBoardCache{Entries: map[int64]map[int][]model.LeaderboardEntry{}}
}

func (m *MemBoardCache) Generation(context.Context) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Gen, nil
}

func (m *MemBoardCache) Get(_ context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	e, ok := m.Entries[gen][limit]
	return e, ok, nil
}

func (m *MemBoardCache) Set(_ context.Context, gen int64, limit int, entries []model.LeaderboardEntry) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Entries[gen] == nil {
		m.Entries[gen] = map[int][]model.LeaderboardEntry{}
	}
	m.Entries[gen][limit] = entries
	return nil
}

// Cached returns the board stored for limit in the current generation.
func (m *MemBoardCache) Cached(limit int) ([]model.LeaderboardEntry, bool) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	e, ok := m.Entries[m.Gen][limit]
	return e, ok
}

func (m *MemBoardCache) Invalidate(context.Context) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Gen++
	m.Invalidated++
	return nil
}
