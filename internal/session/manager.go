// Package session keeps the in-memory form state of interactive clients.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/cockpit/internal/profile"
)

var (
	// ErrNotFound is returned for unknown or expired session IDs.
	ErrNotFound = errors.New("session not found")
	// ErrUnknownField is returned by SetField for keys that name no form field.
	ErrUnknownField = errors.New("unknown form field")
	// ErrInvalidValue is returned when a value has the wrong type for its field.
	ErrInvalidValue = errors.New("invalid field value")
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// Session is a snapshot of one client's form state.
type Session struct {
	ID        string       `json:"id"`
	Form      profile.Form `json:"form"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Manager owns all live sessions. Every read returns a deep copy, so callers
// never share form state with the manager.
type Manager struct {
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager with the given idle TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	return NewManagerWithClock(realClock{}, ttl)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(clock Clock, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		clock:    clock,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session holding the default form.
func (m *Manager) Create() Session {
	return m.CreateFrom(profile.NewForm())
}

// CreateFrom starts a session seeded with form, e.g. from a saved template.
func (m *Manager) CreateFrom(form profile.Form) Session {
	now := m.clock.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Form:      form.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	slog.Debug("session created", "id", s.ID)
	return snapshot(s)
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		return Session{}, ErrNotFound
	}
	return snapshot(s), nil
}

// SetField assigns one form field and returns the updated session. Changing
// use_case clears the selections that depend on it.
func (m *Manager) SetField(id, key string, value any) (Session, error) {
	return m.Patch(id, map[string]any{key: value})
}

// Patch assigns several form fields at once. use_case is applied first so a
// patch can switch the use-case and pick its goals in one call. The patch is
// all-or-nothing: on error the session is left unchanged.
func (m *Manager) Patch(id string, fields map[string]any) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		return Session{}, ErrNotFound
	}

	form := s.Form.Clone()
	for _, key := range patchOrder(fields) {
		next, err := setField(form, key, fields[key])
		if err != nil {
			return Session{}, err
		}
		form = next
	}

	s.Form = form
	s.UpdatedAt = m.clock.Now()
	return snapshot(s), nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	slog.Debug("session deleted", "id", id)
	return nil
}

// Sweep drops every session idle for longer than the TTL and reports how many
// were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("swept idle sessions", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// Len returns the number of live sessions, expired ones included until swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TTL returns the idle timeout.
func (m *Manager) TTL() time.Duration { return m.ttl }

func (m *Manager) expired(s *Session) bool {
	return !m.clock.Now().Before(s.UpdatedAt.Add(m.ttl))
}

func snapshot(s *Session) Session {
	cp := *s
	cp.Form = s.Form.Clone()
	return cp
}

func patchOrder(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "use_case" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := fields["use_case"]; ok {
		keys = append([]string{"use_case"}, keys...)
	}
	return keys
}

// setField applies one key to a copy of f.
func setField(f profile.Form, key string, value any) (profile.Form, error) {
	var err error
	switch key {
	case "use_case":
		var uc string
		if uc, err = asString(key, value); err == nil {
			f = f.WithUseCase(uc)
		}
	case "language":
		f.Language, err = asString(key, value)
	case "output_format":
		f.OutputFormat, err = asString(key, value)
	case "length":
		f.Length, err = asString(key, value)
	case "mode":
		f.Mode, err = asString(key, value)
	case "tone":
		f.Tone, err = asString(key, value)
	case "rigor":
		f.Rigor, err = asString(key, value)
	case "audience":
		f.Audience, err = asString(key, value)
	case "persona":
		f.Persona, err = asString(key, value)
	case "core_concern":
		f.CoreConcern, err = asString(key, value)
	case "context":
		f.Context, err = asString(key, value)
	case "constraints":
		f.Constraints, err = asString(key, value)

	case "sub_use_cases":
		f.SubUseCases, err = asStrings(key, value)
	case "sub_use_cases_text":
		f.SubUseCasesText, err = asString(key, value)
	case "goals":
		f.Goals, err = asStrings(key, value)
	case "goals_text":
		f.GoalsText, err = asString(key, value)
	case "goal_subtypes":
		f.GoalSubtypes, err = asStrings(key, value)
	case "goal_subtypes_text":
		f.GoalSubtypesText, err = asString(key, value)
	case "conversation_goals":
		f.ConversationGoals, err = asStrings(key, value)
	case "conversation_goals_text":
		f.ConversationGoalsText, err = asString(key, value)
	case "structure_blocks":
		f.StructureBlocks, err = asStrings(key, value)
	case "deep_question_ranks":
		f.DeepQuestionRanks, err = asStrings(key, value)

	case "deep_questions_enabled":
		f.DeepQuestionsEnabled, err = asBool(key, value)
	case "quality_flags.facts_check":
		f.Quality.FactsCheck, err = asBool(key, value)
	case "quality_flags.bias_check":
		f.Quality.BiasCheck, err = asBool(key, value)
	case "quality_flags.privacy_notice":
		f.Quality.PrivacyNotice, err = asBool(key, value)

	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, err
}

// Fields lists every key SetField accepts.
func Fields() []string {
	return []string{
		"language", "output_format", "length", "mode", "use_case",
		"sub_use_cases", "sub_use_cases_text",
		"goals", "goals_text",
		"goal_subtypes", "goal_subtypes_text",
		"conversation_goals", "conversation_goals_text",
		"audience", "persona", "core_concern", "context", "constraints",
		"tone", "rigor", "structure_blocks",
		"quality_flags.facts_check", "quality_flags.bias_check", "quality_flags.privacy_notice",
		"deep_questions_enabled", "deep_question_ranks",
	}
}

func asString(key string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidValue, key, v)
}

// asStrings accepts []string as well as the []any produced by decoding JSON.
func asStrings(key string, v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, nil
	case []any:
		out := make([]string, 0, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] expects a string, got %T", ErrInvalidValue, key, i, item)
			}
			out = append(out, str)
		}
		return out, nil
	case nil:
		return []string{}, nil
	}
	return nil, fmt.Errorf("%w: %s expects a list of strings, got %T", ErrInvalidValue, key, v)
}

func asBool(key string, v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%w: %s expects a boolean, got %T", ErrInvalidValue, key, v)
}
