package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/google/uuid"
)

// MemoryStorage keeps users and submissions in process memory. It honours
// the same contract as the Postgres repositories and backs the server when
// no DSN is configured.
type MemoryStorage struct {
	mu sync.RWMutex

	users       map[string]models.User
	emails      map[string]string
	submissions map[string]*memSubmission

	seq   int64
	clock func() time.Time
	last  time.Time

	logger *logger.Logger
}

type memSubmission struct {
	models.Submission
	seq int64
}

func NewMemoryStorage(log *logger.Logger) *MemoryStorage {
	log.Debug().Msg("creating in-memory storage")
	return &MemoryStorage{
		users:       make(map[string]models.User),
		emails:      make(map[string]string),
		submissions: make(map[string]*memSubmission),
		clock:       time.Now,
		logger:      log,
	}
}

// touch returns the timestamp for a mutation. Timestamps are strictly
// increasing at microsecond precision, like timestamptz. Callers hold mu.
func (m *MemoryStorage) touch() time.Time {
	t := m.clock().UTC().Truncate(time.Microsecond)
	if !t.After(m.last) {
		t = m.last.Add(time.Microsecond)
	}
	m.last = t
	return t
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStorage) CreateUser(ctx context.Context, email, hashedPassword string) (models.User, error) {
	if err := validateNewUser(email, hashedPassword); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[email]; ok {
		logger.FromContext(ctx).Debug().Str("func", "*MemoryStorage.CreateUser").Msg("email already exists")
		return models.User{}, ErrEmailAlreadyExists
	}

	now := m.touch()
	user := models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.users[user.ID] = user
	m.emails[email] = user.ID

	return user, nil
}

func (m *MemoryStorage) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *MemoryStorage) GetUserByID(_ context.Context, id string) (models.User, error) {
	if err := validateID(id); err != nil {
		return models.User{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// DeleteUser removes the user and every submission they own.
func (m *MemoryStorage) DeleteUser(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.emails, user.Email)

	for sid, s := range m.submissions {
		if s.UserID != nil && *s.UserID == id {
			delete(m.submissions, sid)
		}
	}
	return nil
}

func (m *MemoryStorage) CreateSubmission(_ context.Context, userID *string, formData json.RawMessage) (models.Submission, error) {
	if err := validateOptionalID(userID); err != nil {
		return models.Submission{}, err
	}
	if err := validateFormData(formData); err != nil {
		return models.Submission{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var owner *string
	if userID != nil {
		if _, ok := m.users[*userID]; !ok {
			return models.Submission{}, ErrUserReferenceNotFound
		}
		id := *userID
		owner = &id
	}

	now := m.touch()
	m.seq++
	s := &memSubmission{
		Submission: models.Submission{
			ID:        uuid.NewString(),
			UserID:    owner,
			FormData:  compactJSON(formData),
			Status:    models.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: m.seq,
	}
	m.submissions[s.ID] = s

	return copySubmission(s.Submission), nil
}

func (m *MemoryStorage) GetSubmission(_ context.Context, id string, scope models.Scope) (models.Submission, error) {
	if err := validateID(id); err != nil {
		return models.Submission{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.visible(id, scope)
	if !ok {
		return models.Submission{}, ErrSubmissionNotFound
	}
	return copySubmission(s.Submission), nil
}

func (m *MemoryStorage) ListSubmissions(_ context.Context, filter models.SubmissionFilter, page models.Pagination, scope models.Scope) ([]models.Submission, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if err := validatePagination(page); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.filter(filter, scope)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	out := make([]models.Submission, 0, page.Limit)
	for i := page.Offset; i < len(matched) && len(out) < page.Limit; i++ {
		out = append(out, copySubmission(matched[i].Submission))
	}
	return out, nil
}

func (m *MemoryStorage) CountSubmissions(_ context.Context, filter models.SubmissionFilter, scope models.Scope) (int64, error) {
	if err := validateFilter(filter); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.filter(filter, scope))), nil
}

func (m *MemoryStorage) UpdateSubmissionStatus(_ context.Context, id string, update models.StatusUpdate, scope models.Scope) (models.Submission, error) {
	if err := validateID(id); err != nil {
		return models.Submission{}, err
	}
	if err := validateStatusUpdate(update); err != nil {
		return models.Submission{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.visible(id, scope)
	if !ok {
		return models.Submission{}, ErrSubmissionNotFound
	}
	if s.Status.IsTerminal() {
		return models.Submission{}, ErrSubmissionIsFinal
	}

	s.Status = update.Status
	if update.StrategyData != nil {
		s.StrategyData = compactJSON(update.StrategyData)
	}
	s.UpdatedAt = m.touch()

	return copySubmission(s.Submission), nil
}

func (m *MemoryStorage) DeleteSubmission(_ context.Context, id string, scope models.Scope) error {
	if err := validateID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.visible(id, scope); !ok {
		return ErrSubmissionNotFound
	}
	delete(m.submissions, id)
	return nil
}

func (m *MemoryStorage) GetStats(_ context.Context, scope models.Scope) (models.SubmissionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := models.NewSubmissionStats()
	for _, s := range m.submissions {
		if !scope.Allows(s.UserID) {
			continue
		}
		stats.ByStatus[s.Status]++
		stats.Total++
	}
	return stats, nil
}

func (m *MemoryStorage) ClaimPending(_ context.Context, limit int) ([]models.Submission, error) {
	if limit < 1 || limit > models.MaxPageLimit {
		return nil, ErrInvalidPagination
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	status := models.StatusPending
	pending := m.filter(models.SubmissionFilter{Status: &status}, models.SystemScope())
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].seq < pending[j].seq
	})

	claimed := make([]models.Submission, 0, limit)
	for _, s := range pending {
		if len(claimed) == limit {
			break
		}
		s.Status = models.StatusProcessing
		s.UpdatedAt = m.touch()
		claimed = append(claimed, copySubmission(s.Submission))
	}
	return claimed, nil
}

func (m *MemoryStorage) ReleaseStaleClaims(_ context.Context, claimedBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var released int64
	for _, s := range m.submissions {
		if s.Status != models.StatusProcessing || !s.UpdatedAt.Before(claimedBefore) {
			continue
		}
		s.Status = models.StatusPending
		s.UpdatedAt = m.touch()
		released++
	}
	return released, nil
}

// visible returns the submission when it exists within scope. Callers hold mu.
func (m *MemoryStorage) visible(id string, scope models.Scope) (*memSubmission, bool) {
	s, ok := m.submissions[id]
	if !ok || !scope.Allows(s.UserID) {
		return nil, false
	}
	return s, true
}

// filter returns the submissions matching filter within scope. Callers hold mu.
func (m *MemoryStorage) filter(filter models.SubmissionFilter, scope models.Scope) []*memSubmission {
	var pattern any
	if filter.FormDataContains != nil {
		_ = json.Unmarshal(filter.FormDataContains, &pattern)
	}

	out := make([]*memSubmission, 0, len(m.submissions))
	for _, s := range m.submissions {
		if !scope.Allows(s.UserID) {
			continue
		}
		if filter.UserID != nil && (s.UserID == nil || *s.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if pattern != nil {
			var doc any
			if err := json.Unmarshal(s.FormData, &doc); err != nil || !jsonContains(doc, pattern) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// jsonContains reports whether doc contains pattern with the semantics of
// the jsonb @> operator.
func jsonContains(doc, pattern any) bool {
	switch p := pattern.(type) {
	case map[string]any:
		d, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		for k, pv := range p {
			dv, ok := d[k]
			if !ok || !jsonContains(dv, pv) {
				return false
			}
		}
		return true
	case []any:
		d, ok := doc.([]any)
		if !ok {
			return false
		}
		for _, pv := range p {
			found := false
			for _, dv := range d {
				if jsonContains(dv, pv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return doc == pattern
	}
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return buf.Bytes()
}

func copySubmission(s models.Submission) models.Submission {
	if s.UserID != nil {
		id := *s.UserID
		s.UserID = &id
	}
	s.FormData = append(json.RawMessage(nil), s.FormData...)
	if s.StrategyData != nil {
		s.StrategyData = append(json.RawMessage(nil), s.StrategyData...)
	}
	return s
}
