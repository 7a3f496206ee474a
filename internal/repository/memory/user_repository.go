package memory

import (
	"context"
	"strings"

	"go-jobboard-backend/internal/domain"
)

type userRecord struct {
	user domain.User
	seq  int64
}

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepository{s: s}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Applications = cloneStrings(u.Applications)
	c.Skills = append([]string(nil), u.Skills...)
	c.Education = append([]domain.Education(nil), u.Education...)
	c.WorkExperience = append([]domain.WorkExperience(nil), u.WorkExperience...)
	return &c
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, rec := range r.s.users {
		if strings.ToLower(rec.user.Email) == email {
			return domain.ErrDuplicate
		}
	}

	now := r.s.now()
	user.ID = r.s.newID()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Applications = cloneStrings(user.Applications)
	r.s.users[user.ID] = &userRecord{user: *cloneUser(user), seq: r.s.nextSeq()}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(&rec.user), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, rec := range r.s.users {
		if strings.ToLower(rec.user.Email) == email {
			return cloneUser(&rec.user), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepository) GetByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.users[id]; ok {
			out[id] = cloneUser(&rec.user)
		}
	}
	return out, nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = r.s.now()
	user.CreatedAt = rec.user.CreatedAt
	// The application list is owned by the fan-out writes
	user.Applications = cloneStrings(rec.user.Applications)
	rec.user = *cloneUser(user)
	return nil
}

func (r *userRepository) AddApplication(_ context.Context, userID, applicationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.user.Applications = append(rec.user.Applications, applicationID)
	return nil
}

func (r *userRepository) RemoveApplication(_ context.Context, userID, applicationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.user.Applications = removeString(rec.user.Applications, applicationID)
	return nil
}

func (r *userRepository) RemoveApplications(_ context.Context, applicationIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.users {
		for _, id := range applicationIDs {
			rec.user.Applications = removeString(rec.user.Applications, id)
		}
	}
	return nil
}
