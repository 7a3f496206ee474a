package memory

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

type applicationRecord struct {
	app domain.Application
	seq int64
}

type applicationRepository struct {
	s *Store
}

func NewApplicationRepository(s *Store) domain.ApplicationRepository {
	return &applicationRepository{s: s}
}

func (r *applicationRepository) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.applications {
		if rec.app.JobID == app.JobID && rec.app.ApplicantID == app.ApplicantID {
			return domain.ErrDuplicate
		}
	}

	now := r.s.now()
	app.ID = r.s.newID()
	app.CreatedAt, app.UpdatedAt = now, now
	r.s.applications[app.ID] = &applicationRecord{app: *app, seq: r.s.nextSeq()}
	return nil
}

func (r *applicationRepository) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	app := rec.app
	return &app, nil
}

func (r *applicationRepository) FindByJobAndApplicant(_ context.Context, jobID, applicantID string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.applications {
		if rec.app.JobID == jobID && rec.app.ApplicantID == applicantID {
			app := rec.app
			return &app, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *applicationRepository) Find(_ context.Context, q domain.ApplicationQuery) ([]domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var jobSet map[string]bool
	if q.JobIDs != nil {
		jobSet = make(map[string]bool, len(q.JobIDs))
		for _, id := range q.JobIDs {
			jobSet[id] = true
		}
	}

	recs := make([]*applicationRecord, 0)
	for _, rec := range r.s.applications {
		a := rec.app
		switch {
		case jobSet != nil && !jobSet[a.JobID]:
			continue
		case q.ApplicantID != "" && a.ApplicantID != q.ApplicantID:
			continue
		case q.RecruiterID != "" && a.RecruiterID != q.RecruiterID:
			continue
		case q.Status != "" && a.Status != q.Status:
			continue
		}
		recs = append(recs, rec)
	}
	sortNewestFirst(recs,
		func(r *applicationRecord) time.Time { return r.app.CreatedAt },
		func(r *applicationRecord) int64 { return r.seq },
	)

	out := make([]domain.Application, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.app)
	}
	return out, nil
}

func (r *applicationRepository) UpdateStatus(_ context.Context, id, status string) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec.app.Status = status
	rec.app.UpdatedAt = r.s.now()
	app := rec.app
	return &app, nil
}

func (r *applicationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.applications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.applications, id)
	return nil
}

func (r *applicationRepository) DeleteByJob(_ context.Context, jobID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []string
	for id, rec := range r.s.applications {
		if rec.app.JobID == jobID {
			ids = append(ids, id)
			delete(r.s.applications, id)
		}
	}
	return ids, nil
}
