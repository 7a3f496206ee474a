package memory

import (
	"context"
	"time"

	"go-jobboard-backend/internal/domain"
)

type jobRecord struct {
	job domain.Job
	seq int64
}

type jobRepository struct {
	s *Store
}

func NewJobRepository(s *Store) domain.JobRepository {
	return &jobRepository{s: s}
}

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	c.Requirements = cloneStrings(j.Requirements)
	c.Applications = cloneStrings(j.Applications)
	if j.SalaryRange != nil {
		sr := *j.SalaryRange
		c.SalaryRange = &sr
	}
	if j.ExperienceRange != nil {
		er := *j.ExperienceRange
		c.ExperienceRange = &er
	}
	return &c
}

func (r *jobRepository) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	job.ID = r.s.newID()
	job.CreatedAt, job.UpdatedAt = now, now
	job.Applications = cloneStrings(job.Applications)
	r.s.jobs[job.ID] = &jobRecord{job: *cloneJob(job), seq: r.s.nextSeq()}
	return nil
}

func (r *jobRepository) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneJob(&rec.job), nil
}

func (r *jobRepository) Find(_ context.Context, q domain.JobQuery) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var idSet map[string]bool
	if q.IDs != nil {
		idSet = make(map[string]bool, len(q.IDs))
		for _, id := range q.IDs {
			idSet[id] = true
		}
	}

	recs := make([]*jobRecord, 0, len(r.s.jobs))
	for _, rec := range r.s.jobs {
		if idSet != nil && !idSet[rec.job.ID] {
			continue
		}
		if q.RecruiterID != "" && rec.job.RecruiterID != q.RecruiterID {
			continue
		}
		recs = append(recs, rec)
	}
	sortNewestFirst(recs,
		func(r *jobRecord) time.Time { return r.job.CreatedAt },
		func(r *jobRecord) int64 { return r.seq },
	)

	out := make([]domain.Job, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *cloneJob(&rec.job))
	}
	return out, nil
}

func (r *jobRepository) Update(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	job.UpdatedAt = r.s.now()
	job.CreatedAt = rec.job.CreatedAt
	job.RecruiterID = rec.job.RecruiterID
	job.Applications = cloneStrings(rec.job.Applications)
	rec.job = *cloneJob(job)
	return nil
}

func (r *jobRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *jobRepository) AddApplication(_ context.Context, jobID, applicationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if !containsString(rec.job.Applications, applicationID) {
		rec.job.Applications = append(rec.job.Applications, applicationID)
	}
	return nil
}

func (r *jobRepository) RemoveApplication(_ context.Context, jobID, applicationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.job.Applications = removeString(rec.job.Applications, applicationID)
	return nil
}
