package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-jobboard-backend/internal/domain"
)

type jobDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Company      string               `bson:"company"`
	Location     string               `bson:"location"`
	Salary       string               `bson:"salary"`
	Experience   string               `bson:"experience"`
	Type         string               `bson:"type"`
	Requirements []string             `bson:"requirements"`
	Recruiter    primitive.ObjectID   `bson:"recruiter"`
	Applications []primitive.ObjectID `bson:"applications"`

	SalaryRange     *domain.SalaryRange     `bson:"salaryRange,omitempty"`
	ExperienceRange *domain.ExperienceRange `bson:"experienceRange,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *jobDocument) toDomain() domain.Job {
	return domain.Job{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		Company:         d.Company,
		Location:        d.Location,
		Salary:          d.Salary,
		Experience:      d.Experience,
		Type:            d.Type,
		Requirements:    d.Requirements,
		RecruiterID:     d.Recruiter.Hex(),
		Applications:    hexIDs(d.Applications),
		SalaryRange:     d.SalaryRange,
		ExperienceRange: d.ExperienceRange,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type jobRepository struct {
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) domain.JobRepository {
	return &jobRepository{coll: db.Collection(jobsCollection)}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	recruiter, err := objectID(job.RecruiterID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := jobDocument{
		Title:           job.Title,
		Description:     job.Description,
		Company:         job.Company,
		Location:        job.Location,
		Salary:          job.Salary,
		Experience:      job.Experience,
		Type:            job.Type,
		Requirements:    job.Requirements,
		Recruiter:       recruiter,
		Applications:    []primitive.ObjectID{},
		SalaryRange:     job.SalaryRange,
		ExperienceRange: job.ExperienceRange,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	job.ID = res.InsertedID.(primitive.ObjectID).Hex()
	job.Applications = []string{}
	job.CreatedAt, job.UpdatedAt = now, now
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc jobDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	job := doc.toDomain()
	return &job, nil
}

func (r *jobRepository) Find(ctx context.Context, q domain.JobQuery) ([]domain.Job, error) {
	filter := bson.M{}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": objectIDs(q.IDs)}
	}
	if q.RecruiterID != "" {
		recruiter, err := objectID(q.RecruiterID)
		if err != nil {
			return []domain.Job{}, nil
		}
		filter["recruiter"] = recruiter
	}

	cur, err := r.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []jobDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].toDomain())
	}
	return jobs, nil
}

// Update rewrites the editable fields. Owner and application ids are not
// touched.
func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	oid, err := objectID(job.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	set := bson.M{
		"title":           job.Title,
		"description":     job.Description,
		"company":         job.Company,
		"location":        job.Location,
		"salary":          job.Salary,
		"experience":      job.Experience,
		"type":            job.Type,
		"requirements":    job.Requirements,
		"salaryRange":     job.SalaryRange,
		"experienceRange": job.ExperienceRange,
		"updatedAt":       now,
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	job.UpdatedAt = now
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepository) AddApplication(ctx context.Context, jobID, applicationID string) error {
	return r.modifyApplications(ctx, jobID, applicationID, "$addToSet")
}

func (r *jobRepository) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	return r.modifyApplications(ctx, jobID, applicationID, "$pull")
}

func (r *jobRepository) modifyApplications(ctx context.Context, jobID, applicationID, op string) error {
	oid, err := objectID(jobID)
	if err != nil {
		return err
	}
	appOID, err := objectID(applicationID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{op: bson.M{"applications": appOID}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
