package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-jobboard-backend/internal/domain"
)

type applicationDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Job       primitive.ObjectID `bson:"job"`
	Applicant primitive.ObjectID `bson:"applicant"`
	Recruiter primitive.ObjectID `bson:"recruiter"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *applicationDocument) toDomain() domain.Application {
	return domain.Application{
		ID:          d.ID.Hex(),
		JobID:       d.Job.Hex(),
		ApplicantID: d.Applicant.Hex(),
		RecruiterID: d.Recruiter.Hex(),
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type applicationRepository struct {
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) domain.ApplicationRepository {
	return &applicationRepository{coll: db.Collection(applicationsCollection)}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	job, err := objectID(app.JobID)
	if err != nil {
		return err
	}
	applicant, err := objectID(app.ApplicantID)
	if err != nil {
		return err
	}
	recruiter, err := objectID(app.RecruiterID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := applicationDocument{
		Job:       job,
		Applicant: applicant,
		Recruiter: recruiter,
		Status:    app.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	app.ID = res.InsertedID.(primitive.ObjectID).Hex()
	app.CreatedAt, app.UpdatedAt = now, now
	return nil
}

func (r *applicationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Application, error) {
	var doc applicationDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	app := doc.toDomain()
	return &app, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *applicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	job, err := objectID(jobID)
	if err != nil {
		return nil, err
	}
	applicant, err := objectID(applicantID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"job": job, "applicant": applicant})
}

func (r *applicationRepository) Find(ctx context.Context, q domain.ApplicationQuery) ([]domain.Application, error) {
	filter := bson.M{}
	if q.JobIDs != nil {
		filter["job"] = bson.M{"$in": objectIDs(q.JobIDs)}
	}
	for field, id := range map[string]string{"applicant": q.ApplicantID, "recruiter": q.RecruiterID} {
		if id == "" {
			continue
		}
		oid, err := objectID(id)
		if err != nil {
			return []domain.Application{}, nil
		}
		filter[field] = oid
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	cur, err := r.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []applicationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(docs))
	for i := range docs {
		apps = append(apps, docs[i].toDomain())
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc applicationDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	app := doc.toDomain()
	return &app, nil
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
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

func (r *applicationRepository) DeleteByJob(ctx context.Context, jobID string) ([]string, error) {
	job, err := objectID(jobID)
	if err != nil {
		return nil, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"job": job}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		oids = append(oids, d.ID)
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}}); err != nil {
		return nil, err
	}
	return hexIDs(oids), nil
}
