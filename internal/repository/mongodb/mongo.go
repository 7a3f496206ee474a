// Package mongodb stores users, jobs and applications as MongoDB documents.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"go-jobboard-backend/internal/domain"
)

const (
	usersCollection        = "users"
	jobsCollection         = "jobs"
	applicationsCollection = "applications"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// (job, applicant) index backs duplicate detection under concurrent applies.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		jobsCollection: {
			{Keys: bson.D{{Key: "recruiter", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		applicationsCollection: {
			{Keys: bson.D{{Key: "job", Value: 1}, {Key: "applicant", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "recruiter", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "applicant", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Pinger reports whether the primary is reachable.
type Pinger struct {
	db *mongo.Database
}

func NewPinger(db *mongo.Database) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.db.Client().Ping(ctx, readpref.Primary())
}

// objectID parses a hex id. Malformed ids cannot exist in the store, so
// they are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// objectIDs parses ids, dropping malformed ones.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}

// translate maps driver errors onto domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicate
	default:
		return err
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
