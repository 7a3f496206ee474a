package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-jobboard-backend/internal/domain"
)

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"`
	Role         string               `bson:"role"`
	Applications []primitive.ObjectID `bson:"applications"`

	Phone          string                  `bson:"phone,omitempty"`
	Bio            string                  `bson:"bio,omitempty"`
	Skills         []string                `bson:"skills,omitempty"`
	Education      []domain.Education      `bson:"education,omitempty"`
	WorkExperience []domain.WorkExperience `bson:"workExperience,omitempty"`
	Resume         string                  `bson:"resume,omitempty"`

	CompanyName        string `bson:"companyName,omitempty"`
	CompanyWebsite     string `bson:"companyWebsite,omitempty"`
	CompanyDescription string `bson:"companyDescription,omitempty"`
	CompanyLogo        string `bson:"companyLogo,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Email:              d.Email,
		PasswordHash:       d.Password,
		Role:               d.Role,
		Applications:       hexIDs(d.Applications),
		Phone:              d.Phone,
		Bio:                d.Bio,
		Skills:             d.Skills,
		Education:          d.Education,
		WorkExperience:     d.WorkExperience,
		Resume:             d.Resume,
		CompanyName:        d.CompanyName,
		CompanyWebsite:     d.CompanyWebsite,
		CompanyDescription: d.CompanyDescription,
		CompanyLogo:        d.CompanyLogo,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	doc := userDocument{
		Name:               user.Name,
		Email:              strings.ToLower(user.Email),
		Password:           user.PasswordHash,
		Role:               user.Role,
		Applications:       []primitive.ObjectID{},
		Phone:              user.Phone,
		Bio:                user.Bio,
		Skills:             user.Skills,
		Education:          user.Education,
		WorkExperience:     user.WorkExperience,
		Resume:             user.Resume,
		CompanyName:        user.CompanyName,
		CompanyWebsite:     user.CompanyWebsite,
		CompanyDescription: user.CompanyDescription,
		CompanyLogo:        user.CompanyLogo,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	user.Email = doc.Email
	user.Applications = []string{}
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		u := docs[i].toDomain()
		out[u.ID] = u
	}
	return out, nil
}

// Update rewrites profile fields. The application list and identity fields
// are left to their own operations.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":               user.Name,
		"password":           user.PasswordHash,
		"phone":              user.Phone,
		"bio":                user.Bio,
		"skills":             user.Skills,
		"education":          user.Education,
		"workExperience":     user.WorkExperience,
		"resume":             user.Resume,
		"companyName":        user.CompanyName,
		"companyWebsite":     user.CompanyWebsite,
		"companyDescription": user.CompanyDescription,
		"companyLogo":        user.CompanyLogo,
		"updatedAt":          now,
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *userRepository) AddApplication(ctx context.Context, userID, applicationID string) error {
	return r.modifyApplications(ctx, userID, applicationID, "$addToSet")
}

func (r *userRepository) RemoveApplication(ctx context.Context, userID, applicationID string) error {
	return r.modifyApplications(ctx, userID, applicationID, "$pull")
}

func (r *userRepository) modifyApplications(ctx context.Context, userID, applicationID, op string) error {
	oid, err := objectID(userID)
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

func (r *userRepository) RemoveApplications(ctx context.Context, applicationIDs []string) error {
	oids := objectIDs(applicationIDs)
	if len(oids) == 0 {
		return nil
	}
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"applications": bson.M{"$in": oids}},
		bson.M{"$pull": bson.M{"applications": bson.M{"$in": oids}}},
	)
	return translate(err)
}
