package services

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

type MongoUserService struct {
	client   *mongo.Client
	db       *mongo.Database
	usersCol *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("users")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "google_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "github_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "is_profile_complete", Value: 1}, {Key: "experience_level", Value: 1}}},
	})

	return &MongoUserService{
		client:   client,
		db:       db,
		usersCol: col,
	}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoUserService) Create(ctx context.Context, user *models.User) error {
	_, err := s.usersCol.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// The unique index does not say which field collided; look it up.
		if n, _ := s.usersCol.CountDocuments(ctx, bson.M{"email": user.Email}); n > 0 {
			return ErrEmailExists
		}
		return ErrUsernameExists
	}
	return err
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.usersCol.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoUserService) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := s.usersCol.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func candidateFilter(filter models.FeedFilter, excludeIDs []string) bson.M {
	f := bson.M{
		"_id":                 bson.M{"$nin": excludeIDs},
		"is_profile_complete": true,
	}
	if filter.ExperienceLevel != "" {
		f["experience_level"] = filter.ExperienceLevel
	}
	if len(filter.Skills) > 0 {
		f["skills"] = bson.M{"$in": filter.Skills}
	}
	if filter.Location != "" {
		f["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	return f
}

func (s *MongoUserService) FindCandidates(ctx context.Context, filter models.FeedFilter, excludeIDs []string, skip, limit int64) ([]models.User, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cur, err := s.usersCol.Find(ctx, candidateFilter(filter, excludeIDs), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserService) CountCandidates(ctx context.Context, filter models.FeedFilter, excludeIDs []string) (int64, error) {
	return s.usersCol.CountDocuments(ctx, candidateFilter(filter, excludeIDs))
}
