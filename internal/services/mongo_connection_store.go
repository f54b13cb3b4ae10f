package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnect/backend/internal/models"
)

type MongoConnectionStore struct {
	client      *mongo.Client
	db          *mongo.Database
	requestsCol *mongo.Collection
}

func NewMongoConnectionStore(ctx context.Context, mongoURI, dbName string) (*MongoConnectionStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("connection_requests")

	// Best-effort indexes. The compound unique index backs the duplicate-pair
	// check for the ordered direction; the reverse direction is covered by the
	// PairExists lookup before insert.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from_user_id", Value: 1}, {Key: "to_user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "to_user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	return &MongoConnectionStore{
		client:      client,
		db:          db,
		requestsCol: col,
	}, nil
}

func (s *MongoConnectionStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func pairPredicate(userA, userB string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"from_user_id": userA, "to_user_id": userB},
		bson.M{"from_user_id": userB, "to_user_id": userA},
	}}
}

func eitherPartyPredicate(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"from_user_id": userID},
		bson.M{"to_user_id": userID},
	}}
}

func (s *MongoConnectionStore) Create(ctx context.Context, req *models.ConnectionRequest) error {
	_, err := s.requestsCol.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConnectionExists
	}
	return err
}

func (s *MongoConnectionStore) PairExists(ctx context.Context, userA, userB string) (bool, error) {
	n, err := s.requestsCol.CountDocuments(ctx, pairPredicate(userA, userB))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoConnectionStore) ReviewInterested(ctx context.Context, requestID, reviewerID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	filter := bson.M{
		"_id":        requestID,
		"to_user_id": reviewerID,
		"status":     models.StatusInterested,
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.ConnectionRequest
	if err := s.requestsCol.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *MongoConnectionStore) FindReceived(ctx context.Context, toUserID string, skip, limit int64) ([]models.ConnectionRequest, error) {
	filter := bson.M{"to_user_id": toUserID, "status": models.StatusInterested}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.requestsCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reqs := []models.ConnectionRequest{}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *MongoConnectionStore) CountReceived(ctx context.Context, toUserID string) (int64, error) {
	return s.requestsCol.CountDocuments(ctx, bson.M{"to_user_id": toUserID, "status": models.StatusInterested})
}

func acceptedPredicate(userID string) bson.M {
	p := eitherPartyPredicate(userID)
	p["status"] = models.StatusAccepted
	return p
}

func (s *MongoConnectionStore) FindAccepted(ctx context.Context, userID string, skip, limit int64) ([]models.ConnectionRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.requestsCol.Find(ctx, acceptedPredicate(userID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reqs := []models.ConnectionRequest{}
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *MongoConnectionStore) CountAccepted(ctx context.Context, userID string) (int64, error) {
	return s.requestsCol.CountDocuments(ctx, acceptedPredicate(userID))
}

func (s *MongoConnectionStore) RelatedUserIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"from_user_id": 1, "to_user_id": 1})
	cur, err := s.requestsCol.Find(ctx, eitherPartyPredicate(userID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := map[string]struct{}{}
	ids := []string{}
	for cur.Next(ctx) {
		var edge struct {
			FromUserID string `bson:"from_user_id"`
			ToUserID   string `bson:"to_user_id"`
		}
		if err := cur.Decode(&edge); err != nil {
			return nil, err
		}
		for _, id := range []string{edge.FromUserID, edge.ToUserID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids, cur.Err()
}
