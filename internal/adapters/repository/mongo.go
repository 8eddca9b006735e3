package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/talentportal/internal/domain/feedback"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig locates the managed document database.
type MongoConfig struct {
	URI        string
	Username   string
	Key        string
	Database   string
	Collection string
}

// MongoStore keeps typed documents in a single collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	cfg    settings
	mc     MongoConfig
}

// NewMongoStore connects, then runs Init.
func NewMongoStore(ctx context.Context, mc MongoConfig, opts ...Option) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(mc.URI)
	if mc.Key != "" {
		clientOpts.SetAuth(options.Credential{Username: mc.Username, Password: mc.Key})
	}
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrStoreUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(mc.Database).Collection(mc.Collection),
		cfg:    newSettings(opts),
		mc:     mc,
	}
	if err := s.Init(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Init creates the collection and its type index if absent and seeds it
// when empty.
func (s *MongoStore) Init(ctx context.Context) error {
	db := s.client.Database(s.mc.Database)
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: s.mc.Collection}})
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", ErrStoreUnavailable, err)
	}
	if len(names) == 0 {
		if err := db.CreateCollection(ctx, s.mc.Collection); err != nil {
			return fmt.Errorf("%w: create collection: %w", ErrStoreUnavailable, err)
		}
	}
	if _, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}}); err != nil {
		return fmt.Errorf("%w: create index: %w", ErrStoreUnavailable, err)
	}

	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("%w: count: %w", ErrStoreUnavailable, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, seedDocuments(s.cfg)); err != nil {
		return fmt.Errorf("%w: seed: %w", ErrStoreUnavailable, err)
	}
	metrics.RecordStoreSeeded(BackendMongo)
	return nil
}

func (s *MongoStore) GetProfile(ctx context.Context) (p model.UserProfile, err error) {
	defer func(start time.Time) { observe(BackendMongo, "get_profile", start, err) }(time.Now())
	var doc profileDoc
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: docID(TypeUserProfile, s.cfg.profileID)}}).Decode(&doc)
	if err != nil {
		return model.UserProfile{}, classifyMongo(err)
	}
	return doc.UserProfile, nil
}

func (s *MongoStore) GetPersonas(ctx context.Context) (out []model.Persona, err error) {
	defer func(start time.Time) { observe(BackendMongo, "get_personas", start, err) }(time.Now())
	var docs []personaDoc
	if err = s.findAll(ctx, TypePersona, &docs); err != nil {
		return nil, err
	}
	out = make([]model.Persona, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Persona)
	}
	return out, nil
}

func (s *MongoStore) GetTeam(ctx context.Context) (out []model.TeamMemberSummary, err error) {
	defer func(start time.Time) { observe(BackendMongo, "get_team", start, err) }(time.Now())
	var docs []teamDoc
	if err = s.findAll(ctx, TypeTeamMember, &docs); err != nil {
		return nil, err
	}
	out = make([]model.TeamMemberSummary, 0, len(docs))
	for _, d := range docs {
		if d.Feedbacks == nil {
			d.Feedbacks = []model.ClientFeedback{}
		}
		out = append(out, d.TeamMemberSummary)
	}
	return out, nil
}

// RegisterFeedback appends atomically on the server. The feedback is wrapped
// in $literal so content starting with "$" is not read as a field path.
func (s *MongoStore) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (fb model.ClientFeedback, err error) {
	defer func(start time.Time) { observe(BackendMongo, "register_feedback", start, err) }(time.Now())
	fb = feedback.Build(in, s.cfg.now())
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "feedbacks", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$feedbacks", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: fb}}},
		}}}}}}},
	}
	res, err := s.coll.UpdateOne(ctx, s.memberFilter(memberID), update)
	if err != nil {
		return model.ClientFeedback{}, classifyMongo(err)
	}
	if res.MatchedCount == 0 {
		return model.ClientFeedback{}, ErrNotFound
	}
	return fb, nil
}

func (s *MongoStore) AwardKudos(ctx context.Context, memberID string) (r model.KudosResult, err error) {
	defer func(start time.Time) { observe(BackendMongo, "award_kudos", start, err) }(time.Now())
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "kudosCount", Value: bson.D{{Key: "$add", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$kudosCount", 0}}}, 1,
		}}}}}}},
	}
	var doc teamDoc
	err = s.coll.FindOneAndUpdate(ctx, s.memberFilter(memberID), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return model.KudosResult{}, classifyMongo(err)
	}
	return model.KudosResult{Success: true, NewCount: doc.KudosCount}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) memberFilter(memberID string) bson.D {
	return bson.D{{Key: "_id", Value: docID(TypeTeamMember, memberID)}}
}

func (s *MongoStore) findAll(ctx context.Context, docType string, out any) error {
	cur, err := s.coll.Find(ctx, bson.D{{Key: "type", Value: docType}})
	if err != nil {
		return classifyMongo(err)
	}
	if err := cur.All(ctx, out); err != nil {
		return classifyMongo(err)
	}
	return nil
}

func classifyMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
