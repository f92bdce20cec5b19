package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
	"github.com/floorstack/floorstack/pkg/floorplan"
)

// MongoStore is a MongoDB-backed catalog for shared deployments.
// Designs live in one collection, keyed by a unique name index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// record is the stored document shape.
type record struct {
	Name      string         `bson:"name"`
	Design    *design.Design `bson:"design"`
	Modules   int            `bson:"modules"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and prepares the designs collection
// with a unique index on the design name.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection("designs")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Put upserts the design under its name.
func (s *MongoStore) Put(ctx context.Context, d *design.Design) error {
	if err := validate(d); err != nil {
		return err
	}

	rec := record{
		Name:      d.Name,
		Design:    d,
		Modules:   floorplan.Count(d.Top),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"name": d.Name}, rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store design %q", d.Name)
	}
	return nil
}

// Get returns the design stored under name.
func (s *MongoStore) Get(ctx context.Context, name string) (*design.Design, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load design %q", name)
	}
	return rec.Design, nil
}

// List returns catalog entries sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"name": 1, "design.tech": 1, "modules": 1, "updated_at": 1}).
			SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list designs")
	}
	defer cur.Close(ctx)

	var out []Entry
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode catalog entry")
		}
		e := Entry{Name: rec.Name, Modules: rec.Modules, UpdatedAt: rec.UpdatedAt}
		if rec.Design != nil {
			e.Tech = rec.Design.Tech
		}
		out = append(out, e)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate catalog")
	}
	return out, nil
}

// Delete removes the entry under name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete design %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDesignNotFound, "design %q not found", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
