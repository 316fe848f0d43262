package providers

import (
	"context"
	"fmt"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionStudies         = "studies"
	CollectionResponses       = "responses"
	CollectionResponsesBackup = "responses_backup"
	CollectionKeys            = "keys"
	CollectionLogs            = "logs"
	CollectionUsers           = "users"
)

// Doc is the wire shape of a stored document. Services convert their
// models to and from Doc at the store boundary.
type Doc = map[string]any

type StoreInterface interface {
	// FindOne returns nil, nil when no document matches.
	FindOne(ctx context.Context, collection string, filter Doc, sort Doc) (Doc, error)
	Find(ctx context.Context, collection string, filter Doc, sort Doc, limit int64) ([]Doc, error)
	InsertOne(ctx context.Context, collection string, doc Doc) (string, error)
	ReplaceOne(ctx context.Context, collection string, filter Doc, doc Doc, upsert bool) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type StoreProvider struct {
	client *mongo.Client
	db     *mongo.Database
	logger Logger
}

func NewStoreProvider(conf *structures.Config, logger Logger) (StoreInterface, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	sp := &StoreProvider{
		client: client,
		db:     client.Database(conf.Mongo.Database),
		logger: logger,
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Warnf(TypeApp, "MongoDB not reachable at startup: %s", err)
	} else {
		logger.Infof(TypeApp, "Connected to MongoDB %s", conf.Mongo.Database)
	}

	// Concurrent project creation for one study must never yield two
	// credentials; the unique index makes the keys upsert race-safe.
	if err := sp.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return sp, nil
}

func (sp *StoreProvider) ensureIndexes(ctx context.Context) error {
	_, err := sp.db.Collection(CollectionKeys).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "study_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = sp.db.Collection(CollectionStudies).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "properties.study_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

// toFilter rewrites hex _id values back into ObjectIDs, including inside
// $or/$and clauses, so permalink lookups match stored documents. Filters
// whose _id is not a valid hex id drop the clause rather than erroring,
// mirroring lookup-by-study_id fallback behavior.
func toFilter(filter Doc) bson.M {
	out := bson.M{}
	for k, v := range filter {
		switch val := v.(type) {
		case []Doc:
			clauses := make([]bson.M, 0, len(val))
			for _, clause := range val {
				converted := toFilter(clause)
				if len(converted) > 0 {
					clauses = append(clauses, converted)
				}
			}
			out[k] = clauses
		case string:
			if k == "_id" {
				oid, err := primitive.ObjectIDFromHex(val)
				if err != nil {
					continue
				}
				out[k] = oid
				break
			}
			out[k] = val
		default:
			out[k] = v
		}
	}
	return out
}

func toSortD(sort Doc) bson.D {
	d := bson.D{}
	for k, v := range sort {
		d = append(d, bson.E{Key: k, Value: v})
	}
	return d
}

// normalizeID rewrites a decoded ObjectID into its hex form so documents
// survive a JSON round trip.
func normalizeID(doc Doc) Doc {
	if doc == nil {
		return nil
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return doc
}

func (sp *StoreProvider) FindOne(ctx context.Context, collection string, filter Doc, sort Doc) (Doc, error) {
	opts := options.FindOne()
	if len(sort) > 0 {
		opts.SetSort(toSortD(sort))
	}

	var doc Doc
	err := sp.db.Collection(collection).FindOne(ctx, toFilter(filter), opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeID(doc), nil
}

func (sp *StoreProvider) Find(ctx context.Context, collection string, filter Doc, sort Doc, limit int64) ([]Doc, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(toSortD(sort))
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := sp.db.Collection(collection).Find(ctx, toFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Doc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i] = normalizeID(docs[i])
	}
	return docs, nil
}

func (sp *StoreProvider) InsertOne(ctx context.Context, collection string, doc Doc) (string, error) {
	res, err := sp.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (sp *StoreProvider) ReplaceOne(ctx context.Context, collection string, filter Doc, doc Doc, upsert bool) error {
	opts := options.Replace().SetUpsert(upsert)
	_, err := sp.db.Collection(collection).ReplaceOne(ctx, toFilter(filter), bson.M(doc), opts)
	return err
}

func (sp *StoreProvider) Ping(ctx context.Context) error {
	return sp.client.Ping(ctx, nil)
}

func (sp *StoreProvider) Close(ctx context.Context) error {
	return sp.client.Disconnect(ctx)
}
