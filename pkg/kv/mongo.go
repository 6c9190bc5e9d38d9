package kv

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore backs the store contract with a single MongoDB collection.
// Set-if-absent rides on the unique _id index: an insert that hits a
// duplicate key means somebody else holds the key. Lease expiry uses an
// expires_at TTL index; because the TTL monitor only sweeps periodically,
// every read additionally filters out documents whose expiry has passed.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type MongoConfig struct {
	URI         string
	Database    string
	Collection  string
	ConnTimeout time.Duration
}

type kvDocument struct {
	Key       string            `bson:"_id"`
	Value     string            `bson:"value,omitempty"`
	Fields    map[string]string `bson:"fields,omitempty"`
	ExpiresAt *time.Time        `bson:"expires_at,omitempty"`
}

func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	connCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storeErr("connect", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		return nil, storeErr("ping", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(connCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, storeErr("create ttl index", err)
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// liveFilter matches key and excludes documents that have expired but not
// yet been swept by the TTL monitor.
func liveFilter(key string, now time.Time) bson.M {
	return bson.M{
		"_id": key,
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
}

func (s *MongoStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	now := time.Now()

	// Clear a leftover expired document so the insert below can win.
	_, err := s.collection.DeleteOne(ctx, bson.M{
		"_id":        key,
		"expires_at": bson.M{"$lte": now},
	})
	if err != nil {
		return false, storeErr("clear expired "+key, err)
	}

	doc := kvDocument{Key: key, Value: value}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		doc.ExpiresAt = &expiresAt
	}

	_, err = s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, storeErr("insert "+key, err)
	}
	return true, nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return storeErr("delete "+key, err)
	}
	return nil
}

func (s *MongoStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, liveFilter(key, time.Now()), options.Count().SetLimit(1))
	if err != nil {
		return false, storeErr("exists "+key, err)
	}
	return n > 0, nil
}

func (s *MongoStore) GetRecord(ctx context.Context, key string) (map[string]string, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, liveFilter(key, time.Now())).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]string{}, nil
		}
		return nil, storeErr("get record "+key, err)
	}
	if doc.Fields == nil {
		return map[string]string{}, nil
	}
	return doc.Fields, nil
}

func (s *MongoStore) SetField(ctx context.Context, key, field, value string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"fields." + field: value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storeErr("set field "+key, err)
	}
	return nil
}

func (s *MongoStore) WriteRecord(ctx context.Context, key string, fields map[string]string) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		kvDocument{Key: key, Fields: fields},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return storeErr("write record "+key, err)
	}
	return nil
}

func (s *MongoStore) ListKeys(ctx context.Context, pattern string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": globToRegex(pattern)}}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, storeErr("list "+pattern, err)
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc kvDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode "+pattern, err)
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("list "+pattern, err)
	}
	return keys, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, part := range strings.SplitAfter(pattern, "*") {
		if literal, found := strings.CutSuffix(part, "*"); found {
			b.WriteString(regexp.QuoteMeta(literal))
			b.WriteString(".*")
		} else {
			b.WriteString(regexp.QuoteMeta(part))
		}
	}
	b.WriteString("$")
	return b.String()
}
