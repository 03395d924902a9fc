package recorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"QuarterChart/internal/model"
)

// MongoRecorder stores each submission as one document.
type MongoRecorder struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoRecorder connects to MongoDB and ensures the listing index exists.
func NewMongoRecorder(ctx context.Context, uri, database, collection string) (*MongoRecorder, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	if _, err := coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "stock", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	log.Printf("[INFO] mongo recorder connected: %s.%s", database, collection)
	return &MongoRecorder{client: client, coll: coll}, nil
}

func (r *MongoRecorder) Name() string { return "mongo" }

// stockDoc is the stored document. Field names follow the existing "stocks" collection.
type stockDoc struct {
	ID            string            `bson:"_id"`
	Stock         string            `bson:"stock"`
	Year          int               `bson:"year"`
	Quarter       int               `bson:"quarter"`
	Field1Text    string            `bson:"field1Text"`
	Field1Percent *float64          `bson:"field1Percent"`
	Field2Text    string            `bson:"field2Text"`
	Field2Percent *float64          `bson:"field2Percent"`
	Field3Text    string            `bson:"field3Text"`
	Field3Percent *float64          `bson:"field3Percent"`
	Data          model.PriceSeries `bson:"data"`
	CreatedAt     time.Time         `bson:"created_at,omitempty"`
}

func toStockDoc(sub *model.Submission) *stockDoc {
	a := sub.Annotations
	return &stockDoc{
		ID:            sub.ID,
		Stock:         sub.Ticker,
		Year:          sub.Year,
		Quarter:       sub.Quarter,
		Field1Text:    a[0].Text,
		Field1Percent: a[0].Percent,
		Field2Text:    a[1].Text,
		Field2Percent: a[1].Percent,
		Field3Text:    a[2].Text,
		Field3Percent: a[2].Percent,
		Data:          sub.Data.Normalize(),
		CreatedAt:     sub.CreatedAt.UTC(),
	}
}

func (d *stockDoc) submission() *model.Submission {
	return &model.Submission{
		ID:      d.ID,
		Ticker:  d.Stock,
		Year:    d.Year,
		Quarter: d.Quarter,
		Annotations: [3]model.Annotation{
			{Text: d.Field1Text, Percent: d.Field1Percent},
			{Text: d.Field2Text, Percent: d.Field2Percent},
			{Text: d.Field3Text, Percent: d.Field3Percent},
		},
		Data:      d.Data.Normalize(),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// idFilter matches our string ids and the ObjectIds of records written by other clients.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func (r *MongoRecorder) Save(ctx context.Context, sub *model.Submission) (string, error) {
	if _, err := r.coll.InsertOne(ctx, toStockDoc(sub)); err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return sub.ID, nil
}

func (r *MongoRecorder) Load(ctx context.Context, id string) (*model.Submission, error) {
	var doc stockDoc
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return doc.submission(), nil
}

// summaryDoc is the projection used for listings.
type summaryDoc struct {
	ID        string    `bson:"_id"`
	Ticker    string    `bson:"stock"`
	Year      int       `bson:"year"`
	Quarter   int       `bson:"quarter"`
	Bars      int       `bson:"bars"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *MongoRecorder) List(ctx context.Context, ticker string, limit int) ([]model.Summary, error) {
	match := bson.M{}
	if ticker != "" {
		match["stock"] = ticker
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$limit", Value: listLimit(limit)}},
		{{Key: "$project", Value: bson.M{
			"stock":      1,
			"year":       1,
			"quarter":    1,
			"created_at": 1,
			"bars":       bson.M{"$size": bson.M{"$ifNull": bson.A{"$data", bson.A{}}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	out := make([]model.Summary, len(docs))
	for i, d := range docs {
		out[i] = model.Summary{
			ID:        d.ID,
			Ticker:    d.Ticker,
			Year:      d.Year,
			Quarter:   d.Quarter,
			Bars:      d.Bars,
			CreatedAt: d.CreatedAt.UTC(),
		}
	}
	return out, nil
}

func (r *MongoRecorder) Close(ctx context.Context) error {
	log.Println("[INFO] disconnecting mongo recorder")
	return r.client.Disconnect(ctx)
}
