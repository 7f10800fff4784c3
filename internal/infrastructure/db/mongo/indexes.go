package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique, text and sort indexes every collection
// relies on. It is idempotent and is registered as a first-connect hook.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		collectionAdmins: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionArticles: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "excerpt", Value: "text"},
					{Key: "content", Value: "text"},
				},
				Options: options.Index().
					SetName("article_text").
					SetWeights(bson.D{{Key: "title", Value: 10}, {Key: "excerpt", Value: 5}, {Key: "content", Value: 1}}),
			},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		collectionJobs: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "description", Value: "text"},
				},
				Options: options.Index().
					SetName("job_text").
					SetWeights(bson.D{{Key: "title", Value: 10}, {Key: "description", Value: 1}}),
			},
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for _, name := range []string{collectionAdmins, collectionArticles, collectionJobs} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs[name]); err != nil {
			return wrapErr("create "+name+" indexes", err)
		}
	}
	return nil
}
