package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadpoint/site-api/internal/core/domain"
)

const collectionArticles = "articles"

type ArticleRepository struct {
	db DatabaseProvider
}

func NewArticleRepository(db DatabaseProvider) *ArticleRepository {
	return &ArticleRepository{db: db}
}

type articleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Slug        string             `bson:"slug"`
	Excerpt     string             `bson:"excerpt"`
	Content     string             `bson:"content"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Author      string             `bson:"author"`
	AuthorImage string             `bson:"authorImage,omitempty"`
	ReadTime    string             `bson:"readTime"`
	Featured    bool               `bson:"featured"`
	Published   bool               `bson:"published"`
	Tags        []string           `bson:"tags"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func newArticleDoc(a *domain.Article, id primitive.ObjectID) articleDoc {
	return articleDoc{
		ID:          id,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Content:     a.Content,
		Category:    string(a.Category),
		Image:       a.Image,
		Author:      a.Author,
		AuthorImage: a.AuthorImage,
		ReadTime:    a.ReadTime,
		Featured:    a.Featured,
		Published:   a.Published,
		Tags:        a.Tags,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d articleDoc) toDomain() domain.Article {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Article{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Slug:        d.Slug,
		Excerpt:     d.Excerpt,
		Content:     d.Content,
		Category:    domain.ArticleCategory(d.Category),
		Image:       d.Image,
		Author:      d.Author,
		AuthorImage: d.AuthorImage,
		ReadTime:    d.ReadTime,
		Featured:    d.Featured,
		Published:   d.Published,
		Tags:        tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// articleFilter is the only place visibility narrowing happens for
// article listings.
func articleFilter(q domain.ListQuery) bson.M {
	filter := bson.M{}
	if q.PublishedOnly() {
		filter["published"] = true
	}
	if c := q.Category(); c != "" {
		filter["category"] = string(c)
	}
	if s := q.Search(); s != "" {
		filter["$text"] = bson.M{"$search": s}
	}
	return filter
}

func (r *ArticleRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionArticles), nil
}

func (r *ArticleRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Article, int64, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := articleFilter(q)
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapErr("count articles", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit()))

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrapErr("find articles", err)
	}
	defer cur.Close(ctx)

	var docs []articleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, wrapErr("decode articles", err)
	}

	items := make([]domain.Article, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func (r *ArticleRepository) FindByIDOrSlug(ctx context.Context, key string) (*domain.Article, error) {
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		a, err := r.findOne(ctx, bson.M{"_id": oid})
		if !errors.Is(err, domain.ErrArticleNotFound) {
			return a, err
		}
	}
	return r.findOne(ctx, bson.M{"slug": key})
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ArticleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Article, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc articleDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, wrapErr("find article", err)
	}
	a := doc.toDomain()
	return &a, nil
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newArticleDoc(a, primitive.NewObjectID())
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return wrapErr("insert article", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return domain.ErrArticleNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": oid}, newArticleDoc(a, oid))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return wrapErr("update article", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete article", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}
