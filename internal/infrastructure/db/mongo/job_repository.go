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

const collectionJobs = "jobs"

type JobRepository struct {
	db DatabaseProvider
}

func NewJobRepository(db DatabaseProvider) *JobRepository {
	return &JobRepository{db: db}
}

type jobDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Slug             string             `bson:"slug"`
	Department       string             `bson:"department"`
	Location         string             `bson:"location"`
	Type             string             `bson:"type"`
	Description      string             `bson:"description"`
	Requirements     []string           `bson:"requirements"`
	Responsibilities []string           `bson:"responsibilities"`
	Benefits         []string           `bson:"benefits"`
	Salary           string             `bson:"salary,omitempty"`
	Featured         bool               `bson:"featured"`
	Published        bool               `bson:"published"`
	Deadline         *time.Time         `bson:"deadline,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func newJobDoc(j *domain.Job, id primitive.ObjectID) jobDoc {
	return jobDoc{
		ID:               id,
		Title:            j.Title,
		Slug:             j.Slug,
		Department:       string(j.Department),
		Location:         j.Location,
		Type:             string(j.Type),
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		Salary:           j.Salary,
		Featured:         j.Featured,
		Published:        j.Published,
		Deadline:         j.Deadline,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func (d jobDoc) toDomain() domain.Job {
	j := domain.Job{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Slug:             d.Slug,
		Department:       domain.Department(d.Department),
		Location:         d.Location,
		Type:             domain.EmploymentType(d.Type),
		Description:      d.Description,
		Requirements:     nonNil(d.Requirements),
		Responsibilities: nonNil(d.Responsibilities),
		Benefits:         nonNil(d.Benefits),
		Salary:           d.Salary,
		Featured:         d.Featured,
		Published:        d.Published,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.Deadline != nil {
		deadline := d.Deadline.UTC()
		j.Deadline = &deadline
	}
	return j
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// jobFilter is the only place visibility narrowing happens for job
// listings.
func jobFilter(q domain.ListQuery) bson.M {
	filter := bson.M{}
	if q.PublishedOnly() {
		filter["published"] = true
	}
	if d := q.Department(); d != "" {
		filter["department"] = string(d)
	}
	if t := q.Type(); t != "" {
		filter["type"] = string(t)
	}
	if s := q.Search(); s != "" {
		filter["$text"] = bson.M{"$search": s}
	}
	return filter
}

func (r *JobRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionJobs), nil
}

func (r *JobRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Job, int64, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := jobFilter(q)
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapErr("count jobs", err)
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "featured", Value: -1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit()))

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrapErr("find jobs", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, wrapErr("decode jobs", err)
	}

	items := make([]domain.Job, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

func (r *JobRepository) FindByIDOrSlug(ctx context.Context, key string) (*domain.Job, error) {
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		j, err := r.findOne(ctx, bson.M{"_id": oid})
		if !errors.Is(err, domain.ErrJobNotFound) {
			return j, err
		}
	}
	return r.findOne(ctx, bson.M{"slug": key})
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *JobRepository) findOne(ctx context.Context, filter bson.M) (*domain.Job, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, wrapErr("find job", err)
	}
	j := doc.toDomain()
	return &j, nil
}

func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newJobDoc(j, primitive.NewObjectID())
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return wrapErr("insert job", err)
	}
	j.ID = doc.ID.Hex()
	return nil
}

func (r *JobRepository) Update(ctx context.Context, j *domain.Job) error {
	oid, err := primitive.ObjectIDFromHex(j.ID)
	if err != nil {
		return domain.ErrJobNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": oid}, newJobDoc(j, oid))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return wrapErr("update job", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrJobNotFound
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapErr("delete job", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}
