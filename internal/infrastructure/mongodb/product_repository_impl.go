package mongodb

import (
	"context"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type productDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Image        string             `bson:"image"`
	ImageZoomed  string             `bson:"imageZoomed"`
	Brand        string             `bson:"brand"`
	Category     string             `bson:"category"`
	Description  string             `bson:"description"`
	Price        float64            `bson:"price"`
	CountInStock int                `bson:"countInStock"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"numReviews"`
	Seller       string             `bson:"seller,omitempty"`
	Version      int64              `bson:"version"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func newProductDocument(p *entity.Product) productDocument {
	return productDocument{
		Name:         p.Name,
		Image:        p.Image,
		ImageZoomed:  p.ImageZoomed,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Seller:       p.Seller,
	}
}

func (d productDocument) toEntity() entity.Product {
	return entity.Product{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Image:        d.Image,
		ImageZoomed:  d.ImageZoomed,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Price:        d.Price,
		CountInStock: d.CountInStock,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		Seller:       d.Seller,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	ts := now()
	doc := newProductDocument(p)
	doc.ID = primitive.NewObjectID()
	doc.Version = 1
	doc.CreatedAt, doc.UpdatedAt = ts, ts
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	p.ID, p.Version, p.CreatedAt, p.UpdatedAt = doc.ID.Hex(), doc.Version, ts, ts
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	p := doc.toEntity()
	return &p, nil
}

func (r *ProductRepository) Find(ctx context.Context, f repository.ProductFilter) ([]entity.Product, error) {
	opts := options.Find().SetSort(productSort(f.Sort))
	if f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := r.coll.Find(ctx, productFilter(f), opts)
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *ProductRepository) Count(ctx context.Context, f repository.ProductFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, productFilter(f))
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}
	ts := now()
	filter := bson.D{{Key: "_id", Value: oid}, {Key: "version", Value: p.Version}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "image", Value: p.Image},
		{Key: "imageZoomed", Value: p.ImageZoomed},
		{Key: "brand", Value: p.Brand},
		{Key: "category", Value: p.Category},
		{Key: "description", Value: p.Description},
		{Key: "price", Value: p.Price},
		{Key: "countInStock", Value: p.CountInStock},
		{Key: "rating", Value: p.Rating},
		{Key: "numReviews", Value: p.NumReviews},
		{Key: "seller", Value: p.Seller},
		{Key: "version", Value: p.Version + 1},
		{Key: "updatedAt", Value: ts},
	}}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return missingOrStale(ctx, r.coll, oid)
	}
	p.Version++
	p.UpdatedAt = ts
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// DecrementStock only matches while enough stock remains, so concurrent
// decrements can never drive countInStock below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "countInStock", Value: bson.D{{Key: "$gte", Value: qty}}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "countInStock", Value: -qty}, {Key: "version", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now()}}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrInsufficientStock
	}
	return nil
}

func productFilter(f repository.ProductFilter) bson.D {
	filter := bson.D{}
	if f.Name != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(f.Name),
			Options: "i",
		}})
	}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	if f.Seller != "" {
		filter = append(filter, bson.E{Key: "seller", Value: f.Seller})
	}
	return filter
}

// ObjectIDs grow with insertion, so _id desc is the newest-first tie-breaker.
func productSort(s repository.ProductSort) bson.D {
	switch s {
	case repository.SortLowest:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: -1}}
	case repository.SortHighest:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
