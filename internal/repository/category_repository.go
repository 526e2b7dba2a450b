package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/models"
)

type CategoryRepository struct {
	Col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Col: db.Collection("categories")}
}

func (r *CategoryRepository) FindAllActive(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var categories []models.Category
	for cur.Next(ctx) {
		var c models.Category
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, cur.Err()
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.Col.FindOne(ctx, bson.M{"slug": slug, "is_active": true}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("category %s", slug)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	res, err := r.Col.InsertOne(ctx, category)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid.Hex()
	}
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{})
}

type SubcategoryRepository struct {
	Col *mongo.Collection
}

func NewSubcategoryRepository(db *mongo.Database) *SubcategoryRepository {
	return &SubcategoryRepository{Col: db.Collection("subcategories")}
}

func (r *SubcategoryRepository) FindByCategory(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"category_id": categoryID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subcategories []models.Subcategory
	for cur.Next(ctx) {
		var s models.Subcategory
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		subcategories = append(subcategories, s)
	}
	return subcategories, cur.Err()
}

func (r *SubcategoryRepository) FindBySlug(ctx context.Context, categoryID, slug string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := r.Col.FindOne(ctx, bson.M{"category_id": categoryID, "slug": slug, "is_active": true}).Decode(&subcategory)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("subcategory %s", slug)
	}
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *SubcategoryRepository) Create(ctx context.Context, subcategory *models.Subcategory) error {
	subcategory.CreatedAt = time.Now()
	subcategory.UpdatedAt = subcategory.CreatedAt
	res, err := r.Col.InsertOne(ctx, subcategory)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		subcategory.ID = oid.Hex()
	}
	return nil
}
