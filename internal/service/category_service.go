package service

import (
	"context"
	"strings"
	"time"

	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
)

type CatalogStore interface {
	CategoryStore
	Create(ctx context.Context, category *models.Category) error
	Count(ctx context.Context) (int64, error)
}

type SubcatalogStore interface {
	SubcategoryStore
	Create(ctx context.Context, subcategory *models.Subcategory) error
}

// CategoryService serves the browsable catalog and seeds the default one on
// an empty database.
type CategoryService struct {
	Categories    CatalogStore
	Subcategories SubcatalogStore
	Log           *logger.Logger
}

func NewCategoryService(categories CatalogStore, subcategories SubcatalogStore, log *logger.Logger) *CategoryService {
	return &CategoryService{
		Categories:    categories,
		Subcategories: subcategories,
		Log:           log.With("service", "category"),
	}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.Categories.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

type CategoryDetail struct {
	Category      *models.Category     `json:"category"`
	Subcategories []models.Subcategory `json:"subcategories"`
}

func (s *CategoryService) Detail(ctx context.Context, slug string) (*CategoryDetail, error) {
	category, err := s.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	subcategories, err := s.Subcategories.FindByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if subcategories == nil {
		subcategories = []models.Subcategory{}
	}
	return &CategoryDetail{Category: category, Subcategories: subcategories}, nil
}

type seedCategory struct {
	name          string
	description   string
	icon          string
	subcategories []string
}

var defaultCatalog = []seedCategory{
	{
		name:        "Academic",
		description: "Programming, computer science and technical topics",
		icon:        "book",
		subcategories: []string{
			"Python Programming",
			"JavaScript Basics",
			"Data Structures",
			"Algorithms",
			"Web Development",
		},
	},
	{
		name:        "Entertainment",
		description: "Movies, music, gaming and pop culture",
		icon:        "film",
		subcategories: []string{
			"Movies & Cinema",
			"Music Trivia",
			"TV Shows",
			"Gaming",
			"Sports",
		},
	},
	{
		name:        "General Knowledge",
		description: "Geography, history, science and current events",
		icon:        "globe",
		subcategories: []string{
			"World Geography",
			"History",
			"Science",
			"Current Events",
			"Literature",
		},
	},
}

// SeedDefaults loads the default catalog into an empty database. A database
// that already has categories is left alone, so the seed is safe to enable
// on every boot.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	count, err := s.Categories.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.Log.Debug("catalog already populated, skipping seed", "categories", count)
		return nil
	}

	now := time.Now().UTC()
	for order, seed := range defaultCatalog {
		category := &models.Category{
			Name:        seed.name,
			Slug:        slugify(seed.name),
			Description: seed.description,
			Icon:        seed.icon,
			Order:       order + 1,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Categories.Create(ctx, category); err != nil {
			return err
		}
		for _, name := range seed.subcategories {
			subcategory := &models.Subcategory{
				CategoryID: category.ID,
				Name:       name,
				Slug:       slugify(name),
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.Subcategories.Create(ctx, subcategory); err != nil {
				return err
			}
		}
	}
	s.Log.Info("seeded default catalog", "categories", len(defaultCatalog))
	return nil
}

// slugify lowercases and hyphenates a display name, dropping anything that
// is not alphanumeric.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
