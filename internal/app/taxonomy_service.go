package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"miniblog/internal/model"
	"miniblog/internal/repository"
)

type CategoryCache interface {
	GetAll(ctx context.Context) ([]model.Category, bool, error)
	SetAll(ctx context.Context, categories []model.Category) error
	Invalidate(ctx context.Context) error
}

type TaxonomyService struct {
	categoryRepo *repository.CategoryRepository
	cache        CategoryCache
}

func NewTaxonomyService(categoryRepo *repository.CategoryRepository, cache CategoryCache) *TaxonomyService {
	return &TaxonomyService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// ListAll is called on every page render, so it is served from the cache
// whenever possible. Cache failures fall back to the database.
func (s *TaxonomyService) ListAll(ctx context.Context) ([]model.Category, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetAll(ctx)
		if err != nil {
			log.Printf("read category cache failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetAll(ctx, categories); err != nil {
			log.Printf("fill category cache failed: %v", err)
		}
	}
	return categories, nil
}

// ResolveIDs keeps the ids that name existing categories and drops the rest.
func (s *TaxonomyService) ResolveIDs(ids []uint) ([]model.Category, error) {
	return s.categoryRepo.ListByIDs(uniqueIDs(ids))
}

// Ensure creates any missing categories by name. It backs startup seeding and
// is not reachable from the public API.
func (s *TaxonomyService) Ensure(ctx context.Context, names ...string) (int, error) {
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		existing, err := s.categoryRepo.GetByName(name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := s.categoryRepo.Create(&model.Category{Name: name}); err != nil {
			// Another instance seeded the same name first.
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return created, err
		}
		created++
	}
	if created > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("invalidate category cache failed: %v", err)
		}
	}
	return created, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
