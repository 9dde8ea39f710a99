package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniblog/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts the post row only; categories are linked with ReplaceCategories.
func (r *PostRepository) Create(post *model.Post) error {
	if err := r.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(id uint) (*model.Post, error) {
	return r.get(r.db, id)
}

// GetByIDForUpdate locks the row for the rest of the transaction on engines
// that support row locks.
func (r *PostRepository) GetByIDForUpdate(id uint) (*model.Post, error) {
	return r.get(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostRepository) get(db *gorm.DB, id uint) (*model.Post, error) {
	var post model.Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	posts := []model.Post{post}
	if err := r.attachCategories(posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// ListActive returns active posts, newest first.
func (r *PostRepository) ListActive() ([]model.Post, error) {
	return r.listActive(r.db)
}

func (r *PostRepository) ListActiveByAuthor(authorID uint) ([]model.Post, error) {
	return r.listActive(r.db.Where("usuario_id = ?", authorID))
}

func (r *PostRepository) listActive(db *gorm.DB) ([]model.Post, error) {
	var posts []model.Post
	if err := db.Where("is_active = ?", true).
		Order("fecha_creacion DESC").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list active posts failed: %w", err)
	}
	if err := r.attachCategories(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) UpdateContent(id uint, title, body string) error {
	if err := r.db.Model(&model.Post{}).Where("id = ?", id).Updates(map[string]any{
		"titulo":    title,
		"contenido": body,
	}).Error; err != nil {
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Deactivate(id uint) error {
	if err := r.db.Model(&model.Post{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate post failed: %w", err)
	}
	return nil
}

// ReplaceCategories clears the post's category links and writes categoryIDs
// in their place.
func (r *PostRepository) ReplaceCategories(postID uint, categoryIDs []uint) error {
	if err := r.db.Where("post_id = ?", postID).Delete(&model.PostCategory{}).Error; err != nil {
		return fmt.Errorf("clear post categories failed: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.PostCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, model.PostCategory{PostID: postID, CategoriaID: id})
	}
	if err := r.db.Create(&links).Error; err != nil {
		return fmt.Errorf("link post categories failed: %w", err)
	}
	return nil
}

type postCategoryRow struct {
	PostID uint
	ID     uint
	Nombre string
}

func (r *PostRepository) attachCategories(posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	index := make(map[uint]int, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
		index[posts[i].ID] = i
		posts[i].Categories = []model.Category{}
	}

	var rows []postCategoryRow
	if err := r.db.Table("categoria").
		Select("post_categorias.post_id, categoria.id, categoria.nombre").
		Joins("JOIN post_categorias ON post_categorias.categoria_id = categoria.id").
		Where("post_categorias.post_id IN ?", ids).
		Order("categoria.nombre ASC").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("load post categories failed: %w", err)
	}
	for _, row := range rows {
		i := index[row.PostID]
		posts[i].Categories = append(posts[i].Categories, model.Category{ID: row.ID, Name: row.Nombre})
	}
	return nil
}
