package repository

import (
	"errors"

	"gorm.io/gorm"

	"miniblog/internal/model"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

// Migrate creates or updates every table the blog owns, including the
// post_categorias join table declared on model.Post.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Post{},
		&model.Comment{},
		&model.ActivityLog{},
	)
}

// Repos groups repositories bound to the same database handle.
type Repos struct {
	Users      *UserRepository
	Categories *CategoryRepository
	Posts      *PostRepository
	Comments   *CommentRepository
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Posts:      NewPostRepository(db),
		Comments:   NewCommentRepository(db),
	}
}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (t *Transactor) WithinTx(fn func(repos Repos) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
