package repository

import (
	"strings"

	"gorm.io/gorm"

	"yatube/models"
)

// commentsCountSelect annotates each post with its live comment count.
// The count is derived at query time and never stored or cached.
const commentsCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count"

// postOrder is the canonical post ordering: newest first, author id as tie-break.
const postOrder = "posts.pub_date DESC, posts.user_id ASC"

// PostRepository builds ordered, annotated post listings and owns post persistence.
// Every listing counts the filtered set first, clamps the requested page, and
// then loads exactly that one page of entities.
type PostRepository struct {
	db       *gorm.DB
	pageSize int
}

// NewPostRepository creates a PostRepository serving pages of the given size.
func NewPostRepository(db *gorm.DB, pageSize int) *PostRepository {
	return &PostRepository{db: db, pageSize: pageSize}
}

type postFilter func(*gorm.DB) *gorm.DB

func (r *PostRepository) list(number int, filter postFilter) ([]models.Post, Page, error) {
	var total int64
	if err := filter(r.db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, Page{}, err
	}

	page := Paginate(number, r.pageSize, total)

	q := filter(r.db.Model(&models.Post{}).
		Select(commentsCountSelect).
		Preload("User").
		Preload("Group").
		Order(postOrder))

	posts := []models.Post{}
	if err := q.Offset(page.Offset()).Limit(page.Size).Find(&posts).Error; err != nil {
		return nil, Page{}, err
	}
	return posts, page, nil
}

// All returns one page of every post in default order.
func (r *PostRepository) All(number int) ([]models.Post, Page, error) {
	return r.list(number, func(q *gorm.DB) *gorm.DB { return q })
}

// ByGroup returns one page of the group's posts. An unknown slug is a
// gorm.ErrRecordNotFound; a known group with no posts is a valid empty page.
func (r *PostRepository) ByGroup(slug string, number int) (models.Group, []models.Post, Page, error) {
	var group models.Group
	if err := r.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return models.Group{}, nil, Page{}, err
	}
	posts, page, err := r.list(number, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.group_id = ?", group.ID)
	})
	return group, posts, page, err
}

// ByAuthor returns one page of the author's posts. An unknown username is a
// gorm.ErrRecordNotFound.
func (r *PostRepository) ByAuthor(username string, number int) (models.User, []models.Post, Page, error) {
	var author models.User
	if err := r.db.Where("username = ?", username).First(&author).Error; err != nil {
		return models.User{}, nil, Page{}, err
	}
	posts, page, err := r.list(number, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.user_id = ?", author.ID)
	})
	return author, posts, page, err
}

// SavedBy returns one page of the user's bookmarked posts.
func (r *PostRepository) SavedBy(userID uint, number int) ([]models.Post, Page, error) {
	return r.list(number, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
			Where("bookmarks.user_id = ?", userID)
	})
}

// Feed returns one page of posts by authors the user follows.
// Following nobody yields an empty page, not an error.
func (r *PostRepository) Feed(userID uint, number int) ([]models.Post, Page, error) {
	return r.list(number, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.user_id IN (SELECT author_id FROM follows WHERE user_id = ?)", userID)
	})
}

// Search splits the query on whitespace and matches posts containing any of
// the words as a case-insensitive substring (union, never intersection).
// An empty query degrades to All.
func (r *PostRepository) Search(query string, number int) ([]models.Post, Page, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return r.All(number)
	}

	conds := make([]string, 0, len(words))
	args := make([]interface{}, 0, len(words))
	for _, word := range words {
		conds = append(conds, "LOWER(posts.text) LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(strings.ToLower(word))+"%")
	}

	return r.list(number, func(q *gorm.DB) *gorm.DB {
		return q.Where(strings.Join(conds, " OR "), args...)
	})
}

// escapeLike neutralizes LIKE metacharacters so query words match literally.
// '!' is the escape character; backslash is avoided because MySQL and SQLite
// disagree on backslashes inside string literals.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	s = strings.ReplaceAll(s, "_", "!_")
	return s
}

// Get loads a single post with its author, group, and live comment count.
func (r *PostRepository) Get(id uint) (models.Post, error) {
	var post models.Post
	err := r.db.Model(&models.Post{}).
		Select(commentsCountSelect).
		Preload("User").
		Preload("Group").
		First(&post, id).Error
	return post, err
}

// Create persists a new post. PubDate is set by the store and never updated.
func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update persists edits to an existing post; pub_date stays untouched.
func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete removes a post together with its comments and bookmarks. The cascade
// is explicit so the semantics hold on engines without FK enforcement.
func (r *PostRepository) Delete(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
