package service

import (
	"fmt"
	"strings"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
)

type PostService struct{}

// PostForm is the create and edit form of a post. Tags is comma separated.
type PostForm struct {
	Title    string `form:"title" binding:"required"`
	Content  string `form:"content" binding:"required"`
	Category string `form:"category"`
	Tags     string `form:"tags"`
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// CanModify reports whether who may edit or delete p. Admins may change any
// post, legacy ones included; everyone else only their own.
func CanModify(who entity.Identity, p *model.Post) bool {
	if who.IsAnonymous() {
		return false
	}
	return who.IsAdmin() || p.AuthoredBy(who.UserId)
}

func (f *PostForm) validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	if f.Title == "" || strings.TrimSpace(f.Content) == "" {
		return fmt.Errorf("title and content are required: %w", ErrInvalidInput)
	}
	return nil
}

func (s *PostService) GetPosts() ([]model.Post, error) {
	return loadPosts()
}

func (s *PostService) GetPost(id int) (*model.Post, error) {
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	if i := findPost(posts, id); i >= 0 {
		return &posts[i], nil
	}
	return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
}

// CreatePost stores a new post written by author.
func (s *PostService) CreatePost(author entity.Identity, form PostForm) (*model.Post, error) {
	if author.IsAnonymous() {
		return nil, ErrForbidden
	}
	if err := form.validate(); err != nil {
		return nil, err
	}

	var posts []model.Post
	var created model.Post
	err := database.GetStore().Update(database.Posts, &posts, func() error {
		authorId := author.UserId
		date := model.FormatTime(now())
		created = model.Post{
			Id:        nextId(posts, func(p *model.Post) int { return p.Id }),
			Title:     form.Title,
			Content:   form.Content,
			Category:  form.Category,
			Tags:      ParseTags(form.Tags),
			AuthorId:  &authorId,
			Date:      date,
			UpdatedAt: date,
		}
		posts = append(posts, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidatePostCaches()
	logger.Infof("post %d created by %s", created.Id, author.Username)
	return &created, nil
}

// UpdatePost replaces the editable fields of post id.
func (s *PostService) UpdatePost(editor entity.Identity, id int, form PostForm) (*model.Post, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	var posts []model.Post
	var updated model.Post
	err := database.GetStore().Update(database.Posts, &posts, func() error {
		i := findPost(posts, id)
		if i < 0 {
			return fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		p := &posts[i]
		if !CanModify(editor, p) {
			return fmt.Errorf("post %d: %w", id, ErrForbidden)
		}
		p.Title = form.Title
		p.Content = form.Content
		p.Category = form.Category
		p.Tags = ParseTags(form.Tags)
		p.UpdatedAt = model.FormatTime(now())
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidatePostCaches()
	return &updated, nil
}

// DeletePost removes post id together with its comments in one transaction.
func (s *PostService) DeletePost(editor entity.Identity, id int) error {
	tx := database.GetStore().Begin(database.Posts, database.Comments)
	defer tx.Rollback()

	var posts []model.Post
	if err := tx.Load(database.Posts, &posts); err != nil {
		return err
	}
	i := findPost(posts, id)
	if i < 0 {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if !CanModify(editor, &posts[i]) {
		return fmt.Errorf("post %d: %w", id, ErrForbidden)
	}
	posts = append(posts[:i], posts[i+1:]...)

	var comments []model.Comment
	if err := tx.Load(database.Comments, &comments); err != nil {
		return err
	}
	kept := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if c.PostId != id {
			kept = append(kept, c)
		}
	}

	if err := tx.Stage(database.Posts, posts); err != nil {
		return err
	}
	if err := tx.Stage(database.Comments, kept); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	invalidatePostCaches()
	logger.Infof("post %d deleted by %s with %d comments", id, editor.Username, len(comments)-len(kept))
	return nil
}

func invalidatePostCaches() {
	caching.Default().InvalidatePrefix(caching.KeyTrendingPrefix)
}
