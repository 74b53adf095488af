package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"
)

const unknownUser = "Unknown User"

type CommentService struct{}

// AddComment stores a comment of author under post postId.
func (s *CommentService) AddComment(author entity.Identity, postId int, content string) (*model.Comment, error) {
	if author.IsAnonymous() {
		return nil, ErrForbidden
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty comment: %w", ErrInvalidInput)
	}
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	if findPost(posts, postId) < 0 {
		return nil, fmt.Errorf("post %d: %w", postId, ErrNotFound)
	}

	var comments []model.Comment
	var created model.Comment
	err = database.GetStore().Update(database.Comments, &comments, func() error {
		created = model.Comment{
			Id:       nextId(comments, func(c *model.Comment) int { return c.Id }),
			PostId:   postId,
			AuthorId: author.UserId,
			Content:  content,
			Date:     model.FormatTime(now()),
		}
		comments = append(comments, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetComments returns the comments of postId, oldest first, with their authors.
func (s *CommentService) GetComments(postId int) ([]entity.CommentView, error) {
	comments, err := loadComments()
	if err != nil {
		return nil, err
	}
	users, err := loadUsers()
	if err != nil {
		return nil, err
	}
	byId := usersById(users)

	views := []entity.CommentView{}
	for _, c := range comments {
		if c.PostId == postId {
			views = append(views, commentView(c, byId))
		}
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date < views[j].Date })
	return views, nil
}

// RecentComments returns the n newest comments.
func (s *CommentService) RecentComments(n int) ([]entity.CommentView, error) {
	comments, err := loadComments()
	if err != nil {
		return nil, err
	}
	users, err := loadUsers()
	if err != nil {
		return nil, err
	}
	byId := usersById(users)

	sort.SliceStable(comments, func(i, j int) bool { return comments[i].Date > comments[j].Date })
	comments = comments[:min(n, len(comments))]
	views := make([]entity.CommentView, len(comments))
	for i, c := range comments {
		views[i] = commentView(c, byId)
	}
	return views, nil
}

func (s *CommentService) CountComments() (int, error) {
	comments, err := loadComments()
	return len(comments), err
}

func commentView(c model.Comment, byId map[int]*model.User) entity.CommentView {
	view := entity.CommentView{Comment: c, AuthorName: unknownUser, AuthorAvatar: model.UserAvatar}
	if u, ok := byId[c.AuthorId]; ok {
		view.AuthorName = u.Username
		view.AuthorAvatar = u.Avatar
	}
	return view
}
