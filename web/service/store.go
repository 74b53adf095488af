// Package service implements the operations of the blog on top of the
// document store: accounts, posts, comments, categories, view counting,
// listings and the admin pages.
package service

import (
	"time"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
)

var timeNow = time.Now

// now returns the current time in the configured zone.
func now() time.Time {
	return timeNow().In(config.GetTimeLocation())
}

func loadUsers() ([]model.User, error) {
	var users []model.User
	err := database.GetStore().Load(database.Users, &users)
	return users, err
}

func loadPosts() ([]model.Post, error) {
	var posts []model.Post
	err := database.GetStore().Load(database.Posts, &posts)
	return posts, err
}

func loadComments() ([]model.Comment, error) {
	var comments []model.Comment
	err := database.GetStore().Load(database.Comments, &comments)
	return comments, err
}

func loadCategories() ([]model.Category, error) {
	var categories []model.Category
	err := database.GetStore().Load(database.Categories, &categories)
	return categories, err
}

func loadAnalytics() (*model.Analytics, error) {
	analytics := &model.Analytics{}
	if err := database.GetStore().Load(database.Analytics, analytics); err != nil {
		return nil, err
	}
	if analytics.PostViews == nil {
		analytics.PostViews = map[string]*model.PostViews{}
	}
	return analytics, nil
}

// nextId returns one more than the largest id returned by idOf.
func nextId[T any](items []T, idOf func(*T) int) int {
	maxId := 0
	for i := range items {
		maxId = max(maxId, idOf(&items[i]))
	}
	return maxId + 1
}

func findPost(posts []model.Post, id int) int {
	for i := range posts {
		if posts[i].Id == id {
			return i
		}
	}
	return -1
}

func usersById(users []model.User) map[int]*model.User {
	byId := make(map[int]*model.User, len(users))
	for i := range users {
		byId[users[i].Id] = &users[i]
	}
	return byId
}
