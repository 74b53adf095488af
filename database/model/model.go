// Package model defines the records persisted in the JSON documents.
package model

import (
	"strconv"
	"time"
)

const (
	// TimeLayout formats created_at, last_login, date and updated_at values.
	TimeLayout = "2006-01-02 15:04:05"
	// DayLayout keys the daily view buckets.
	DayLayout = "2006-01-02"
)

const (
	AdminAvatar = "fas fa-user-shield"
	UserAvatar  = "fas fa-user"
	AdminBio    = "Platform Administrator"
)

type User struct {
	Id        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	IsAdmin   bool    `json:"is_admin"`
	Bio       string  `json:"bio"`
	Avatar    string  `json:"avatar"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login"`
}

type Post struct {
	Id        int      `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	AuthorId  *int     `json:"author_id"`
	Date      string   `json:"date"`
	UpdatedAt string   `json:"updated_at"`
}

// IsLegacy reports whether the post predates author tracking.
func (p *Post) IsLegacy() bool {
	return p.AuthorId == nil
}

// AuthoredBy reports whether userId wrote the post.
func (p *Post) AuthoredBy(userId int) bool {
	return p.AuthorId != nil && *p.AuthorId == userId
}

type Comment struct {
	Id       int    `json:"id"`
	PostId   int    `json:"post_id"`
	AuthorId int    `json:"author_id"`
	Content  string `json:"content"`
	Date     string `json:"date"`
}

type Category struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// PostViews is the view counter of one post.
type PostViews struct {
	Total int            `json:"total"`
	Daily map[string]int `json:"daily"`
}

// Analytics is the analytics document, keyed by the post id as a string.
type Analytics struct {
	PostViews map[string]*PostViews `json:"post_views"`
}

// Views returns the counter of a post, or nil when it was never viewed.
func (a *Analytics) Views(postId int) *PostViews {
	if a == nil || a.PostViews == nil {
		return nil
	}
	return a.PostViews[Key(postId)]
}

// TotalViews returns the lifetime view count of a post.
func (a *Analytics) TotalViews(postId int) int {
	if pv := a.Views(postId); pv != nil {
		return pv.Total
	}
	return 0
}

// Key converts a post id into its analytics document key.
func Key(postId int) string {
	return strconv.Itoa(postId)
}

// FormatTime formats t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
