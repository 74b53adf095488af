// Package entity defines the values the web layer passes between middleware,
// services, controllers and templates.
package entity

import (
	"github.com/techinsight/blog/database/model"
)

// Msg is the JSON envelope of API errors.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

type Role string

const (
	RoleAnonymous Role = ""
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Identity is the account acting on a request, resolved from the session.
type Identity struct {
	UserId   int
	Username string
	Role     Role
}

func (i Identity) IsAnonymous() bool { return i.Role == RoleAnonymous }
func (i Identity) IsAdmin() bool     { return i.Role == RoleAdmin }

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// PostCard is a post decorated for listings.
type PostCard struct {
	model.Post
	Views        int    `json:"views"`
	ReadingTime  int    `json:"reading_time"`
	AuthorName   string `json:"author_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	model.Comment
	AuthorName   string
	AuthorAvatar string
}

// SearchResult is one entry of the live search API.
type SearchResult struct {
	Id       int    `json:"id"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category"`
	Url      string `json:"url"`
}

// ListingQuery holds the query parameters of the blog listing.
type ListingQuery struct {
	Page     int    `form:"page"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Sort     string `form:"sort"`
}

// ProfileStats summarizes the posts of one account.
type ProfileStats struct {
	TotalPosts int
	TotalViews int
	AvgViews   int
	JoinedDate string

	// admin profiles only
	TotalUsers         int
	TotalPlatformPosts int
	TotalComments      int
}

// AdminStats feeds the admin dashboard.
type AdminStats struct {
	TotalPosts      int
	TotalUsers      int
	TotalComments   int
	TotalCategories int
	TotalViews      int
}
