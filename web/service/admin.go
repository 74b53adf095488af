package service

import (
	"sort"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"
)

const recentLimit = 5

// Dashboard is the data of the admin dashboard.
type Dashboard struct {
	Stats          entity.AdminStats
	RecentPosts    []entity.PostCard
	RecentComments []entity.CommentView
	Status         *Status
}

type AdminService struct {
	commentService CommentService
	serverService  ServerService
}

func (s *AdminService) GetDashboard() (*Dashboard, error) {
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	comments, err := loadComments()
	if err != nil {
		return nil, err
	}
	categories, err := loadCategories()
	if err != nil {
		return nil, err
	}
	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}
	recentComments, err := s.commentService.RecentComments(recentLimit)
	if err != nil {
		return nil, err
	}

	stats := entity.AdminStats{
		TotalPosts:      len(posts),
		TotalUsers:      len(cc.users),
		TotalComments:   len(comments),
		TotalCategories: len(categories),
	}
	for _, pv := range cc.analytics.PostViews {
		if pv != nil {
			stats.TotalViews += pv.Total
		}
	}

	newest := newestFirst(posts)
	return &Dashboard{
		Stats:          stats,
		RecentPosts:    cc.cards(newest[:min(recentLimit, len(newest))]),
		RecentComments: recentComments,
		Status:         s.serverService.GetStatus(),
	}, nil
}

// GetPosts lists every post newest first with its author name.
func (s *AdminService) GetPosts() ([]entity.PostCard, error) {
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}
	return cc.cards(newestFirst(posts)), nil
}

func newestFirst(posts []model.Post) []model.Post {
	sorted := append([]model.Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	return sorted
}
