package service

import (
	"math"
	"sort"

	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"
)

// Profile is the data of a profile page.
type Profile struct {
	User  *model.User
	Posts []entity.PostCard
	Stats entity.ProfileStats
}

type ProfileService struct {
	userService UserService
}

// GetProfile assembles the profile of who: own posts newest first and their
// statistics. Admin profiles add platform totals.
func (s *ProfileService) GetProfile(who entity.Identity) (*Profile, error) {
	user, err := s.userService.GetUser(who.UserId)
	if err != nil {
		return nil, err
	}
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}

	own := filter(posts, func(p *model.Post) bool { return p.AuthoredBy(user.Id) })
	sort.SliceStable(own, func(i, j int) bool { return own[i].Date > own[j].Date })
	cards := cc.cards(own)

	stats := entity.ProfileStats{
		TotalPosts: len(cards),
		JoinedDate: user.CreatedAt,
	}
	for _, c := range cards {
		stats.TotalViews += c.Views
	}
	if len(cards) > 0 {
		stats.AvgViews = int(math.Round(float64(stats.TotalViews) / float64(len(cards))))
	}
	if stats.JoinedDate == "" {
		stats.JoinedDate = "Unknown"
	}

	if user.IsAdmin {
		comments, err := loadComments()
		if err != nil {
			return nil, err
		}
		stats.TotalUsers = len(cc.users)
		stats.TotalPlatformPosts = len(posts)
		stats.TotalComments = len(comments)
	}

	return &Profile{User: user, Posts: cards, Stats: stats}, nil
}
