package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/ranking"
	"github.com/techinsight/blog/web/entity"
)

const (
	SidebarTrendingLimit = 5
	APITrendingLimit     = 10
	RelatedLimit         = 3
	SearchResultLimit    = 5
	SearchMinLength      = 2
	excerptLength        = 100
	legacyAuthorName     = "Legacy Post"
)

// ListingService assembles the pages that show posts.
type ListingService struct {
	analyticsService AnalyticsService
	commentService   CommentService
}

// ListingPage is the data of one page of the blog listing.
type ListingPage struct {
	Posts      []entity.PostCard
	Page       ranking.Page
	Query      entity.ListingQuery
	Categories []model.Category
	AllTags    []string
	Trending   []entity.PostCard
}

// PostDetail is the data of a post page.
type PostDetail struct {
	Post         entity.PostCard
	CategoryName string
	Comments     []entity.CommentView
	Related      []entity.PostCard
	CanModify    bool
}

// cardContext holds what decorating posts needs, loaded once per page.
type cardContext struct {
	analytics  *model.Analytics
	users      map[int]*model.User
	categories map[string]string
}

func loadCardContext() (*cardContext, error) {
	analytics, err := loadAnalytics()
	if err != nil {
		return nil, err
	}
	users, err := loadUsers()
	if err != nil {
		return nil, err
	}
	categories, err := loadCategories()
	if err != nil {
		return nil, err
	}
	return &cardContext{
		analytics:  analytics,
		users:      usersById(users),
		categories: categoryNames(categories),
	}, nil
}

func (cc *cardContext) card(p model.Post) entity.PostCard {
	card := entity.PostCard{
		Post:         p,
		Views:        cc.analytics.TotalViews(p.Id),
		ReadingTime:  ranking.ReadingTime(p.Content),
		CategoryName: cc.categories[p.Category],
	}
	switch {
	case p.AuthorId == nil:
		card.AuthorName = legacyAuthorName
	case cc.users[*p.AuthorId] != nil:
		card.AuthorName = cc.users[*p.AuthorId].Username
	default:
		card.AuthorName = unknownUser
	}
	return card
}

func (cc *cardContext) cards(posts []model.Post) []entity.PostCard {
	cards := make([]entity.PostCard, len(posts))
	for i, p := range posts {
		cards[i] = cc.card(p)
	}
	return cards
}

// List runs the listing pipeline: search, category filter, tag filter, sort
// and pagination.
func (s *ListingService) List(q entity.ListingQuery) (*ListingPage, error) {
	all, err := loadPosts()
	if err != nil {
		return nil, err
	}
	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}
	categories, err := loadCategories()
	if err != nil {
		return nil, err
	}

	q.Search = strings.TrimSpace(q.Search)
	q.Sort = string(ranking.ParseSortMode(q.Sort))
	q.Page = max(1, q.Page)

	posts := ranking.Search(all, q.Search)
	if q.Category != "" {
		posts = filter(posts, func(p *model.Post) bool { return p.Category == q.Category })
	}
	if q.Tag != "" {
		posts = filter(posts, func(p *model.Post) bool {
			for _, t := range p.Tags {
				if t == q.Tag {
					return true
				}
			}
			return false
		})
	}
	posts = ranking.Sort(posts, ranking.SortMode(q.Sort), cc.analytics, now())
	pagePosts, page := ranking.Paginate(posts, q.Page)

	trending, err := s.Trending(SidebarTrendingLimit)
	if err != nil {
		logger.Warning("get trending posts failed:", err)
		trending = nil
	}

	return &ListingPage{
		Posts:      cc.cards(pagePosts),
		Page:       page,
		Query:      q,
		Categories: categories,
		AllTags:    ranking.AllTags(all),
		Trending:   trending,
	}, nil
}

func filter(posts []model.Post, keep func(*model.Post) bool) []model.Post {
	kept := make([]model.Post, 0, len(posts))
	for i := range posts {
		if keep(&posts[i]) {
			kept = append(kept, posts[i])
		}
	}
	return kept
}

// Trending returns up to limit trending posts, cached until the next view
// or post change.
func (s *ListingService) Trending(limit int) ([]entity.PostCard, error) {
	return caching.GetOrSet(caching.Default(), caching.TrendingKey(limit), caching.TTLTrending, func() ([]entity.PostCard, error) {
		return s.computeTrending(limit)
	})
}

func (s *ListingService) computeTrending(limit int) ([]entity.PostCard, error) {
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}
	return cc.cards(ranking.Trending(posts, cc.analytics, now(), limit)), nil
}

// WarmTrending recomputes the cached trending lists.
func (s *ListingService) WarmTrending() error {
	for _, limit := range []int{SidebarTrendingLimit, APITrendingLimit} {
		cards, err := s.computeTrending(limit)
		if err != nil {
			return err
		}
		caching.Default().Memory().Set(caching.TrendingKey(limit), cards, caching.TTLTrending)
	}
	return nil
}

// ViewPost records a view of post id by viewer and assembles its page.
func (s *ListingService) ViewPost(ctx context.Context, id int, viewer entity.Identity) (*PostDetail, error) {
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	i := findPost(posts, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	post := posts[i]

	if err := s.analyticsService.RecordView(ctx, id, viewer); err != nil {
		logger.Warning("record view failed:", err)
	}

	cc, err := loadCardContext()
	if err != nil {
		return nil, err
	}
	comments, err := s.commentService.GetComments(id)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:         cc.card(post),
		CategoryName: cc.categories[post.Category],
		Comments:     comments,
		Related:      cc.cards(ranking.Related(&post, posts, RelatedLimit)),
		CanModify:    CanModify(viewer, &post),
	}, nil
}

// Search returns the live search results for query, nothing when the raw
// query is shorter than SearchMinLength or holds only whitespace. Matching
// trims the query as the listing does.
func (s *ListingService) Search(query string) ([]entity.SearchResult, error) {
	results := []entity.SearchResult{}
	if utf8.RuneCountInString(query) < SearchMinLength || strings.TrimSpace(query) == "" {
		return results, nil
	}
	posts, err := loadPosts()
	if err != nil {
		return nil, err
	}
	matches := ranking.Search(posts, query)
	for _, p := range matches[:min(SearchResultLimit, len(matches))] {
		results = append(results, entity.SearchResult{
			Id:       p.Id,
			Title:    p.Title,
			Excerpt:  ranking.Excerpt(p.Content, excerptLength),
			Category: p.Category,
			Url:      "/post/" + strconv.Itoa(p.Id),
		})
	}
	return results, nil
}
