package ranking

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/techinsight/blog/database/model"
)

type SortMode string

const (
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortPopular  SortMode = "popular"
	SortTrending SortMode = "trending"
)

// ParseSortMode maps a query value to a sort mode, newest when unknown.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(s); mode {
	case SortOldest, SortPopular, SortTrending:
		return mode
	default:
		return SortNewest
	}
}

// Sort returns a sorted copy of posts. Dates are compared as strings, which
// orders them chronologically for the stored layout.
func Sort(posts []model.Post, mode SortMode, analytics *model.Analytics, now time.Time) []model.Post {
	sorted := append([]model.Post(nil), posts...)
	switch mode {
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	case SortPopular:
		sort.SliceStable(sorted, func(i, j int) bool {
			return analytics.TotalViews(sorted[i].Id) > analytics.TotalViews(sorted[j].Id)
		})
	case SortTrending:
		trending := Trending(posts, analytics, now, 0)
		rank := make(map[int]int, len(trending))
		for i, p := range trending {
			rank[p.Id] = i
		}
		position := func(id int) int {
			if r, ok := rank[id]; ok {
				return r
			}
			return len(trending)
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return position(sorted[i].Id) < position(sorted[j].Id)
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	}
	return sorted
}

// Page describes one page of a listing.
type Page struct {
	Number     int
	TotalPages int
	Total      int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Paginate cuts page number out of posts, PageSize posts per page. Numbers
// below 1 read as 1; a page past the end is empty.
func Paginate(posts []model.Post, number int) ([]model.Post, Page) {
	number = max(1, number)
	page := Page{
		Number:     number,
		Total:      len(posts),
		TotalPages: (len(posts) + PageSize - 1) / PageSize,
	}
	start := (number - 1) * PageSize
	if start >= len(posts) {
		return []model.Post{}, page
	}
	end := min(start+PageSize, len(posts))
	return posts[start:end], page
}

// AllTags returns the distinct tags of posts in ascending order.
func AllTags(posts []model.Post) []string {
	set := make(map[string]bool)
	for _, p := range posts {
		for _, t := range p.Tags {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Excerpt shortens s to n characters followed by "..." when it is longer.
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
