// Package ranking orders posts: search relevance, trending, related posts,
// listing sort modes and pagination. Everything works on in-memory slices and
// never modifies its input.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/techinsight/blog/database/model"
)

const (
	PageSize       = 6
	WordsPerMinute = 200
	TrendingDays   = 7
)

// ReadingTime estimates the minutes needed to read content, at least 1.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return max(1, (words+WordsPerMinute-1)/WordsPerMinute)
}

// SearchScore scores p against a lower-cased query. Title occurrences weigh 3,
// content occurrences 1, a tag containing the query 2 and a category
// containing it 2.
func SearchScore(p *model.Post, query string) int {
	if query == "" {
		return 0
	}
	score := 3*strings.Count(strings.ToLower(p.Title), query) +
		strings.Count(strings.ToLower(p.Content), query)
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			score += 2
			break
		}
	}
	if p.Category != "" && strings.Contains(strings.ToLower(p.Category), query) {
		score += 2
	}
	return score
}

type scored struct {
	post  model.Post
	score int
}

// byScore keeps entries with a positive score, highest first, ties in input order.
func byScore(entries []scored, limit int) []model.Post {
	kept := entries[:0]
	for _, e := range entries {
		if e.score > 0 {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	result := make([]model.Post, len(kept))
	for i, e := range kept {
		result[i] = e.post
	}
	return result
}

// Search returns the posts matching query, most relevant first. An empty
// query returns posts as given.
func Search(posts []model.Post, query string) []model.Post {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return posts
	}
	entries := make([]scored, len(posts))
	for i := range posts {
		entries[i] = scored{post: posts[i], score: SearchScore(&posts[i], query)}
	}
	return byScore(entries, 0)
}

// RecentViews sums the daily views of the trailing days calendar days, the
// day of now included.
func RecentViews(pv *model.PostViews, now time.Time, days int) int {
	if pv == nil {
		return 0
	}
	sum := 0
	for i := 0; i < days; i++ {
		sum += pv.Daily[now.AddDate(0, 0, -i).Format(model.DayLayout)]
	}
	return sum
}

// Trending returns the posts viewed during the trending window, most viewed
// first. Posts without recent views are left out whatever their lifetime
// total. limit <= 0 returns every trending post.
func Trending(posts []model.Post, analytics *model.Analytics, now time.Time, limit int) []model.Post {
	entries := make([]scored, len(posts))
	for i := range posts {
		entries[i] = scored{
			post:  posts[i],
			score: RecentViews(analytics.Views(posts[i].Id), now, TrendingDays),
		}
	}
	return byScore(entries, limit)
}

// Related returns the posts sharing the category or tags of ref: 3 for the
// same category (uncategorized posts share the empty one), 2 per shared tag. ref itself is never part of the result.
func Related(ref *model.Post, posts []model.Post, limit int) []model.Post {
	refTags := make(map[string]bool, len(ref.Tags))
	for _, t := range ref.Tags {
		refTags[t] = true
	}

	entries := make([]scored, 0, len(posts))
	for _, p := range posts {
		if p.Id == ref.Id {
			continue
		}
		score := 0
		if p.Category == ref.Category {
			score += 3
		}
		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			if refTags[t] && !seen[t] {
				seen[t] = true
				score += 2
			}
		}
		entries = append(entries, scored{post: p, score: score})
	}
	return byScore(entries, limit)
}
