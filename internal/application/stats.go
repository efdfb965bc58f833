package application

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
)

const (
	topTagsLimit       = 10
	topCategoriesLimit = 8
)

// StatsFilter narrows the books counted. Zero values mean "all".
type StatsFilter struct {
	Year   int               `form:"year"`
	Tag    string            `form:"tag"`
	Status entity.BookStatus `form:"status"`
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats summarises a library for the dashboard and the public profile.
type Stats struct {
	Total         int     `json:"total"`
	Monthly       []Count `json:"monthly"`
	ByStatus      []Count `json:"byStatus"`
	Ratings       []Count `json:"ratings"`
	TopTags       []Count `json:"topTags"`
	TopCategories []Count `json:"topCategories"`
	Weekly        []Count `json:"weekly"`

	// Filter options derived from the unfiltered set.
	Years    []int    `json:"years"`
	Tags     []string `json:"tags"`
	Statuses []string `json:"statuses"`
}

func (f StatsFilter) match(b entity.Book) bool {
	if f.Year != 0 && (b.EndDate == nil || b.EndDate.Year() != f.Year) {
		return false
	}
	if f.Tag != "" && !lo.Contains(b.Tags, f.Tag) {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// ComputeStats aggregates books after applying f. The status counts always sum to Total.
func ComputeStats(books []entity.Book, f StatsFilter) Stats {
	filtered := lo.Filter(books, func(b entity.Book, _ int) bool { return f.match(b) })

	monthly := map[string]int{}
	weekly := map[string]int{}
	status := map[string]int{}
	ratings := map[int]int{}
	tags := map[string]int{}
	cats := map[string]int{}

	for _, b := range filtered {
		status[string(b.Status)]++
		if b.EndDate != nil {
			end := b.EndDate.UTC()
			if b.Status == entity.StatusFinished {
				monthly[end.Format("2006-01")]++
			}
			y, w := end.ISOWeek()
			weekly[fmt.Sprintf("%d-W%02d", y, w)]++
		}
		if b.Rating != nil && *b.Rating > 0 {
			ratings[int(math.Floor(*b.Rating))]++
		}
		for _, t := range b.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags[t]++
			}
		}
		for _, c := range b.Categories {
			if c = strings.TrimSpace(c); c != "" {
				cats[c]++
			}
		}
	}

	ratingCounts := make([]Count, 0, len(ratings))
	for _, r := range lo.Keys(ratings) {
		ratingCounts = append(ratingCounts, Count{Key: strconv.Itoa(r), Count: ratings[r]})
	}
	sort.Slice(ratingCounts, func(i, j int) bool {
		a, _ := strconv.Atoi(ratingCounts[i].Key)
		b, _ := strconv.Atoi(ratingCounts[j].Key)
		return a < b
	})

	return Stats{
		Total:         len(filtered),
		Monthly:       byKey(monthly),
		ByStatus:      byCountDesc(status, 0),
		Ratings:       ratingCounts,
		TopTags:       byCountDesc(tags, topTagsLimit),
		TopCategories: byCountDesc(cats, topCategoriesLimit),
		Weekly:        byKey(weekly),
		Years:         yearOptions(books),
		Tags:          tagOptions(books),
		Statuses:      statusOptions(books),
	}
}

func byKey(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// byCountDesc sorts by count descending, ties by key; limit <= 0 keeps everything.
func byCountDesc(m map[string]int, limit int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func yearOptions(books []entity.Book) []int {
	years := lo.Uniq(lo.FilterMap(books, func(b entity.Book, _ int) (int, bool) {
		if b.EndDate == nil {
			return 0, false
		}
		return b.EndDate.UTC().Year(), true
	}))
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func tagOptions(books []entity.Book) []string {
	tags := lo.Uniq(lo.FlatMap(books, func(b entity.Book, _ int) []string { return b.Tags }))
	sort.Strings(tags)
	return tags
}

func statusOptions(books []entity.Book) []string {
	statuses := lo.Uniq(lo.Map(books, func(b entity.Book, _ int) string { return string(b.Status) }))
	sort.Strings(statuses)
	return statuses
}
