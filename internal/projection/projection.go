// Package projection derives filtered lists, aggregates and totals from a
// state.Snapshot. Every function is pure; none of them touch the store.
package projection

import (
	"sort"
	"strings"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/state"
)

// Unknown is the bucket key for entries missing the counted field.
const Unknown = "Unknown"

// TagsOf returns the entry's tags: keywords when present, otherwise the tag
// field for lang.
func TagsOf(entry catalog.Entry, lang string) []string {
	if entry.Keywords.Present() {
		return entry.Keywords.Items()
	}
	if lang == "en" {
		return entry.TagsEN.Items()
	}
	return entry.TagsJP.Items()
}

// Visible applies the view's category, tag and text filters to the working
// set, then sorts by likes when the view asks for it.
func Visible(snap state.Snapshot) []catalog.Entry {
	v := snap.View
	query := strings.ToLower(v.Query)

	out := make([]catalog.Entry, 0, len(snap.Working))
	for _, entry := range snap.Working {
		if v.Category != "" && entry.ResolvedCategory() != v.Category {
			continue
		}
		tags := TagsOf(entry, v.Lang)
		if !hasAll(tags, v.Tags) {
			continue
		}
		if query != "" && !strings.Contains(searchText(entry, tags), query) {
			continue
		}
		out = append(out, entry)
	}
	if v.SortByLikes {
		sortByLikes(out)
	}
	return out
}

func hasAll(tags, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, t := range tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func searchText(entry catalog.Entry, tags []string) string {
	parts := []string{
		string(entry.TitleJP),
		string(entry.TitleEN),
		string(entry.DescriptionJP),
		string(entry.DescriptionEN),
	}
	parts = append(parts, tags...)
	parts = append(parts, string(entry.Request))
	return strings.ToLower(strings.Join(parts, " "))
}

func sortByLikes(entries []catalog.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Likes > entries[j].Likes
	})
}

// Bucket is one aggregation group. Key is the raw field value and stays
// distinct even when two keys share a Label.
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountBy groups entries by field in first-seen order. For "category" the
// resolved category key is grouped and labelled through table.
func CountBy(entries []catalog.Entry, field string, table *category.Table, lang string) []Bucket {
	isCategory := field == "category" || field == "category_en"

	var buckets []Bucket
	index := map[string]int{}
	for _, entry := range entries {
		var key string
		if isCategory {
			key = entry.ResolvedCategory()
		} else {
			key = entry.Field(field)
		}
		if key == "" {
			key = Unknown
		}
		if i, ok := index[key]; ok {
			buckets[i].Count++
			continue
		}
		label := key
		if isCategory {
			label = table.Label(key, lang)
		}
		index[key] = len(buckets)
		buckets = append(buckets, Bucket{Key: key, Label: label, Count: 1})
	}
	if buckets == nil {
		return []Bucket{}
	}
	return buckets
}

// NameLimit is the display length TopLiked truncates names to.
const NameLimit = 20

// Ranked is one TopLiked row.
type Ranked struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Likes int    `json:"likes"`
}

// TopLiked returns the n most liked entries, ties in original order. Names
// use the title for lang, falling back to the id, truncated to NameLimit.
func TopLiked(entries []catalog.Entry, n int, lang string) []Ranked {
	sorted := make([]catalog.Entry, len(entries))
	copy(sorted, entries)
	sortByLikes(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]Ranked, 0, len(sorted))
	for _, entry := range sorted {
		name := string(entry.TitleJP)
		if lang == "en" {
			name = string(entry.TitleEN)
		}
		if name == "" {
			name = string(entry.ID)
		}
		out = append(out, Ranked{ID: string(entry.ID), Name: Truncate(name, NameLimit), Likes: entry.Likes})
	}
	return out
}

// Truncate cuts s to limit runes and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// GlobalLikesTotal sums every count in the likes map across all roles.
func GlobalLikesTotal(snap state.Snapshot) int {
	return snap.Likes.Total()
}

// TabLikesTotal sums the displayed likes of the active role.
func TabLikesTotal(snap state.Snapshot) int {
	total := 0
	for _, entry := range snap.Working {
		total += entry.Likes
	}
	return total
}

// DisplayTags returns the sorted unique tags of the visible entries.
func DisplayTags(snap state.Snapshot) []string {
	seen := map[string]struct{}{}
	for _, entry := range Visible(snap) {
		for _, t := range TagsOf(entry, snap.View.Lang) {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CategoryOption is a selectable category of the active role.
type CategoryOption struct {
	Key string `json:"key"`
	JP  string `json:"jp"`
	EN  string `json:"en"`
}

// Categories lists the distinct resolved categories of the active role in
// first-seen order, labelled through table.
func Categories(snap state.Snapshot, table *category.Table) []CategoryOption {
	seen := map[string]struct{}{}
	out := []CategoryOption{}
	for _, entry := range snap.Working {
		key := entry.ResolvedCategory()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, CategoryOption{
			Key: key,
			JP:  table.Label(key, "jp"),
			EN:  table.Label(key, "en"),
		})
	}
	return out
}
