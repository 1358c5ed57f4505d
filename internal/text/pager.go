package text

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// RankedKey is one entry selected for a page. Similarity is only meaningful
// when Ranked is true (a search term was supplied).
type RankedKey struct {
	Key        string
	Similarity float64
	Ranked     bool
}

// PageRequest describes one page of a keyed listing. Page starts at one.
// When Search is non-empty, keys are ordered by similarity to the joined
// search term instead of alphabetically.
type PageRequest struct {
	Keys       []string
	Search     []string
	Page       int
	PageLength int
	Highlight  string
	Format     func(key RankedKey) string
}

// Page renders one page of a listing: a `Page X/Y, Results A-B/N` header
// followed by a fenced code block of formatted lines. It returns the number
// of lines on the page; zero means the page is empty and the body is "".
func Page(req PageRequest) (int, string) {
	page := req.Page - 1
	if page < 0 {
		page = 0
	}
	total := len(req.Keys)

	var selected []RankedKey
	if len(req.Search) > 0 {
		selected = rankBySimilarity(req.Keys, strings.Join(req.Search, " "))
	} else {
		keys := append([]string(nil), req.Keys...)
		sort.Strings(keys)
		selected = make([]RankedKey, len(keys))
		for i, k := range keys {
			selected[i] = RankedKey{Key: k}
		}
	}

	lo := page * req.PageLength
	hi := lo + req.PageLength
	if lo >= len(selected) {
		return 0, ""
	}
	if hi > len(selected) {
		hi = len(selected)
	}
	selected = selected[lo:hi]

	lines := make([]string, len(selected))
	for i, key := range selected {
		lines[i] = req.Format(key)
	}

	pages := (total + req.PageLength - 1) / req.PageLength
	header := fmt.Sprintf("> Page `%d/%d`, Results `%d-%d/%d`",
		page+1, pages, lo+1, lo+len(selected), total)
	return len(selected), header + "\n```" + req.Highlight + "\n" +
		strings.Join(lines, "\n") + "```"
}

func rankBySimilarity(keys []string, term string) []RankedKey {
	metric := metrics.NewSorensenDice()
	ranked := make([]RankedKey, len(keys))
	for i, k := range keys {
		ranked[i] = RankedKey{
			Key:        k,
			Similarity: strutil.Similarity(term, k, metric),
			Ranked:     true,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		diff := ranked[j].Similarity - ranked[i].Similarity
		if math.Abs(diff) > 1e-3 {
			return diff < 0
		}
		return ranked[i].Key < ranked[j].Key
	})
	return ranked
}
