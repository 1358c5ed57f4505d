package commands

import (
	"context"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/wardenlabs/warden/internal/platform"
)

// memberMatch is one fuzzy member-search result.
type memberMatch struct {
	member    platform.Member
	certainty float64
}

type memberSearchOptions struct {
	maxResults   int
	minCertainty float64
}

// findMembers ranks the guild's members by similarity between the search
// term and their username, display name, and tag.
func findMembers(ctx context.Context, dir platform.Directory, guildID, term string, opts memberSearchOptions) ([]memberMatch, error) {
	members, err := dir.Members(ctx, guildID)
	if err != nil {
		return nil, err
	}

	metric := metrics.NewSorensenDice()
	needle := strings.ToLower(term)

	matches := make([]memberMatch, 0, len(members))
	for _, m := range members {
		certainty := 0.0
		for _, candidate := range []string{m.Username, m.DisplayName, m.Tag} {
			if candidate == "" {
				continue
			}
			if s := strutil.Similarity(needle, strings.ToLower(candidate), metric); s > certainty {
				certainty = s
			}
		}
		if certainty >= opts.minCertainty {
			matches = append(matches, memberMatch{member: m, certainty: certainty})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].certainty > matches[j].certainty
	})
	if opts.maxResults > 0 && len(matches) > opts.maxResults {
		matches = matches[:opts.maxResults]
	}
	return matches, nil
}

// bestMember returns the single closest member above minCertainty.
func bestMember(ctx context.Context, dir platform.Directory, guildID, term string, minCertainty float64) (*platform.Member, error) {
	matches, err := findMembers(ctx, dir, guildID, term, memberSearchOptions{
		maxResults:   1,
		minCertainty: minCertainty,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0].member, nil
}
