package domain

import (
	"net/url"
	"sort"
	"strings"
)

// Scoring weights
const (
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier substring hits are better)
	ScorePositionBonus = 10.0

	// ScoreHostMatch is granted when the query hits the link's host only.
	ScoreHostMatch = 40.0

	// ScoreClickWeight lets frequently used bookmarks win ties.
	ScoreClickWeight = 0.01
)

// BookmarkCandidate represents a bookmark candidate with its match score
type BookmarkCandidate struct {
	Bookmark *Bookmark `json:"bookmark"`
	Score    float64   `json:"score"`
}

// ScoreBookmark calculates the match score for a bookmark against a query string.
// The name is scored first; the link host is only a fallback.
func ScoreBookmark(queryStr string, bookmark *Bookmark) float64 {
	if bookmark == nil {
		return 0.0
	}
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	if queryStr == "" {
		return 0.0
	}

	score := scoreName(queryStr, strings.ToLower(bookmark.Name))
	if score == 0.0 {
		if host := linkHost(bookmark.Link); host != "" && strings.Contains(host, queryStr) {
			score = ScoreHostMatch
		}
	}
	if score == 0.0 {
		return 0.0
	}
	return score + float64(bookmark.ClickCount)*ScoreClickWeight
}

func scoreName(queryStr, name string) float64 {
	if name == "" {
		return 0.0
	}

	if queryStr == name {
		return ScoreExactMatch
	}

	if strings.HasPrefix(name, queryStr) {
		return ScorePrefixMatch
	}

	if index := strings.Index(name, queryStr); index >= 0 {
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(name)))
		return ScoreSubstringMatch + substringBonus
	}

	// Word-based: every query word appears somewhere in the name
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(name, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	similarity := calculateSimilarity(queryStr, name)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity is the ratio of query characters present in s2.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}
	matches := 0
	total := 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}
	return float64(matches) / float64(total)
}

func linkHost(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// RankBookmarkCandidates ranks bookmark candidates by score, best first.
// Bookmarks that do not match at all are dropped.
func RankBookmarkCandidates(queryStr string, bookmarks []*Bookmark) []*BookmarkCandidate {
	candidates := make([]*BookmarkCandidate, 0, len(bookmarks))

	for _, bookmark := range bookmarks {
		score := ScoreBookmark(queryStr, bookmark)
		if score == 0.0 {
			continue
		}
		candidates = append(candidates, &BookmarkCandidate{
			Bookmark: bookmark,
			Score:    score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
