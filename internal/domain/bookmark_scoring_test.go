package domain

import "testing"

func TestScoreBookmark(t *testing.T) {
	tests := []struct {
		name           string
		queryStr       string
		bookmarkName   string
		link           string
		expectPositive bool
	}{
		{
			name:           "exact match",
			queryStr:       "github",
			bookmarkName:   "GitHub",
			link:           "https://github.com",
			expectPositive: true,
		},
		{
			name:           "prefix match",
			queryStr:       "git",
			bookmarkName:   "GitHub",
			link:           "https://github.com",
			expectPositive: true,
		},
		{
			name:           "substring match",
			queryStr:       "hub",
			bookmarkName:   "GitHub",
			link:           "https://github.com",
			expectPositive: true,
		},
		{
			name:           "host fallback",
			queryStr:       "openai",
			bookmarkName:   "Chat",
			link:           "https://chat.openai.com/",
			expectPositive: true,
		},
		{
			name:           "no match",
			queryStr:       "xyz",
			bookmarkName:   "GitHub",
			link:           "https://github.com",
			expectPositive: false,
		},
		{
			name:           "multi-word match",
			queryStr:       "docker hub",
			bookmarkName:   "Docker Hub",
			link:           "https://hub.docker.com",
			expectPositive: true,
		},
		{
			name:           "empty query",
			queryStr:       "   ",
			bookmarkName:   "GitHub",
			link:           "https://github.com",
			expectPositive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookmark := &Bookmark{
				ID:   "test-id",
				Name: tt.bookmarkName,
				Link: tt.link,
			}

			score := ScoreBookmark(tt.queryStr, bookmark)

			if tt.expectPositive && score <= 0 {
				t.Errorf("Expected positive score, got %f", score)
			}

			if !tt.expectPositive && score > 0 {
				t.Errorf("Expected zero score, got %f", score)
			}
		})
	}
}

func TestRankBookmarkCandidates_Ordering(t *testing.T) {
	bookmarks := []*Bookmark{
		{ID: "substring", Name: "My GitHub", Link: "https://github.com/me"},
		{ID: "exact", Name: "GitHub", Link: "https://github.com"},
		{ID: "none", Name: "Jellyfin", Link: "https://jellyfin.org"},
		{ID: "prefix", Name: "GitHub Issues", Link: "https://github.com/issues"},
	}

	candidates := RankBookmarkCandidates("github", bookmarks)

	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}

	want := []string{"exact", "prefix", "substring"}
	for i, id := range want {
		if candidates[i].Bookmark.ID != id {
			t.Errorf("candidate %d = %s, want %s", i, candidates[i].Bookmark.ID, id)
		}
	}
}

func TestRankBookmarkCandidates_ClicksBreakTies(t *testing.T) {
	bookmarks := []*Bookmark{
		{ID: "cold", Name: "Docs", Link: "https://a.example.com"},
		{ID: "hot", Name: "Docs", Link: "https://b.example.com", ClickCount: 42},
	}

	candidates := RankBookmarkCandidates("docs", bookmarks)
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Bookmark.ID != "hot" {
		t.Errorf("Expected most clicked bookmark first, got %s", candidates[0].Bookmark.ID)
	}
}
