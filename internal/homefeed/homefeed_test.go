package homefeed

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"back_stream/internal/datasync"
	"back_stream/internal/models"
)

func songs(n int) []models.Song {
	out := make([]models.Song, 0, n)
	for i := 1; i <= n; i++ {
		s := models.Song{
			FileID: int64(i),
			ImgID:  int64(i),
			Name:   "song " + strconv.Itoa(i),
			Artist: "artist",
			Views:  1000 - i,
		}
		s.ApplyView(false)
		out = append(out, s)
	}
	return out
}

func TestRender_LoadingWhenAllSectionsEmpty(t *testing.T) {
	feed := New()

	page := feed.Render(datasync.Snapshot{})
	assert.True(t, page.Loading)

	page = feed.Render(datasync.Snapshot{NotListened: songs(1)})
	assert.False(t, page.Loading, "one non-empty collection ends the loading state")
}

func TestRender_DefaultPageSize(t *testing.T) {
	feed := New()
	snap := datasync.Snapshot{
		Listened:    songs(25),
		NotListened: songs(8),
	}

	page := feed.Render(snap)

	assert.Len(t, page.Listened.Songs, 10)
	assert.Equal(t, 25, page.Listened.Total)
	assert.True(t, page.Listened.HasMore)

	assert.Len(t, page.NotListened.Songs, 8)
	assert.False(t, page.NotListened.HasMore)
}

func TestShowMore_GrowsSectionsIndependently(t *testing.T) {
	feed := New()
	snap := datasync.Snapshot{
		Listened:    songs(25),
		NotListened: songs(25),
	}

	feed.ShowMoreListened()
	page := feed.Render(snap)
	assert.Len(t, page.Listened.Songs, 20)
	assert.Len(t, page.NotListened.Songs, 10, "the other section keeps its own counter")

	feed.ShowMoreListened()
	page = feed.Render(snap)
	assert.Len(t, page.Listened.Songs, 25)
	assert.False(t, page.Listened.HasMore)
}

func TestShowMore_CounterDoesNotReset(t *testing.T) {
	feed := New()
	feed.ShowMoreListened()

	// Rendering a different snapshot must not shrink the section back.
	page := feed.Render(datasync.Snapshot{Listened: songs(30)})
	assert.Len(t, page.Listened.Songs, 20)
}

func TestRender_TrendingIsNeverPaginated(t *testing.T) {
	feed := New()
	page := feed.Render(datasync.Snapshot{Trending: songs(10), NotListened: songs(40)})
	assert.Len(t, page.Trending, 10)
}

func TestRender_CardFields(t *testing.T) {
	feed := New()
	s := models.Song{
		FileID:   3,
		ImgID:    30,
		Name:     "test song",
		Artist:   "tester",
		Language: "en",
		Tags:     "pop",
		Views:    1200,
		Likes:    34,
	}
	s.ApplyView(true)

	page := feed.Render(datasync.Snapshot{Trending: []models.Song{s}, LastPlayed: &s})

	card := page.Trending[0]
	assert.Equal(t, "3", card.ID)
	assert.Equal(t, models.ImageURL(30), card.Image)
	assert.Equal(t, "1.2K", card.ViewsLabel)
	assert.Equal(t, "34", card.LikesLabel)
	assert.True(t, card.IsLiked)

	if assert.NotNil(t, page.LastPlayed) {
		assert.Equal(t, "3", page.LastPlayed.ID)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1200, "1.2K"},
		{999_999, "1000K"},
		{1_000_000, "1M"},
		{3_400_000, "3.4M"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.n))
		})
	}
}
