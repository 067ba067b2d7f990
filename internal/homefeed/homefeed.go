package homefeed

import (
	"sync"

	"back_stream/internal/datasync"
	"back_stream/internal/models"
)

const pageSize = 10

// Feed renders a library snapshot into the sectioned home page. It owns
// nothing but the two pagination counters; all data comes from the
// snapshot and all mutations happen elsewhere.
type Feed struct {
	mu                   sync.Mutex
	displayedListened    int
	displayedNotListened int
}

func New() *Feed {
	return &Feed{
		displayedListened:    pageSize,
		displayedNotListened: pageSize,
	}
}

// ShowMoreListened grows the recently-listened section by one page. The
// counter never resets on its own.
func (f *Feed) ShowMoreListened() {
	f.mu.Lock()
	f.displayedListened += pageSize
	f.mu.Unlock()
}

// ShowMoreNotListened grows the discovery section by one page.
func (f *Feed) ShowMoreNotListened() {
	f.mu.Lock()
	f.displayedNotListened += pageSize
	f.mu.Unlock()
}

// Page is the rendered home feed.
type Page struct {
	Loading     bool       `json:"loading"`
	Trending    []SongCard `json:"trending"`
	Listened    Section    `json:"listened"`
	NotListened Section    `json:"not_listened"`
	LastPlayed  *SongCard  `json:"last_played,omitempty"`
}

// Section is a paginated song list.
type Section struct {
	Songs   []SongCard `json:"songs"`
	Total   int        `json:"total"`
	HasMore bool       `json:"has_more"`
}

// SongCard is the per-song view model with formatted counters.
type SongCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Language   string `json:"language"`
	Tags       string `json:"tags"`
	Image      string `json:"image"`
	Views      int    `json:"views"`
	Likes      int    `json:"likes"`
	ViewsLabel string `json:"views_label"`
	LikesLabel string `json:"likes_label"`
	IsLiked    bool   `json:"is_liked"`
}

// Render builds the page for the given snapshot. The page is in its
// loading state while all three song collections are simultaneously empty.
func (f *Feed) Render(snap datasync.Snapshot) Page {
	f.mu.Lock()
	listenedLimit := f.displayedListened
	notListenedLimit := f.displayedNotListened
	f.mu.Unlock()

	page := Page{
		Trending:    cards(snap.Trending),
		Listened:    section(snap.Listened, listenedLimit),
		NotListened: section(snap.NotListened, notListenedLimit),
	}
	if len(snap.Trending) == 0 && len(snap.Listened) == 0 && len(snap.NotListened) == 0 {
		page.Loading = true
	}
	if snap.LastPlayed != nil {
		card := newCard(*snap.LastPlayed)
		page.LastPlayed = &card
	}
	return page
}

func section(songs []models.Song, limit int) Section {
	shown := songs
	if len(shown) > limit {
		shown = shown[:limit]
	}
	return Section{
		Songs:   cards(shown),
		Total:   len(songs),
		HasMore: len(songs) > limit,
	}
}

func cards(songs []models.Song) []SongCard {
	out := make([]SongCard, 0, len(songs))
	for _, s := range songs {
		out = append(out, newCard(s))
	}
	return out
}

func newCard(s models.Song) SongCard {
	return SongCard{
		ID:         s.ID,
		Name:       s.Name,
		Artist:     s.Artist,
		Language:   s.Language,
		Tags:       s.Tags,
		Image:      s.Image,
		Views:      s.Views,
		Likes:      s.Likes,
		ViewsLabel: FormatCount(s.Views),
		LikesLabel: FormatCount(s.Likes),
		IsLiked:    s.IsLiked,
	}
}
