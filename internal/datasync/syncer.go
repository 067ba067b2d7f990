package datasync

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"back_stream/internal/models"
	"back_stream/internal/repository"
)

const trendingSize = 10

// Library is the single source of truth for one viewer's remote-backed
// state: the catalog with its trending/listened/not-listened partitions,
// the viewer's playlists, liked-set and listening session. All remote reads
// and writes go through it; callers only read snapshots and forward intents.
//
// The catalog and its partitions share *Song pointers, so a counter patch
// on the canonical song is visible in every section. Playlist rows hold
// embedded copies and are patched in the same critical section.
type Library struct {
	userID  string
	songs   repository.SongRepository
	users   repository.UserRepository
	library repository.LibraryRepository

	now      func() time.Time
	loadOnce sync.Once

	mu          sync.Mutex
	catalog     []*models.Song
	trending    []*models.Song
	listened    []*models.Song
	notListened []*models.Song
	playlists   []*models.PlaylistView
	likedSet    map[int64]bool
	lastPlayed  *models.Song
	loading     bool
	session     *ListeningSession

	songLocks keyedMutex
}

func NewLibrary(
	userID string,
	songs repository.SongRepository,
	users repository.UserRepository,
	library repository.LibraryRepository,
) *Library {
	return &Library{
		userID:   userID,
		songs:    songs,
		users:    users,
		library:  library,
		now:      time.Now,
		likedSet: make(map[int64]bool),
	}
}

// Snapshot is a consistent copy of the library state, safe to render
// without holding any lock.
type Snapshot struct {
	Songs       []models.Song         `json:"songs"`
	Trending    []models.Song         `json:"trending"`
	Listened    []models.Song         `json:"listened"`
	NotListened []models.Song         `json:"not_listened"`
	Playlists   []models.PlaylistView `json:"playlists"`
	LastPlayed  *models.Song          `json:"last_played,omitempty"`
	Loading     bool                  `json:"loading"`
}

func (l *Library) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		Songs:       copySongs(l.catalog),
		Trending:    copySongs(l.trending),
		Listened:    copySongs(l.listened),
		NotListened: copySongs(l.notListened),
		Playlists:   make([]models.PlaylistView, 0, len(l.playlists)),
		Loading:     l.loading,
	}
	for _, p := range l.playlists {
		view := *p
		view.Songs = append([]models.Song(nil), p.Songs...)
		snap.Playlists = append(snap.Playlists, view)
	}
	if l.lastPlayed != nil {
		last := *l.lastPlayed
		snap.LastPlayed = &last
	}
	return snap
}

func copySongs(songs []*models.Song) []models.Song {
	out := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		out = append(out, *s)
	}
	return out
}

// EnsureLoaded runs the initial load exactly once per library.
func (l *Library) EnsureLoaded() {
	l.loadOnce.Do(l.LoadAll)
}

// LoadAll fetches the catalog and the playlists concurrently. Failure of
// one load does not cancel the other; loading only clears once both are done.
func (l *Library) LoadAll() {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := l.LoadCatalog(); err != nil {
			log.Printf("[Library] catalog load failed for user %s: %v", l.userID, err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := l.LoadPlaylists(); err != nil {
			log.Printf("[Library] playlist load failed for user %s: %v", l.userID, err)
		}
	}()
	wg.Wait()

	l.mu.Lock()
	l.loading = false
	l.mu.Unlock()
}

// LoadCatalog fetches all songs plus the viewer's liked and history ids,
// sorts by popularity score (views+likes, stable on the views-descending
// fetch order) and partitions into trending, listened and not-listened.
// Any failure of the three collection fetches resets the catalog to empty.
func (l *Library) LoadCatalog() error {
	rows, err := l.songs.GetAllSongsByViews()
	if err != nil {
		l.resetCatalog()
		return fmt.Errorf("fetch songs: %w", err)
	}

	likedIDs, err := l.library.GetLikedSongIDs(l.userID)
	if err != nil {
		l.resetCatalog()
		return fmt.Errorf("fetch liked songs: %w", err)
	}
	liked := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	historyIDs, err := l.library.GetHistorySongIDs(l.userID)
	if err != nil {
		l.resetCatalog()
		return fmt.Errorf("fetch history: %w", err)
	}
	history := make(map[int64]bool, len(historyIDs))
	for _, id := range historyIDs {
		history[id] = true
	}

	catalog := make([]*models.Song, 0, len(rows))
	for i := range rows {
		song := rows[i]
		song.ApplyView(liked[song.FileID])
		catalog = append(catalog, &song)
	}

	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Score() > catalog[j].Score()
	})

	trending := catalog
	if len(trending) > trendingSize {
		trending = trending[:trendingSize]
	}

	var listened, notListened []*models.Song
	for _, song := range catalog {
		if history[song.FileID] {
			listened = append(listened, song)
		} else {
			notListened = append(notListened, song)
		}
	}

	// Missing or unreadable profile row is not a failed load.
	var lastPlayed *models.Song
	lastID, err := l.users.GetLastSongID(l.userID)
	if err != nil {
		log.Printf("[Library] last played lookup failed for user %s: %v", l.userID, err)
	} else if lastID != nil {
		for _, song := range catalog {
			if song.FileID == *lastID {
				lastPlayed = song
				break
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog = catalog
	l.trending = trending
	l.listened = listened
	l.notListened = notListened
	l.likedSet = liked
	l.lastPlayed = lastPlayed
	return nil
}

// resetCatalog clears all catalog state to a consistent empty snapshot.
func (l *Library) resetCatalog() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog = nil
	l.trending = nil
	l.listened = nil
	l.notListened = nil
	l.likedSet = make(map[int64]bool)
	l.lastPlayed = nil
}

// LoadPlaylists fetches the viewer's playlists with nested song rows and
// projects them using the current liked-set. On failure the prior playlist
// state is left untouched.
func (l *Library) LoadPlaylists() error {
	rows, err := l.library.GetPlaylists(l.userID)
	if err != nil {
		return fmt.Errorf("fetch playlists: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	playlists := make([]*models.PlaylistView, 0, len(rows))
	for i := range rows {
		row := rows[i]
		songs := make([]models.Song, 0, len(row.Songs))
		for _, ps := range row.Songs {
			song := ps.Song
			song.ApplyView(l.likedSet[song.FileID])
			songs = append(songs, song)
		}
		playlists = append(playlists, models.NewPlaylistView(&row, songs))
	}
	l.playlists = playlists
	return nil
}

// ToggleLike flips the viewer's like on a song. The join-table write goes
// first and aborts the toggle on failure; the counter procedure failure is
// logged only. On success the liked-set, the canonical song and every
// playlist-embedded copy are patched together.
func (l *Library) ToggleLike(songID string) error {
	fileID, err := parseSongID(songID)
	if err != nil {
		return err
	}

	unlock := l.songLocks.lock(fileID)
	defer unlock()

	l.mu.Lock()
	wasLiked := l.likedSet[fileID]
	l.mu.Unlock()

	if wasLiked {
		if err := l.library.RemoveLikedSong(l.userID, fileID); err != nil {
			return fmt.Errorf("remove liked song: %w", err)
		}
		if err := l.songs.DecrementLikes(fileID); err != nil {
			log.Printf("[Library] decrement likes failed for song %d: %v", fileID, err)
		}
	} else {
		if err := l.library.AddLikedSong(l.userID, fileID); err != nil {
			return fmt.Errorf("add liked song: %w", err)
		}
		if err := l.songs.IncrementLikes(fileID); err != nil {
			log.Printf("[Library] increment likes failed for song %d: %v", fileID, err)
		}
	}

	delta := 1
	if wasLiked {
		delta = -1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if wasLiked {
		delete(l.likedSet, fileID)
	} else {
		l.likedSet[fileID] = true
	}
	for _, song := range l.catalog {
		if song.FileID == fileID {
			song.IsLiked = !wasLiked
			song.Likes += delta
			break
		}
	}
	for _, playlist := range l.playlists {
		for i := range playlist.Songs {
			if playlist.Songs[i].FileID == fileID {
				playlist.Songs[i].IsLiked = !wasLiked
				playlist.Songs[i].Likes += delta
			}
		}
	}
	return nil
}

// CreatePlaylist creates an empty playlist for the viewer.
func (l *Library) CreatePlaylist(name string) (models.PlaylistView, error) {
	row, err := l.library.CreatePlaylist(l.userID, name)
	if err != nil {
		return models.PlaylistView{}, fmt.Errorf("create playlist: %w", err)
	}

	view := models.NewPlaylistView(row, nil)

	l.mu.Lock()
	l.playlists = append(l.playlists, view)
	l.mu.Unlock()
	return *view, nil
}

func (l *Library) DeletePlaylist(playlistID string) error {
	id, err := parsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	if err := l.library.DeletePlaylist(l.userID, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.playlists[:0]
	for _, p := range l.playlists {
		if p.ID != playlistID {
			kept = append(kept, p)
		}
	}
	l.playlists = kept
	return nil
}

func (l *Library) RenamePlaylist(playlistID, name string) error {
	id, err := parsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	if err := l.library.RenamePlaylist(l.userID, id, name); err != nil {
		return fmt.Errorf("rename playlist: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.playlists {
		if p.ID == playlistID {
			p.Name = name
		}
	}
	return nil
}

// AddSongToPlaylist adds a catalog song to one of the viewer's playlists.
// Adding a song that is already in the playlist changes nothing, locally
// and remotely.
func (l *Library) AddSongToPlaylist(playlistID, songID string) error {
	id, err := parsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	fileID, err := parseSongID(songID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	song, ok := l.findSongLocked(fileID)
	liked := l.likedSet[fileID]
	l.mu.Unlock()
	if !ok {
		// Not in the loaded catalog; fall back to a remote lookup.
		row, err := l.songs.GetSongByFileID(fileID)
		if err != nil {
			return err
		}
		song = *row
		song.ApplyView(liked)
	}

	if err := l.library.AddPlaylistSong(l.userID, id, fileID); err != nil {
		return fmt.Errorf("add playlist song: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.playlists {
		if p.ID != playlistID {
			continue
		}
		exists := false
		for i := range p.Songs {
			if p.Songs[i].FileID == fileID {
				exists = true
				break
			}
		}
		if !exists {
			p.Songs = append(p.Songs, song)
			p.RecomputeDerived()
		}
	}
	return nil
}

// RemoveSongFromPlaylist removes a song and recomputes the derived cover
// from the new first song, or the fallback when the playlist is empty.
func (l *Library) RemoveSongFromPlaylist(playlistID, songID string) error {
	id, err := parsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	fileID, err := parseSongID(songID)
	if err != nil {
		return err
	}

	if err := l.library.RemovePlaylistSong(l.userID, id, fileID); err != nil {
		return fmt.Errorf("remove playlist song: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.playlists {
		if p.ID != playlistID {
			continue
		}
		kept := p.Songs[:0]
		for _, s := range p.Songs {
			if s.FileID != fileID {
				kept = append(kept, s)
			}
		}
		p.Songs = kept
		p.RecomputeDerived()
	}
	return nil
}

// RecordListeningStart begins tracking playback of a song. The previous
// session is flushed first, a first play moves the song into the listened
// partition, the last-played song is persisted on the profile and the view
// counter is incremented. View-increment failure never blocks playback.
func (l *Library) RecordListeningStart(songID string) error {
	fileID, err := parseSongID(songID)
	if err != nil {
		return err
	}

	l.flushSession()

	l.mu.Lock()
	l.session = &ListeningSession{SongID: fileID, StartedAt: l.now()}
	for i, song := range l.notListened {
		if song.FileID == fileID {
			l.listened = append(l.listened, song)
			l.notListened = append(l.notListened[:i], l.notListened[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	if err := l.users.UpdateLastSong(l.userID, fileID); err != nil {
		log.Printf("[Library] update last song failed for user %s: %v", l.userID, err)
	}
	if err := l.songs.IncrementViews(fileID); err != nil {
		log.Printf("[Library] increment views failed for song %d: %v", fileID, err)
	}
	return nil
}

// StopTracking flushes the current session and clears it. Called when
// playback is torn down entirely, not on song switches.
func (l *Library) StopTracking() {
	l.flushSession()
}

// flushSession records the elapsed minutes of the in-progress session, if
// any, and clears it. Elapsed time at or under the noise floor is discarded
// silently; the recorded value is rounded to two decimals.
func (l *Library) flushSession() {
	l.mu.Lock()
	session := l.session
	l.session = nil
	l.mu.Unlock()

	if session == nil {
		return
	}

	elapsed := session.ElapsedMinutes(l.now())
	if elapsed <= minFlushMinutes {
		return
	}

	minutes := roundMinutes(elapsed)
	if err := l.library.AccumulateHistoryMinutes(l.userID, session.SongID, minutes); err != nil {
		log.Printf("[Library] failed to record %.2f min for song %d: %v", minutes, session.SongID, err)
		return
	}
	log.Printf("[Library] history updated: +%.2f min for song %d", minutes, session.SongID)
}

// findSongLocked looks up the canonical catalog song. Caller holds l.mu.
func (l *Library) findSongLocked(fileID int64) (models.Song, bool) {
	for _, song := range l.catalog {
		if song.FileID == fileID {
			return *song, true
		}
	}
	return models.Song{}, false
}

// AnonymousTrending ranks catalog rows for a signed-out viewer: same
// projection and popularity order as a library snapshot, but with no like
// state to apply.
func AnonymousTrending(rows []models.Song) []models.Song {
	out := append([]models.Song(nil), rows...)
	for i := range out {
		out[i].ApplyView(false)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	if len(out) > trendingSize {
		out = out[:trendingSize]
	}
	return out
}

func parseSongID(id string) (int64, error) {
	fileID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid song id %q", id)
	}
	return fileID, nil
}

func parsePlaylistID(id string) (int64, error) {
	playlistID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid playlist id %q", id)
	}
	return playlistID, nil
}
