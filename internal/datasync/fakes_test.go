package datasync

import (
	"errors"
	"sort"
	"sync"

	"back_stream/internal/models"
	"back_stream/internal/repository"
)

var errRemote = errors.New("remote unavailable")

type accumulateCall struct {
	userID  string
	songID  int64
	minutes float64
}

// fakeStore implements the three repository interfaces in memory so the
// library can be exercised without a database.
type fakeStore struct {
	mu sync.Mutex

	songs     []models.Song
	liked     map[string]map[int64]bool
	history   map[string]map[int64]float64
	playlists []*models.Playlist
	lastSong  map[string]*int64
	nextID    int64

	failSongs     bool
	failLiked     bool
	failHistory   bool
	failPlaylists bool
	failAddLiked  bool
	failAccum     bool
	failViews     bool

	accumulated    []accumulateCall
	viewIncrements []int64
}

func newFakeStore(songs ...models.Song) *fakeStore {
	return &fakeStore{
		songs:    songs,
		liked:    make(map[string]map[int64]bool),
		history:  make(map[string]map[int64]float64),
		lastSong: make(map[string]*int64),
		nextID:   1,
	}
}

func (f *fakeStore) markListened(userID string, songIDs ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.history[userID] == nil {
		f.history[userID] = make(map[int64]float64)
	}
	for _, id := range songIDs {
		f.history[userID][id] += 1
	}
}

func (f *fakeStore) markLiked(userID string, songIDs ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.liked[userID] == nil {
		f.liked[userID] = make(map[int64]bool)
	}
	for _, id := range songIDs {
		f.liked[userID][id] = true
	}
}

// ---- SongRepository ----

func (f *fakeStore) GetAllSongsByViews() ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSongs {
		return nil, errRemote
	}
	out := append([]models.Song(nil), f.songs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Views > out[j].Views
	})
	return out, nil
}

func (f *fakeStore) GetSongByFileID(fileID int64) (*models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.songs {
		if f.songs[i].FileID == fileID {
			song := f.songs[i]
			return &song, nil
		}
	}
	return nil, repository.ErrSongNotFound
}

func (f *fakeStore) IncrementViews(fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failViews {
		return errRemote
	}
	f.viewIncrements = append(f.viewIncrements, fileID)
	for i := range f.songs {
		if f.songs[i].FileID == fileID {
			f.songs[i].Views++
			return nil
		}
	}
	return repository.ErrSongNotFound
}

func (f *fakeStore) IncrementLikes(fileID int64) error {
	return f.bumpLikes(fileID, 1)
}

func (f *fakeStore) DecrementLikes(fileID int64) error {
	return f.bumpLikes(fileID, -1)
}

func (f *fakeStore) bumpLikes(fileID int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.songs {
		if f.songs[i].FileID == fileID {
			f.songs[i].Likes += delta
			return nil
		}
	}
	return repository.ErrSongNotFound
}

// ---- UserRepository ----

func (f *fakeStore) CreateUser(user *models.User) error { return nil }

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) { return nil, nil }

func (f *fakeStore) FindUserByID(id string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) UpdateLastSong(userID string, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fileID
	f.lastSong[userID] = &id
	return nil
}

func (f *fakeStore) GetLastSongID(userID string) (*int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSong[userID], nil
}

func (f *fakeStore) HashPassword(password string) (string, error) { return password, nil }

func (f *fakeStore) VerifyPassword(hashedPassword, password string) error { return nil }

// ---- LibraryRepository ----

func (f *fakeStore) GetLikedSongIDs(userID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLiked {
		return nil, errRemote
	}
	var ids []int64
	for id := range f.liked[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) AddLikedSong(userID string, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAddLiked {
		return errRemote
	}
	if f.liked[userID] == nil {
		f.liked[userID] = make(map[int64]bool)
	}
	f.liked[userID][fileID] = true
	return nil
}

func (f *fakeStore) RemoveLikedSong(userID string, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.liked[userID], fileID)
	return nil
}

func (f *fakeStore) GetHistorySongIDs(userID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHistory {
		return nil, errRemote
	}
	var ids []int64
	for id := range f.history[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) AccumulateHistoryMinutes(userID string, fileID int64, minutes float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAccum {
		return errRemote
	}
	if f.history[userID] == nil {
		f.history[userID] = make(map[int64]float64)
	}
	f.history[userID][fileID] += minutes
	f.accumulated = append(f.accumulated, accumulateCall{userID: userID, songID: fileID, minutes: minutes})
	return nil
}

func (f *fakeStore) GetPlaylists(userID string) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPlaylists {
		return nil, errRemote
	}
	var out []models.Playlist
	for _, p := range f.playlists {
		if p.UserID != userID {
			continue
		}
		row := *p
		row.Songs = append([]models.PlaylistSong(nil), p.Songs...)
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeStore) CreatePlaylist(userID, name string) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	playlist := &models.Playlist{ID: f.nextID, UserID: userID, Name: name}
	f.nextID++
	f.playlists = append(f.playlists, playlist)
	row := *playlist
	return &row, nil
}

func (f *fakeStore) DeletePlaylist(userID string, playlistID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.playlists {
		if p.ID == playlistID && p.UserID == userID {
			f.playlists = append(f.playlists[:i], f.playlists[i+1:]...)
			return nil
		}
	}
	return repository.ErrPlaylistNotFound
}

func (f *fakeStore) RenamePlaylist(userID string, playlistID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.playlists {
		if p.ID == playlistID && p.UserID == userID {
			p.Name = name
			return nil
		}
	}
	return repository.ErrPlaylistNotFound
}

func (f *fakeStore) AddPlaylistSong(userID string, playlistID, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.ownedPlaylistLocked(userID, playlistID)
	if p == nil {
		return repository.ErrPlaylistNotFound
	}
	for _, ps := range p.Songs {
		if ps.SongID == fileID {
			return nil
		}
	}
	var song models.Song
	for i := range f.songs {
		if f.songs[i].FileID == fileID {
			song = f.songs[i]
		}
	}
	p.Songs = append(p.Songs, models.PlaylistSong{PlaylistID: playlistID, SongID: fileID, Song: song})
	return nil
}

func (f *fakeStore) RemovePlaylistSong(userID string, playlistID, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.ownedPlaylistLocked(userID, playlistID)
	if p == nil {
		return repository.ErrPlaylistNotFound
	}
	for i, ps := range p.Songs {
		if ps.SongID == fileID {
			p.Songs = append(p.Songs[:i], p.Songs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) ownedPlaylistLocked(userID string, playlistID int64) *models.Playlist {
	for _, p := range f.playlists {
		if p.ID == playlistID && p.UserID == userID {
			return p
		}
	}
	return nil
}
