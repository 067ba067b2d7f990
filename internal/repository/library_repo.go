package repository

import (
	"errors"
	"log"

	"back_stream/internal/database"
	"back_stream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

// LibraryRepository covers the viewer-scoped collections: liked_songs,
// history, playlists and playlist_songs. Every write is constrained to
// rows owned by the given viewer.
type LibraryRepository interface {
	GetLikedSongIDs(userID string) ([]int64, error)
	AddLikedSong(userID string, fileID int64) error
	RemoveLikedSong(userID string, fileID int64) error

	GetHistorySongIDs(userID string) ([]int64, error)
	AccumulateHistoryMinutes(userID string, fileID int64, minutes float64) error

	GetPlaylists(userID string) ([]models.Playlist, error)
	CreatePlaylist(userID, name string) (*models.Playlist, error)
	DeletePlaylist(userID string, playlistID int64) error
	RenamePlaylist(userID string, playlistID int64, name string) error
	AddPlaylistSong(userID string, playlistID, fileID int64) error
	RemovePlaylistSong(userID string, playlistID, fileID int64) error
}

type libraryRepo struct {
	db *gorm.DB
}

func NewLibraryRepository() LibraryRepository {
	return &libraryRepo{db: database.DB}
}

func (r *libraryRepo) GetLikedSongIDs(userID string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.LikedSong{}).
		Where("user_id = ?", userID).
		Pluck("song_id", &ids).Error
	return ids, err
}

func (r *libraryRepo) AddLikedSong(userID string, fileID int64) error {
	return r.db.Create(&models.LikedSong{UserID: userID, SongID: fileID}).Error
}

func (r *libraryRepo) RemoveLikedSong(userID string, fileID int64) error {
	return r.db.Where("user_id = ? AND song_id = ?", userID, fileID).
		Delete(&models.LikedSong{}).Error
}

func (r *libraryRepo) GetHistorySongIDs(userID string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.HistoryEntry{}).
		Where("user_id = ?", userID).
		Pluck("song_id", &ids).Error
	return ids, err
}

// AccumulateHistoryMinutes adds minutes to the (viewer, song) history row,
// creating it when absent. This is the upsert_history_minutes procedure as
// a single atomic statement.
func (r *libraryRepo) AccumulateHistoryMinutes(userID string, fileID int64, minutes float64) error {
	entry := models.HistoryEntry{UserID: userID, SongID: fileID, Minutes: minutes}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "song_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"minutes": gorm.Expr("history.minutes + ?", minutes),
		}),
	}).Create(&entry).Error
}

func (r *libraryRepo) GetPlaylists(userID string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.db.Preload("Songs", func(db *gorm.DB) *gorm.DB {
		return db.Order("playlist_songs.created_at ASC")
	}).Preload("Songs.Song").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	log.Printf("[Repository GetPlaylists] Fetched %d playlists for user %s", len(playlists), userID)
	return playlists, nil
}

func (r *libraryRepo) CreatePlaylist(userID, name string) (*models.Playlist, error) {
	playlist := models.Playlist{UserID: userID, Name: name}
	if err := r.db.Create(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *libraryRepo) DeletePlaylist(userID string, playlistID int64) error {
	result := r.db.Where("id = ? AND user_id = ?", playlistID, userID).
		Delete(&models.Playlist{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (r *libraryRepo) RenamePlaylist(userID string, playlistID int64, name string) error {
	result := r.db.Model(&models.Playlist{}).
		Where("id = ? AND user_id = ?", playlistID, userID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddPlaylistSong is idempotent: a song already in the playlist is left as is.
func (r *libraryRepo) AddPlaylistSong(userID string, playlistID, fileID int64) error {
	if err := r.checkPlaylistOwner(userID, playlistID); err != nil {
		return err
	}
	row := models.PlaylistSong{PlaylistID: playlistID, SongID: fileID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *libraryRepo) RemovePlaylistSong(userID string, playlistID, fileID int64) error {
	if err := r.checkPlaylistOwner(userID, playlistID); err != nil {
		return err
	}
	return r.db.Where("playlist_id = ? AND song_id = ?", playlistID, fileID).
		Delete(&models.PlaylistSong{}).Error
}

// checkPlaylistOwner guards the join-table writes: song rows carry no
// user_id, so ownership is enforced against the parent playlist row.
func (r *libraryRepo) checkPlaylistOwner(userID string, playlistID int64) error {
	var count int64
	err := r.db.Model(&models.Playlist{}).
		Where("id = ? AND user_id = ?", playlistID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}
