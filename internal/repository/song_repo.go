package repository

import (
	"errors"
	"log"

	"back_stream/internal/database"
	"back_stream/internal/models"
	"gorm.io/gorm"
)

var ErrSongNotFound = errors.New("song not found")

type SongRepository interface {
	GetAllSongsByViews() ([]models.Song, error)
	GetSongByFileID(fileID int64) (*models.Song, error)
	IncrementViews(fileID int64) error
	IncrementLikes(fileID int64) error
	DecrementLikes(fileID int64) error
}

type songRepo struct {
	db *gorm.DB
}

func NewSongRepository() SongRepository {
	return &songRepo{db: database.DB}
}

func (r *songRepo) GetAllSongsByViews() ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Order("views DESC").Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	log.Printf("[Repository GetAllSongsByViews] Total songs fetched: %d", len(songs))
	return songs, nil
}

func (r *songRepo) GetSongByFileID(fileID int64) (*models.Song, error) {
	var song models.Song
	err := r.db.First(&song, "file_id = ?", fileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return &song, nil
}

// The three counter procedures below replace the remote increment/decrement
// RPCs: single atomic column updates, never read-modify-write.

func (r *songRepo) IncrementViews(fileID int64) error {
	return r.counterUpdate(fileID, "views", 1)
}

func (r *songRepo) IncrementLikes(fileID int64) error {
	return r.counterUpdate(fileID, "likes", 1)
}

func (r *songRepo) DecrementLikes(fileID int64) error {
	return r.counterUpdate(fileID, "likes", -1)
}

func (r *songRepo) counterUpdate(fileID int64, column string, delta int) error {
	result := r.db.Model(&models.Song{}).
		Where("file_id = ?", fileID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSongNotFound
	}
	return nil
}
