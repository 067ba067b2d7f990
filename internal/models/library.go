package models

import (
	"strconv"
	"time"
)

// LikedSong joins a viewer to a song they have liked.
type LikedSong struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	SongID    int64     `gorm:"primaryKey" json:"song_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (LikedSong) TableName() string {
	return "liked_songs"
}

// HistoryEntry accumulates listening minutes per viewer and song.
type HistoryEntry struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	SongID    int64     `gorm:"primaryKey" json:"song_id"`
	Minutes   float64   `gorm:"default:0" json:"minutes"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HistoryEntry) TableName() string {
	return "history"
}

type Playlist struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Songs     []PlaylistSong `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"songs,omitempty"`
}

// PlaylistSong joins a playlist to a song, preserving insertion order by
// CreatedAt. Song is preloaded for the nested playlist fetch.
type PlaylistSong struct {
	PlaylistID int64     `gorm:"primaryKey" json:"playlist_id"`
	SongID     int64     `gorm:"primaryKey" json:"song_id"`
	CreatedAt  time.Time `json:"created_at"`
	Song       Song      `gorm:"foreignKey:SongID;references:FileID" json:"song"`
}

func (PlaylistSong) TableName() string {
	return "playlist_songs"
}

// PlaylistView is the UI projection of a playlist: embedded song copies,
// derived count and derived cover image.
type PlaylistView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"song_count"`
	Image     string `json:"image"`
	Songs     []Song `json:"songs"`
}

// RecomputeDerived refreshes SongCount and the cover image after any
// change to Songs. The cover is the first song's image or the fallback.
func (p *PlaylistView) RecomputeDerived() {
	p.SongCount = len(p.Songs)
	if len(p.Songs) > 0 {
		p.Image = p.Songs[0].Image
	} else {
		p.Image = FallbackImageURL()
	}
}

// NewPlaylistView projects a playlist row into its UI shape.
func NewPlaylistView(row *Playlist, songs []Song) *PlaylistView {
	v := &PlaylistView{
		ID:    strconv.FormatInt(row.ID, 10),
		Name:  row.Name,
		Songs: songs,
	}
	v.RecomputeDerived()
	return v
}
