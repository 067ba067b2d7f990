package models

import (
	"fmt"
	"strconv"
)

const (
	imageURLTemplate = "https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=300"

	// Cover used whenever no real image can be derived.
	fallbackImgID = 1763075
)

// ImageURL builds the hosted image URL for an image id.
func ImageURL(imgID int64) string {
	return fmt.Sprintf(imageURLTemplate, imgID, imgID)
}

// FallbackImageURL is used for empty playlists and songs without an image.
func FallbackImageURL() string {
	return ImageURL(fallbackImgID)
}

// Song is a catalog entry. The persisted columns mirror the songs table;
// ID, Image and IsLiked are per-viewer projections filled by ApplyView.
type Song struct {
	FileID   int64  `gorm:"column:file_id;primaryKey" json:"file_id"`
	ImgID    int64  `gorm:"column:img_id" json:"img_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Artist   string `gorm:"type:varchar(255);not null" json:"artist"`
	Language string `gorm:"type:varchar(100)" json:"language"`
	Tags     string `gorm:"type:varchar(255)" json:"tags"`
	Views    int    `gorm:"default:0" json:"views"`
	Likes    int    `gorm:"default:0" json:"likes"`

	ID      string `gorm:"-" json:"id"`
	Image   string `gorm:"-" json:"image"`
	IsLiked bool   `gorm:"-" json:"is_liked"`
}

// ApplyView fills the UI projection fields for the given viewer's like state.
func (s *Song) ApplyView(liked bool) {
	s.ID = strconv.FormatInt(s.FileID, 10)
	s.Image = ImageURL(s.ImgID)
	s.IsLiked = liked
}

// Score is the popularity score used for trending and feed ordering.
func (s *Song) Score() int {
	return s.Views + s.Likes
}
