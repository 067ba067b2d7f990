package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageURL(t *testing.T) {
	assert.Equal(t,
		"https://images.pexels.com/photos/2546/pexels-photo-2546.jpeg?auto=compress&cs=tinysrgb&w=300",
		ImageURL(2546))
}

func TestFallbackImageURL(t *testing.T) {
	assert.Equal(t,
		"https://images.pexels.com/photos/1763075/pexels-photo-1763075.jpeg?auto=compress&cs=tinysrgb&w=300",
		FallbackImageURL())
}

func TestSong_ApplyView(t *testing.T) {
	s := Song{FileID: 42, ImgID: 7}
	s.ApplyView(true)

	assert.Equal(t, "42", s.ID)
	assert.Equal(t, ImageURL(7), s.Image)
	assert.True(t, s.IsLiked)
}

func TestSong_Score(t *testing.T) {
	s := Song{Views: 10, Likes: 3}
	assert.Equal(t, 13, s.Score())
}

func TestPlaylistView_RecomputeDerived(t *testing.T) {
	a := Song{FileID: 1, ImgID: 100}
	a.ApplyView(false)
	b := Song{FileID: 2, ImgID: 200}
	b.ApplyView(false)

	view := PlaylistView{ID: "1", Name: "mix", Songs: []Song{a, b}}
	view.RecomputeDerived()
	assert.Equal(t, 2, view.SongCount)
	assert.Equal(t, ImageURL(100), view.Image)

	view.Songs = view.Songs[1:]
	view.RecomputeDerived()
	assert.Equal(t, ImageURL(200), view.Image)

	view.Songs = nil
	view.RecomputeDerived()
	assert.Equal(t, 0, view.SongCount)
	assert.Equal(t, FallbackImageURL(), view.Image)
}
