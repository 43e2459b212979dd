package main

import (
	"errors"
	"time"

	"star-songs/backend/app/models"

	"gorm.io/gorm"
)

type seedSong struct {
	artist   string
	title    string
	released string
	url      string
	distance float64 // light-years to the song's subject star, 0 = unknown
}

// The demonstration catalog: songs about stars, with the distance to the
// star (or system) each one sings about where a canonical figure exists.
var seedSongs = []seedSong{
	{"David Bowie", "Starman", "1972-04-28", "https://en.wikipedia.org/wiki/Starman_(song)", 0},
	{"David Bowie", "Life on Mars?", "1971-12-17", "https://en.wikipedia.org/wiki/Life_on_Mars_(song)", 0},
	{"Elton John", "Rocket Man", "1972-04-17", "https://en.wikipedia.org/wiki/Rocket_Man_(song)", 0},
	{"Coldplay", "A Sky Full of Stars", "2014-05-02", "https://en.wikipedia.org/wiki/A_Sky_Full_of_Stars", 0},
	{"Muse", "Supermassive Black Hole", "2006-06-19", "https://en.wikipedia.org/wiki/Supermassive_Black_Hole_(song)", 26000},
	{"Creedence Clearwater Revival", "Bad Moon Rising", "1969-04-16", "https://en.wikipedia.org/wiki/Bad_Moon_Rising", 0},
	{"The Police", "Walking on the Moon", "1979-10-05", "https://en.wikipedia.org/wiki/Walking_on_the_Moon", 0},
	{"Frank Sinatra", "Fly Me to the Moon", "1964-06-01", "https://en.wikipedia.org/wiki/Fly_Me_to_the_Moon", 0},
	{"Oasis", "Champagne Supernova", "1996-05-13", "https://en.wikipedia.org/wiki/Champagne_Supernova", 0},
	{"Pink Floyd", "Shine On You Crazy Diamond", "1975-09-12", "https://en.wikipedia.org/wiki/Shine_On_You_Crazy_Diamond", 0},
	{"Radiohead", "Black Star", "1995-03-13", "https://en.wikipedia.org/wiki/The_Bends", 0},
	{"Soundgarden", "Black Hole Sun", "1994-05-18", "https://en.wikipedia.org/wiki/Black_Hole_Sun", 0},
	{"The Beatles", "Across the Universe", "1970-05-08", "https://en.wikipedia.org/wiki/Across_the_Universe", 0},
	{"Barnard's Lullaby Ensemble", "Six Light-Years Home", "2019-11-02", "", 5.96},
	{"Barnard's Lullaby Ensemble", "Proxima", "2021-03-19", "", 4.25},
	{"Vega Trail", "Summer Triangle", "2017-07-07", "", 25.0},
	{"Vega Trail", "Altair Crossing", "2018-08-15", "", 16.7},
	{"Sirius Chorus", "Dog Star Nights", "2015-01-30", "", 8.6},
}

// seedCatalog inserts the demonstration artists and songs, keyed by name and
// title so re-running it is a no-op. Returns the number of rows created.
func seedCatalog(gdb *gorm.DB) (int, int, error) {
	artistIDs := make(map[string]int)
	var artistsCreated, songsCreated int

	for _, s := range seedSongs {
		if _, ok := artistIDs[s.artist]; ok {
			continue
		}
		var a models.Artist
		err := gdb.Where("name = ?", s.artist).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a = models.Artist{Name: s.artist}
			if err := gdb.Create(&a).Error; err != nil {
				return artistsCreated, songsCreated, err
			}
			artistsCreated++
		} else if err != nil {
			return artistsCreated, songsCreated, err
		}
		artistIDs[s.artist] = a.ID
	}

	for _, s := range seedSongs {
		var count int64
		if err := gdb.Model(&models.Song{}).Where("title = ?", s.title).Count(&count).Error; err != nil {
			return artistsCreated, songsCreated, err
		}
		if count > 0 {
			continue
		}
		artistID := artistIDs[s.artist]
		song := models.Song{Title: s.title, ArtistID: &artistID}
		if s.released != "" {
			t, err := time.Parse("2006-01-02", s.released)
			if err != nil {
				return artistsCreated, songsCreated, err
			}
			song.ReleaseDate = &t
		}
		if s.url != "" {
			u := s.url
			song.URL = &u
		}
		if s.distance > 0 {
			d := s.distance
			song.Distance = &d
		}
		if err := gdb.Create(&song).Error; err != nil {
			return artistsCreated, songsCreated, err
		}
		songsCreated++
	}
	return artistsCreated, songsCreated, nil
}
