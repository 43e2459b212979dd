package services

import (
	"errors"
	"strings"

	"star-songs/backend/app/dto"
	"star-songs/backend/app/models"
	"star-songs/backend/app/repo"

	"gorm.io/gorm"
)

const (
	maxNameLen  = 64
	maxTitleLen = 64
	maxURLLen   = 1024
	maxPageSize = 100
)

type CatalogService struct {
	artists *repo.ArtistRepository
	songs   *repo.SongRepository
}

func NewCatalogService(artists *repo.ArtistRepository, songs *repo.SongRepository) *CatalogService {
	return &CatalogService{artists: artists, songs: songs}
}

func validatePage(page, pageSize int) error {
	if page < 1 {
		return invalid("page must be at least 1")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return invalid("page_size must be between 1 and %d", maxPageSize)
	}
	return nil
}

func validateArtist(in dto.ArtistIn) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name must not be blank")
	}
	if len(in.Name) > maxNameLen {
		return invalid("name must be at most %d characters", maxNameLen)
	}
	return nil
}

func (s *CatalogService) ListArtists(page, pageSize int) ([]*models.Artist, int64, error) {
	if err := validatePage(page, pageSize); err != nil {
		return nil, 0, err
	}
	return s.artists.List(page, pageSize)
}

func (s *CatalogService) GetArtist(id int) (*models.Artist, error) {
	a, err := s.artists.Get(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArtistNotFound
	}
	return a, err
}

func (s *CatalogService) CreateArtist(in dto.ArtistIn) (*models.Artist, error) {
	if err := validateArtist(in); err != nil {
		return nil, err
	}
	a := &models.Artist{Name: in.Name}
	if err := s.artists.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpsertArtist writes the artist at the given id, creating it when absent.
func (s *CatalogService) UpsertArtist(id int, in dto.ArtistIn) (*models.Artist, error) {
	if err := validateArtist(in); err != nil {
		return nil, err
	}
	a := &models.Artist{ID: id, Name: in.Name}
	if err := s.artists.Save(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteArtist(id int) error {
	ok, err := s.artists.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrArtistNotFound
	}
	return nil
}

func (s *CatalogService) validateSong(in dto.SongIn) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title must not be blank")
	}
	if len(in.Title) > maxTitleLen {
		return invalid("title must be at most %d characters", maxTitleLen)
	}
	if in.URL != nil && len(*in.URL) > maxURLLen {
		return invalid("url must be at most %d characters", maxURLLen)
	}
	if in.ArtistID != nil {
		ok, err := s.artists.Exists(*in.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrArtistNotFound
		}
	}
	return nil
}

func songFromInput(id int, in dto.SongIn) *models.Song {
	song := &models.Song{ID: id, Title: in.Title, ArtistID: in.ArtistID, URL: in.URL, Distance: in.Distance}
	if in.ReleaseDate != nil {
		t := in.ReleaseDate.Time
		song.ReleaseDate = &t
	}
	return song
}

func (s *CatalogService) ListSongs(page, pageSize int, artistID *int) ([]*models.Song, int64, error) {
	if err := validatePage(page, pageSize); err != nil {
		return nil, 0, err
	}
	return s.songs.List(repo.SongFilter{ArtistID: artistID, Page: page, PageSize: pageSize})
}

func (s *CatalogService) GetSong(id int) (*models.Song, error) {
	song, err := s.songs.Get(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSongNotFound
	}
	return song, err
}

func (s *CatalogService) CreateSong(in dto.SongIn) (*models.Song, error) {
	if err := s.validateSong(in); err != nil {
		return nil, err
	}
	song := songFromInput(0, in)
	if err := s.songs.Create(song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *CatalogService) UpsertSong(id int, in dto.SongIn) (*models.Song, error) {
	if err := s.validateSong(in); err != nil {
		return nil, err
	}
	song := songFromInput(id, in)
	if err := s.songs.Save(song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *CatalogService) DeleteSong(id int) error {
	ok, err := s.songs.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSongNotFound
	}
	return nil
}
