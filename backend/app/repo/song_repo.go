package repo

import (
	"star-songs/backend/app/models"

	"gorm.io/gorm"
)

type SongRepository struct{ db *gorm.DB }

func NewSongRepository(db *gorm.DB) *SongRepository { return &SongRepository{db: db} }

type SongFilter struct {
	ArtistID *int
	Page     int
	PageSize int
}

func (r *SongRepository) List(filter SongFilter) ([]*models.Song, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}

	base := r.db.Model(&models.Song{})
	if filter.ArtistID != nil {
		base = base.Where("artistID = ?", *filter.ArtistID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var songs []*models.Song
	if err := base.Order("id").Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize).Find(&songs).Error; err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

func (r *SongRepository) Get(id int) (*models.Song, error) {
	var s models.Song
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SongRepository) Create(s *models.Song) error { return r.db.Create(s).Error }

func (r *SongRepository) Save(s *models.Song) error { return r.db.Save(s).Error }

func (r *SongRepository) Delete(id int) (bool, error) {
	res := r.db.Delete(&models.Song{}, id)
	return res.RowsAffected > 0, res.Error
}
