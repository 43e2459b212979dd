package repo

import (
	"star-songs/backend/app/models"

	"gorm.io/gorm"
)

type ArtistRepository struct{ db *gorm.DB }

func NewArtistRepository(db *gorm.DB) *ArtistRepository { return &ArtistRepository{db: db} }

func (r *ArtistRepository) List(page, pageSize int) ([]*models.Artist, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	var total int64
	if err := r.db.Model(&models.Artist{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var artists []*models.Artist
	if err := r.db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&artists).Error; err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

func (r *ArtistRepository) Get(id int) (*models.Artist, error) {
	var a models.Artist
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArtistRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&models.Artist{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ArtistRepository) Create(a *models.Artist) error { return r.db.Create(a).Error }

// Save updates the row at the artist's ID, inserting it when absent.
func (r *ArtistRepository) Save(a *models.Artist) error { return r.db.Save(a).Error }

func (r *ArtistRepository) Delete(id int) (bool, error) {
	res := r.db.Delete(&models.Artist{}, id)
	return res.RowsAffected > 0, res.Error
}
