package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/policy"
	"github.com/awu/foodlog/internal/search"
	"github.com/awu/foodlog/internal/storage"
)

// Logs reads and mutates food logs and their comments. Nutrition is optional;
// when nil, calories stay whatever the form supplied.
type Logs struct {
	DB        *gorm.DB
	Files     storage.Store
	Nutrition NutritionClient
}

func NewLogs(db *gorm.DB, files storage.Store, nutrition NutritionClient) *Logs {
	return &Logs{DB: db, Files: files, Nutrition: nutrition}
}

// ListVisible returns published logs the viewer may see, newest first (ties
// broken by id so equal timestamps keep insertion order). A non-empty query
// filters by food name or creator username, case-insensitively.
func (s *Logs) ListVisible(viewerID uint, query string, now time.Time) ([]models.Log, error) {
	q := s.DB.Model(&models.Log{}).
		Joins("JOIN foods ON foods.id = logs.food_id").
		Joins("JOIN users ON users.id = logs.creator_id").
		Joins("JOIN privacies ON privacies.user_id = logs.creator_id").
		Where("logs.pub_date <= ?", now).
		Where("privacies.show_logs = ? OR logs.creator_id = ?", true, viewerID)
	if strings.TrimSpace(query) != "" {
		pat := search.LikePattern(query)
		q = q.Where(`LOWER(foods.name) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\'`, pat, pat)
	}
	var logs []models.Log
	err := q.Order("logs.pub_date DESC, logs.id ASC").
		Preload("Food").Preload("Creator").
		Find(&logs).Error
	return logs, err
}

// ListForOwner returns a user's published logs for their profile page.
func (s *Logs) ListForOwner(ownerID uint, now time.Time) ([]models.Log, error) {
	var logs []models.Log
	err := s.DB.Where("creator_id = ? AND pub_date <= ?", ownerID, now).
		Order("pub_date DESC, id ASC").
		Preload("Food").
		Find(&logs).Error
	return logs, err
}

// Detail loads one log with its published comments, oldest first.
func (s *Logs) Detail(logID uint, now time.Time) (*models.Log, []models.Comment, error) {
	var entry models.Log
	err := s.DB.Preload("Food").Preload("Creator").First(&entry, logID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	var comments []models.Comment
	err = s.DB.Where("log_id = ? AND pub_date <= ?", logID, now).
		Order("pub_date ASC, id ASC").
		Preload("Creator").
		Find(&comments).Error
	if err != nil {
		return nil, nil, err
	}
	return &entry, comments, nil
}

// Create stores the food and its log atomically. When the form left calories
// at zero and an ingredients list is present, the nutrition service may fill
// them in; any lookup failure falls back to the manual value.
func (s *Logs) Create(ctx context.Context, creatorID uint, name, desc, ingredients string, calories int, image string, now time.Time) (*models.Log, error) {
	name = strings.TrimSpace(name)
	if name == "" || calories < 0 {
		return nil, ErrInvalidInput
	}
	if calories == 0 && strings.TrimSpace(ingredients) != "" && s.Nutrition != nil {
		if cal, err := s.Nutrition.Calories(ctx, ingredients); err != nil {
			log.Debug().Err(err).Msg("nutrition lookup failed, keeping manual calories")
		} else if cal > 0 {
			calories = cal
		}
	}

	food := models.Food{
		CreatorID:   creatorID,
		Name:        name,
		Desc:        desc,
		Ingredients: ingredients,
		Calories:    calories,
		Image:       image,
	}
	entry := models.Log{CreatorID: creatorID, PubDate: now}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&food).Error; err != nil {
			return err
		}
		entry.FoodID = food.ID
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	entry.Food = food
	return &entry, nil
}

// Delete removes a log by deleting its food: the log and its comments go with
// it in the same transaction. Only the creator may delete. The stored image
// is removed after the commit, best-effort.
func (s *Logs) Delete(requesterID, logID uint) error {
	var entry models.Log
	err := s.DB.Preload("Food").First(&entry, logID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !policy.CanDeleteLog(requesterID, entry) {
		return ErrForbidden
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("log_id = ?", entry.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Log{}, entry.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Food{}, entry.FoodID).Error
	})
	if err != nil {
		return err
	}
	if s.Files != nil && entry.Food.Image != "" {
		if err := s.Files.Delete(entry.Food.Image); err != nil {
			log.Warn().Err(err).Str("path", entry.Food.Image).Msg("food image cleanup failed")
		}
	}
	return nil
}

// AddComment stores a trimmed, non-empty comment on a visible log.
func (s *Logs) AddComment(requesterID, logID uint, text string, now time.Time) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	var entry models.Log
	err := s.DB.First(&entry, logID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var privacy models.Privacy
	if err := s.DB.Where("user_id = ?", entry.CreatorID).First(&privacy).Error; err != nil {
		return nil, err
	}
	if !policy.CanComment(requesterID, entry, privacy.ShowLogs) {
		return nil, ErrForbidden
	}
	comment := models.Comment{
		CreatorID: requesterID,
		LogID:     logID,
		Comment:   text,
		PubDate:   now,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}
