package services

import (
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/storage"
)

// Accounts owns user lifecycle: signup, credential checks, settings changes
// and deletion. All multi-row mutations run in a single transaction.
type Accounts struct {
	DB    *gorm.DB
	Files storage.Store
}

func NewAccounts(db *gorm.DB, files storage.Store) *Accounts {
	return &Accounts{DB: db, Files: files}
}

// Create stores a new user with a bcrypt-hashed password and its default
// Privacy row. Uniqueness is enforced by the unique indexes; the pre-checks
// only exist to pick the right error, the constraint closes the race.
func (s *Accounts) Create(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:       username,
		Email:          email,
		Password:       string(hash),
		ProfilePicture: models.DefaultAvatar,
		DateJoined:     time.Now(),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, "username = ?", username); err != nil {
			return err
		} else if taken {
			return ErrDuplicateUsername
		}
		if taken, err := exists(tx, "email = ?", email); err != nil {
			return err
		} else if taken {
			return ErrDuplicateEmail
		}
		if err := tx.Create(&user).Error; err != nil {
			return s.dupError(tx, username, email, err)
		}
		return tx.Create(&models.Privacy{UserID: user.ID, ShowLogs: true}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// dupError maps a unique-constraint violation from a concurrent signup to the
// matching sentinel.
func (s *Accounts) dupError(tx *gorm.DB, username, email string, orig error) error {
	if taken, err := exists(tx, "username = ?", username); err == nil && taken {
		return ErrDuplicateUsername
	}
	if taken, err := exists(tx, "email = ?", email); err == nil && taken {
		return ErrDuplicateEmail
	}
	return orig
}

func exists(tx *gorm.DB, cond string, arg any) (bool, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where(cond, arg).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Authenticate verifies email/password. Unknown email and wrong password
// return the identical ErrInvalidCredentials.
func (s *Accounts) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *Accounts) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, ErrNotFound
	}
	return &user, nil
}

// PrivacyFor returns the user's privacy row.
func (s *Accounts) PrivacyFor(userID uint) (models.Privacy, error) {
	var p models.Privacy
	if err := s.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return models.Privacy{}, err
	}
	return p, nil
}

// ChangePassword rehashes and stores a new password. The caller clears the
// session afterwards so the user has to log in again.
func (s *Accounts) ChangePassword(userID uint, newPassword, confirmation string) error {
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(newPassword) < models.MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("password", string(hash)).Error
}

// ChangeEmail updates the account email. Any existing holder of the address,
// the caller's current address included, makes it unavailable.
func (s *Accounts) ChangeEmail(userID uint, newEmail string) error {
	if taken, err := exists(s.DB, "email = ?", newEmail); err != nil {
		return err
	} else if taken {
		return ErrEmailInUse
	}
	err := s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("email", newEmail).Error
	if err != nil {
		// lost a race with another writer on the unique index
		if taken, cerr := exists(s.DB, "email = ?", newEmail); cerr == nil && taken {
			return ErrEmailInUse
		}
	}
	return err
}

// SetShowLogs toggles the privacy flag.
func (s *Accounts) SetShowLogs(userID uint, show bool) error {
	return s.DB.Model(&models.Privacy{}).Where("user_id = ?", userID).
		Update("show_logs", show).Error
}

// ChangeAvatar records a new profile picture and removes the old file once
// the row is updated. The shared default avatar is never removed.
func (s *Accounts) ChangeAvatar(userID uint, path string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	old := user.ProfilePicture
	if err := s.DB.Model(user).Update("profile_picture", path).Error; err != nil {
		return err
	}
	if old != models.DefaultAvatar {
		s.removeFile(old)
	}
	return nil
}

// Delete removes the account after re-verifying the password. Owned rows go
// in one transaction; stored images are removed only after the commit, and a
// failed removal is logged rather than surfaced.
func (s *Accounts) Delete(userID uint, password string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	var images []string
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Image paths are read inside the transaction so an upload racing
		// the delete cannot slip past the cleanup.
		if err := tx.Model(&models.Food{}).
			Where("creator_id = ? AND image <> ''", userID).
			Pluck("image", &images).Error; err != nil {
			return err
		}
		// Comments on the user's logs by other users go too.
		logIDs := tx.Model(&models.Log{}).Select("id").Where("creator_id = ?", userID)
		if err := tx.Where("creator_id = ? OR log_id IN (?)", userID, logIDs).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("creator_id = ?", userID).Delete(&models.Log{}).Error; err != nil {
			return err
		}
		if err := tx.Where("creator_id = ?", userID).Delete(&models.Food{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Privacy{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return err
	}

	for _, img := range images {
		s.removeFile(img)
	}
	if user.ProfilePicture != models.DefaultAvatar {
		s.removeFile(user.ProfilePicture)
	}
	return nil
}

func (s *Accounts) removeFile(path string) {
	if s.Files == nil || path == "" {
		return
	}
	if err := s.Files.Delete(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("file cleanup failed")
	}
}
