package models

import "time"

// RecentWindow is how far back a comment may have been published and still
// count as recent.
const RecentWindow = 24 * time.Hour

// Food is the meal data behind a log. Each food belongs to exactly one log;
// deleting a food takes its log with it, never the other way around.
type Food struct {
	ID          uint   `gorm:"primaryKey"`
	CreatorID   uint   `gorm:"index;not null"`
	Creator     User   `gorm:"foreignKey:CreatorID"`
	Name        string `gorm:"size:200;not null"`
	Desc        string `gorm:"size:1000"`
	Ingredients string `gorm:"size:500"`
	Calories    int    `gorm:"not null;default:0"`
	Image       string

	Log *Log `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE"`
}

// Log is a published food-consumption record. It shows up in listings only
// once PubDate has passed.
type Log struct {
	ID        uint      `gorm:"primaryKey"`
	CreatorID uint      `gorm:"index;not null"`
	Creator   User      `gorm:"foreignKey:CreatorID"`
	FoodID    uint      `gorm:"uniqueIndex;not null"`
	Food      Food      `gorm:"foreignKey:FoodID"`
	PubDate   time.Time `gorm:"index"`
}

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	CreatorID uint   `gorm:"index;not null"`
	Creator   User   `gorm:"foreignKey:CreatorID"`
	LogID     uint   `gorm:"index;not null"`
	Comment   string `gorm:"size:1000;not null"`
	PubDate   time.Time
}

// IsRecent reports whether the comment was published within the last 24 hours.
// Both ends of the window are inclusive; future publish dates never count.
func (c Comment) IsRecent(now time.Time) bool {
	earliest := now.Add(-RecentWindow)
	return !c.PubDate.Before(earliest) && !c.PubDate.After(now)
}
