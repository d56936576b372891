package domain

import "time"

// Favorite is a game the viewer has starred.
// At most one Favorite exists per GameID.
type Favorite struct {
	GameID   string `json:"game_id"`
	GameName string `json:"game_name"`
	AddedAt  int64  `json:"added_at"` // epoch millis
}

// NewFavorite creates a favorite stamped with the given time.
func NewFavorite(gameID, gameName string, now time.Time) Favorite {
	return Favorite{
		GameID:   gameID,
		GameName: gameName,
		AddedAt:  now.UnixMilli(),
	}
}

// AddedTime returns AddedAt as a time.Time.
func (f Favorite) AddedTime() time.Time {
	return time.UnixMilli(f.AddedAt)
}
