package favorites

import (
	"bytes"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

// recordVersion is the schema version written to storage.
const recordVersion = 1

// record is the stored shape: {"v":1,"favorites":[...]}.
// Older data is a bare JSON array of favorites and is still accepted.
type record struct {
	Version   int               `json:"v"`
	Favorites []domain.Favorite `json:"favorites"`
}

var errUnknownShape = errors.New("favorites record is neither an object nor an array")

func encode(favorites []domain.Favorite) ([]byte, error) {
	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	return json.Marshal(record{Version: recordVersion, Favorites: favorites})
}

func decode(data []byte) ([]domain.Favorite, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errUnknownShape
	}

	switch trimmed[0] {
	case '[':
		var legacy []domain.Favorite
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy favorites: %w", err)
		}
		return legacy, nil
	case '{':
		var rec record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("decode favorites record: %w", err)
		}
		if rec.Version != recordVersion {
			return nil, fmt.Errorf("unsupported favorites record version %d", rec.Version)
		}
		return rec.Favorites, nil
	default:
		return nil, errUnknownShape
	}
}
