// Package sse implements Server-Sent Events for pushing list refreshes,
// favorites changes and card updates to connected viewers.
package sse

import (
	"time"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventGamesRefreshed is sent after a new ranked list was applied.
	EventGamesRefreshed EventType = "games.refreshed"
	// EventGamesRefreshFailed is sent when a refresh failed.
	EventGamesRefreshFailed EventType = "games.refresh_failed"
	// EventUpstreamWarming is sent while the analytics service has no data.
	EventUpstreamWarming EventType = "upstream.warming"

	// EventFavoritesChanged is sent after any favorites mutation.
	EventFavoritesChanged EventType = "favorites.changed"

	// EventCardSettled is sent to one session when a card's analytics
	// fetch finished, successfully or not.
	EventCardSettled EventType = "card.settled"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID restricts delivery to clients of one viewer session.
	// Empty means broadcast to all.
	SessionID string `json:"-"`
}

// GamesRefreshedEventData is the data payload for games.refreshed.
type GamesRefreshedEventData struct {
	Games              int       `json:"games"`
	TotalGamesAnalyzed int       `json:"total_games_analyzed"`
	Timestamp          time.Time `json:"timestamp"`
}

// RefreshFailedEventData is the data payload for games.refresh_failed.
type RefreshFailedEventData struct {
	Error               string `json:"error"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	HasData             bool   `json:"has_data"`
}

// UpstreamWarmingEventData is the data payload for upstream.warming.
type UpstreamWarmingEventData struct {
	HasData bool `json:"has_data"`
}

// FavoritesChangedEventData is the data payload for favorites.changed.
type FavoritesChangedEventData struct {
	Kind     string `json:"kind"`
	GameID   string `json:"game_id,omitempty"`
	GameName string `json:"game_name,omitempty"`
	Count    int    `json:"count"`
}

// CardSettledEventData is the data payload for card.settled.
type CardSettledEventData struct {
	GameID string `json:"game_id"`
	State  string `json:"state"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewGamesRefreshedEvent creates a games.refreshed event.
func NewGamesRefreshedEvent(games, totalAnalyzed int, ts time.Time) Event {
	return Event{
		Type: EventGamesRefreshed,
		Data: GamesRefreshedEventData{
			Games:              games,
			TotalGamesAnalyzed: totalAnalyzed,
			Timestamp:          ts,
		},
		Timestamp: time.Now(),
	}
}

// NewRefreshFailedEvent creates a games.refresh_failed event.
func NewRefreshFailedEvent(errMsg string, failures int, hasData bool) Event {
	return Event{
		Type: EventGamesRefreshFailed,
		Data: RefreshFailedEventData{
			Error:               errMsg,
			ConsecutiveFailures: failures,
			HasData:             hasData,
		},
		Timestamp: time.Now(),
	}
}

// NewUpstreamWarmingEvent creates an upstream.warming event.
func NewUpstreamWarmingEvent(hasData bool) Event {
	return Event{
		Type:      EventUpstreamWarming,
		Data:      UpstreamWarmingEventData{HasData: hasData},
		Timestamp: time.Now(),
	}
}

// NewFavoritesChangedEvent creates a favorites.changed event.
func NewFavoritesChangedEvent(kind, gameID, gameName string, count int) Event {
	return Event{
		Type: EventFavoritesChanged,
		Data: FavoritesChangedEventData{
			Kind:     kind,
			GameID:   gameID,
			GameName: gameName,
			Count:    count,
		},
		Timestamp: time.Now(),
	}
}

// NewCardSettledEvent creates a card.settled event for one session.
func NewCardSettledEvent(sessionID, gameID, state string) Event {
	return Event{
		Type:      EventCardSettled,
		Data:      CardSettledEventData{GameID: gameID, State: state},
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
