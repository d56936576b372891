package store

// Keys are namespaced so the database can be shared with other tools.
var (
	keyFavorites = []byte("streamscout:favorites")
	keySnapshot  = []byte("streamscout:snapshot")
)

// FavoritesKey is the key the favorites set is stored under.
const FavoritesKey = "streamscout:favorites"
