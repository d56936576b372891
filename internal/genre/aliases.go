package genre

import "slices"

// CanonicalAliases maps slugified upstream genre labels to canonical slugs.
// Combined labels expand to several slugs.
var CanonicalAliases = map[string][]string{
	// Role-playing
	"rpg":               {"role-playing"},
	"role-playing-rpg":  {"role-playing"},
	"roleplaying":       {"role-playing"},
	"role-playing-game": {"role-playing"},
	"jrpg":              {"role-playing"},
	"arpg":              {"action", "role-playing"},
	"action-rpg":        {"action", "role-playing"},

	// Shooters
	"shooter":              {"shooter"},
	"fps":                  {"shooter"},
	"first-person-shooter": {"shooter"},
	"third-person-shooter": {"shooter"},
	"tactical-shooter":     {"shooter"},
	"hero-shooter":         {"shooter"},
	"shoot-em-up":          {"shooter"},

	// Competitive formats
	"moba":                            {"moba"},
	"multiplayer-online-battle-arena": {"moba"},
	"battle-royale":                   {"battle-royale"},
	"br":                              {"battle-royale"},
	"mmo":                             {"mmo"},
	"mmorpg":                          {"mmo", "role-playing"},
	"massively-multiplayer":           {"mmo"},

	// Strategy
	"rts":                 {"strategy"},
	"real-time-strategy":  {"strategy"},
	"turn-based-strategy": {"strategy"},
	"tbs":                 {"strategy"},
	"4x":                  {"strategy"},
	"card-board-game":     {"card-game"},
	"card-game":           {"card-game"},
	"deckbuilder":         {"card-game", "roguelike"},

	// Action and adventure
	"action-adventure": {"action", "adventure"},
	"hack-and-slash":   {"action"},
	"beat-em-up":       {"fighting"},
	"fighting":         {"fighting"},
	"platform":         {"platformer"},
	"platformer":       {"platformer"},
	"metroidvania":     {"platformer", "adventure"},
	"point-and-click":  {"adventure"},

	// Roguelikes
	"roguelike":  {"roguelike"},
	"roguelite":  {"roguelike"},
	"rogue-like": {"roguelike"},
	"rogue-lite": {"roguelike"},

	// Horror and survival
	"horror":          {"horror"},
	"survival-horror": {"survival", "horror"},
	"survival":        {"survival"},
	"sandbox":         {"sandbox"},
	"open-world":      {"sandbox"},
	"crafting":        {"survival"},

	// Simulation, sports and racing
	"simulator":  {"simulation"},
	"simulation": {"simulation"},
	"sim":        {"simulation"},
	"sport":      {"sports"},
	"sports":     {"sports"},
	"racing":     {"racing"},
	"driving":    {"racing"},

	// Puzzle and casual
	"puzzle":      {"puzzle"},
	"quiz-trivia": {"puzzle"},
	"trivia":      {"puzzle"},
	"casual":      {"casual"},
	"party":       {"casual"},
	"indie":       {"indie"},
}

// NormalizeToSlugs returns the canonical slug(s) for a raw genre label.
// Labels without an alias map to their own slug.
func NormalizeToSlugs(raw string) []string {
	slug := Slugify(raw)
	if slug == "" {
		return nil
	}
	if canonical, ok := CanonicalAliases[slug]; ok {
		return canonical
	}
	return []string{slug}
}

// SlugSet normalizes a list of labels into a deduplicated slug set.
func SlugSet(raw []string) map[string]struct{} {
	set := make(map[string]struct{}, len(raw))
	for _, label := range raw {
		for _, slug := range NormalizeToSlugs(label) {
			set[slug] = struct{}{}
		}
	}
	return set
}

// Matches reports whether two labels share a canonical slug, so
// "RPG", "rpg" and "Role-Playing" all match each other.
func Matches(a, b string) bool {
	left := NormalizeToSlugs(a)
	for _, slug := range NormalizeToSlugs(b) {
		if slices.Contains(left, slug) {
			return true
		}
	}
	return false
}
