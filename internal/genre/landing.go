package genre

// LandingPage is a curated genre page listing matching ranked games.
type LandingPage struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"` // canonical slugs; a game matching any is listed
}

// LandingPages are the built-in genre landing pages, in display order.
var LandingPages = []LandingPage{
	{
		Slug:        "rpg",
		Title:       "Best RPG Games to Stream",
		Description: "Role-playing games where small channels can still get discovered.",
		Genres:      []string{"role-playing"},
	},
	{
		Slug:        "horror",
		Title:       "Best Horror Games to Stream",
		Description: "Horror titles with engaged audiences and room for new streamers.",
		Genres:      []string{"horror"},
	},
	{
		Slug:        "shooter",
		Title:       "Best Shooter Games to Stream",
		Description: "Shooters ranked by discoverability, viability and engagement.",
		Genres:      []string{"shooter"},
	},
	{
		Slug:        "strategy",
		Title:       "Best Strategy Games to Stream",
		Description: "Strategy and tactics games with loyal viewers.",
		Genres:      []string{"strategy"},
	},
	{
		Slug:        "survival",
		Title:       "Best Survival Games to Stream",
		Description: "Survival and crafting games worth a long session.",
		Genres:      []string{"survival", "sandbox"},
	},
	{
		Slug:        "roguelike",
		Title:       "Best Roguelike Games to Stream",
		Description: "Run-based games that keep chat coming back.",
		Genres:      []string{"roguelike"},
	},
	{
		Slug:        "indie",
		Title:       "Best Indie Games to Stream",
		Description: "Indie games where a new channel can stand out.",
		Genres:      []string{"indie"},
	},
	{
		Slug:        "simulation",
		Title:       "Best Simulation Games to Stream",
		Description: "Simulation, sports and racing games with steady audiences.",
		Genres:      []string{"simulation", "sports", "racing"},
	},
	{
		Slug:        "competitive",
		Title:       "Best Competitive Games to Stream",
		Description: "MOBAs, battle royales and fighting games.",
		Genres:      []string{"moba", "battle-royale", "fighting"},
	},
}

// FindLandingPage returns the landing page with the given slug.
func FindLandingPage(slug string) (LandingPage, bool) {
	slug = Slugify(slug)
	for _, page := range LandingPages {
		if page.Slug == slug {
			return page, true
		}
	}
	return LandingPage{}, false
}

// Includes reports whether a game with the given labels belongs on the page.
func (p LandingPage) Includes(labels []string) bool {
	set := SlugSet(labels)
	for _, slug := range p.Genres {
		if _, ok := set[slug]; ok {
			return true
		}
	}
	return false
}
