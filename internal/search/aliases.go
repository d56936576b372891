package search

import "strings"

// DefaultAliases maps common abbreviations and nicknames to the normalized
// canonical names they stand for. Keys are normalized too.
var DefaultAliases = map[string][]string{
	"gta":    {"grand theft auto"},
	"gta5":   {"grand theft auto v"},
	"gtav":   {"grand theft auto v"},
	"gta 5":  {"grand theft auto v"},
	"lol":    {"league of legends"},
	"league": {"league of legends"},
	"cs":     {"counter strike"},
	"cs2":    {"counter strike 2", "counter strike"},
	"csgo":   {"counter strike global offensive", "counter strike"},
	"wow":    {"world of warcraft"},
	"bg3":    {"baldurs gate 3"},
	"pubg":   {"pubg battlegrounds", "playerunknowns battlegrounds"},
	"r6":     {"tom clancys rainbow six siege", "rainbow six siege"},
	"r6s":    {"tom clancys rainbow six siege", "rainbow six siege"},
	"ow":     {"overwatch"},
	"ow2":    {"overwatch 2"},
	"valo":   {"valorant"},
	"apex":   {"apex legends"},
	"fn":     {"fortnite"},
	"mc":     {"minecraft"},
	"dbd":    {"dead by daylight"},
	"tft":    {"teamfight tactics"},
	"rl":     {"rocket league"},
	"ffxiv":  {"final fantasy xiv online", "final fantasy xiv"},
	"ff14":   {"final fantasy xiv online", "final fantasy xiv"},
	"ds3":    {"dark souls iii"},
	"er":     {"elden ring"},
	"poe":    {"path of exile"},
	"poe2":   {"path of exile 2"},
	"d4":     {"diablo iv"},
	"eft":    {"escape from tarkov"},
	"tarkov": {"escape from tarkov"},
	"rdr2":   {"red dead redemption 2"},
	"sc2":    {"starcraft ii"},
	"hs":     {"hearthstone"},
	"mtga":   {"magic the gathering arena"},
	"mtg":    {"magic the gathering arena", "magic the gathering"},
	"dota":   {"dota 2"},
	"ssbu":   {"super smash bros ultimate"},
	"smash":  {"super smash bros ultimate", "super smash bros melee"},
	"botw":   {"the legend of zelda breath of the wild"},
	"totk":   {"the legend of zelda tears of the kingdom"},
	"coh3":   {"company of heroes 3"},
	"aoe2":   {"age of empires ii definitive edition", "age of empires ii"},
	"aoe4":   {"age of empires iv"},
	"sf6":    {"street fighter 6"},
	"mk1":    {"mortal kombat 1"},
	"eu4":    {"europa universalis iv"},
	"hoi4":   {"hearts of iron iv"},
	"ck3":    {"crusader kings iii"},
	"ror2":   {"risk of rain 2"},
	"sot":    {"sea of thieves"},
	"l4d2":   {"left 4 dead 2"},
	"tf2":    {"team fortress 2"},
	"gw2":    {"guild wars 2"},
	"osrs":   {"old school runescape"},
}

// AliasTable resolves abbreviations in both directions.
type AliasTable struct {
	expansions map[string][]string
}

// NewAliasTable normalizes keys and values of raw.
func NewAliasTable(raw map[string][]string) *AliasTable {
	t := &AliasTable{expansions: make(map[string][]string, len(raw))}
	for key, names := range raw {
		k := Normalize(key)
		if k == "" {
			continue
		}
		for _, name := range names {
			if n := Normalize(name); n != "" {
				t.expansions[k] = append(t.expansions[k], n)
			}
		}
	}
	return t
}

// Expand returns the canonical names an abbreviation stands for.
func (t *AliasTable) Expand(normalized string) []string {
	if t == nil {
		return nil
	}
	return t.expansions[normalized]
}

// AliasesFor returns every abbreviation that refers to the normalized game
// name. An abbreviation refers to a game when one of its expansions equals
// the name or is a leading run of whole words of it, so "gta" attaches to
// "grand theft auto v".
func (t *AliasTable) AliasesFor(normalizedName string) []string {
	if t == nil || normalizedName == "" {
		return nil
	}
	var out []string
	for key, names := range t.expansions {
		for _, name := range names {
			if normalizedName == name || strings.HasPrefix(normalizedName, name+" ") {
				out = append(out, key)
				break
			}
		}
	}
	return out
}
