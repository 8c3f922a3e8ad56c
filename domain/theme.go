package domain

// DefaultTheme is applied to new accounts and used as the fallback for locked selections.
const DefaultTheme = "default"

// Theme describes one entry of the closed theme catalog.
type Theme struct {
	ID      string
	Label   string
	Premium bool
}

// Themes is the catalog in display order.
var Themes = []Theme{
	{ID: "default", Label: "Default"},
	{ID: "dark", Label: "Dark"},
	{ID: "colorful", Label: "Colorful"},
	{ID: "cartoon", Label: "Cartoon"},
	{ID: "anime", Label: "Anime"},
	{ID: "futuristic", Label: "Futuristic"},
	{ID: "vintage", Label: "Vintage"},
	{ID: "premium-gold", Label: "Premium gold", Premium: true},
	{ID: "premium-silver", Label: "Premium silver", Premium: true},
	{ID: "premium-diamond", Label: "Premium diamond", Premium: true},
}

// LockedSuffix marks premium themes the account cannot use yet.
const LockedSuffix = " (Locked)"

// ThemeOption is one entry of the theme selector.
type ThemeOption struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Locked bool   `json:"locked"`
}

// LookupTheme finds a catalog entry by id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// IsPremiumTheme reports whether id names a premium catalog entry.
func IsPremiumTheme(id string) bool {
	t, ok := LookupTheme(id)
	return ok && t.Premium
}

// ThemeOptions lists the catalog with lock state for an account's entitlement.
func ThemeOptions(isPremium bool) []ThemeOption {
	options := make([]ThemeOption, 0, len(Themes))
	for _, t := range Themes {
		opt := ThemeOption{ID: t.ID, Label: t.Label}
		if t.Premium && !isPremium {
			opt.Locked = true
			opt.Label += LockedSuffix
		}
		options = append(options, opt)
	}
	return options
}
