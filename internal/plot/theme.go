package plot

// Theme is a page color scheme.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Series colors shared by every renderer.
const (
	UserColor       = "#60E2B7"
	AdvertiserColor = "#876AFF"
	AboveFill       = "rgba(96, 226, 183, 0.2)"
	BelowFill       = "rgba(135, 106, 255, 0.2)"
)

// SeasonPalette colors the past and current season lines, in that order,
// then any extra series.
var SeasonPalette = []string{"#C368F9", "#16D2FF", "#60E2B7", "#876AFF"}

// ThemeConfig holds the colors a theme resolves to.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextSecondary string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	EChartsTheme string
}

var lightTheme = ThemeConfig{
	Background:      "#ffffff",
	Surface:         "#f6f5f8",
	Border:          "#e4e1ea",
	TextPrimary:     "#1d1a24",
	TextSecondary:   "#5f5a6b",
	ChartBackground: "#ffffff",
	ChartGrid:       "#ecebef",
	ChartAxis:       "#c9c5d2",
	ChartText:       "#1d1a24",
	ChartTextMuted:  "#7b7687",
}

var darkTheme = ThemeConfig{
	Background:      "#0f0d14",
	Surface:         "#1a1722",
	Border:          "#2c2838",
	TextPrimary:     "#f2f0f7",
	TextSecondary:   "#b0aabf",
	ChartBackground: "#1a1722",
	ChartGrid:       "#2c2838",
	ChartAxis:       "#4a4458",
	ChartText:       "#f2f0f7",
	ChartTextMuted:  "#8e889d",
	EChartsTheme:    "dark",
}

// GetThemeConfig resolves theme, falling back to light.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}
