package dataset

// Vertical is a selectable vertical within a category.
type Vertical struct {
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Icon     string   `json:"icon"`
	Category Category `json:"category"`
}

// GamingVerticals lists the gaming verticals in selector order.
var GamingVerticals = []Vertical{
	{Label: "All", Value: "all", Icon: "all.svg", Category: CategoryGaming},
	{Label: "Match", Value: "match", Icon: "match.svg", Category: CategoryGaming},
	{Label: "Casino", Value: "casino", Icon: "casino.svg", Category: CategoryGaming},
	{Label: "Puzzle", Value: "puzzle", Icon: "puzzle.svg", Category: CategoryGaming},
	{Label: "RPG", Value: "rpg", Icon: "rpg.svg", Category: CategoryGaming},
	{Label: "Simulation", Value: "simulation", Icon: "simulation.svg", Category: CategoryGaming},
	{Label: "Strategy", Value: "strategy", Icon: "strategy.svg", Category: CategoryGaming},
	{Label: "Tabletop", Value: "tabletop", Icon: "tabletop.svg", Category: CategoryGaming},
}

// ConsumerVerticals lists the consumer verticals in selector order.
var ConsumerVerticals = []Vertical{
	{Label: "All", Value: "all", Icon: "all.svg", Category: CategoryConsumer},
	{Label: "E-commerce", Value: "e-commerce", Icon: "ecommerce.svg", Category: CategoryConsumer},
	{Label: "RMG", Value: "rmg", Icon: "rmg.svg", Category: CategoryConsumer},
	{Label: "Social", Value: "social", Icon: "social.svg", Category: CategoryConsumer},
	{Label: "Trading & Investing", Value: "Finance (Trading & Investing)", Icon: "trading.svg", Category: CategoryConsumer},
	{Label: "Finance & Banking", Value: "Finance (Financial Health & Banking)", Icon: "finance.svg", Category: CategoryConsumer},
	{Label: "Utility & Productivity", Value: "Utility & Productivity", Icon: "utility.svg", Category: CategoryConsumer},
	{Label: "Food & Delivery", Value: "food_delivery", Icon: "food.svg", Category: CategoryConsumer},
	{Label: "Dating", Value: "dating", Icon: "dating.svg", Category: CategoryConsumer},
	{Label: "Entertainment", Value: "entertainment", Icon: "entertainment.svg", Category: CategoryConsumer},
	{Label: "Travel", Value: "travel", Icon: "travel.svg", Category: CategoryConsumer},
	{Label: "Health & Fitness", Value: "Health & Fitness", Icon: "health.svg", Category: CategoryConsumer},
	{Label: "Education", Value: "education", Icon: "education.svg", Category: CategoryConsumer},
	{Label: "News", Value: "news", Icon: "news.svg", Category: CategoryConsumer},
	{Label: "Loyalty", Value: "loyalty", Icon: "loyalty.svg", Category: CategoryConsumer},
	{Label: "Gen AI", Value: "Generative AI", Icon: "genai.svg", Category: CategoryConsumer},
	{Label: "Other", Value: "other", Icon: "other.svg", Category: CategoryConsumer},
}

// VerticalsOf returns the catalog of a category.
func VerticalsOf(c Category) []Vertical {
	if c == CategoryConsumer {
		return ConsumerVerticals
	}

	return GamingVerticals
}

// LookupVertical finds a vertical by value. The category is searched first so
// that "all" resolves within it; other categories are searched after.
// Values compare after folding, so "RPG" and "rpg" match.
func LookupVertical(c Category, value string) (Vertical, bool) {
	folded := FoldVertical(value)

	for _, cat := range []Category{c, otherCategory(c)} {
		for _, v := range VerticalsOf(cat) {
			if FoldVertical(v.Value) == folded {
				return v, true
			}
		}
	}

	return Vertical{}, false
}

func otherCategory(c Category) Category {
	if c == CategoryConsumer {
		return CategoryGaming
	}

	return CategoryConsumer
}
