package core

// Category is the display metadata of a catalog entry. Icons are Material Community icon names.
type Category struct {
	ID    CategoryID
	Name  string
	Icon  string
	Color string // hex, e.g. "#4CAF50"
}

// UncategorizedID is the catalog entry used when an id cannot be resolved.
const UncategorizedID CategoryID = "1"

var catalog = []Category{
	{ID: "1", Name: "Uncategorized", Icon: "help-circle-outline", Color: "#B0BEC5"},
	{ID: "2", Name: "Shopping & Services", Icon: "basket", Color: "#FF8A65"},
	{ID: "3", Name: "Income", Icon: "cash-plus", Color: "#4CAF50"},
	{ID: "4", Name: "Entertainment", Icon: "movie-open", Color: "#BA68C8"},
	{ID: "5", Name: "Food", Icon: "food-apple", Color: "#FFD54F"},
	{ID: "6", Name: "Transport", Icon: "car", Color: "#64B5F6"},
	{ID: "7", Name: "Children", Icon: "human-child", Color: "#FFF176"},
	{ID: "8", Name: "Health & Beauty", Icon: "heart-pulse", Color: "#F06292"},
	{ID: "9", Name: "Insurance", Icon: "shield-check", Color: "#4DB6AC"},
	{ID: "10", Name: "Other Expenses", Icon: "dots-horizontal-circle-outline", Color: "#90A4AE"},
	{ID: "11", Name: "Vacations & Travel", Icon: "airplane", Color: "#7986CB"},
	{ID: "12", Name: "Investing & Saving", Icon: "chart-line", Color: "#81C784"},
	{ID: "13", Name: "Pet Care", Icon: "paw", Color: "#A1887F"},
}

// Categories returns a copy of the catalog in its display order.
func Categories() []Category {
	return append([]Category(nil), catalog...)
}

// LookupCategory finds a catalog entry by id.
func LookupCategory(id CategoryID) (Category, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveCategory is LookupCategory with a fallback to the Uncategorized entry, for display.
func ResolveCategory(id CategoryID) Category {
	if c, ok := LookupCategory(id); ok {
		return c
	}
	c, _ := LookupCategory(UncategorizedID)
	return c
}
