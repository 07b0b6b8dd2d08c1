package restaurant

// Seed returns the records the directory starts with.
func Seed() []Restaurant {
	return []Restaurant{
		{
			ID:          1,
			Name:        "WoodsHill",
			Description: "American cuisine, farm to table, with fresh produce every day",
			Dishes: []Dish{
				{Name: "Swordfish grill", Price: 27},
				{Name: "Roasted Broccoli", Price: 11},
			},
		},
		{
			ID:          2,
			Name:        "Fiorellas",
			Description: "Italian-American home cooked food with fresh pasta and sauces",
			Dishes: []Dish{
				{Name: "Flatbread", Price: 14},
				{Name: "Carbonara", Price: 18},
				{Name: "Spaghetti", Price: 19},
			},
		},
		{
			ID:          3,
			Name:        "Karma",
			Description: "Malaysian-Chinese-Japanese fusion, with great bar and bartenders",
			Dishes: []Dish{
				{Name: "Dragon Roll", Price: 12},
				{Name: "Pancake roll", Price: 11},
				{Name: "Cod cakes", Price: 13},
			},
		},
	}
}
