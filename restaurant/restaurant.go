// Package restaurant holds the in-memory restaurant directory.
package restaurant

// Dish is a menu item owned by a restaurant.
type Dish struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type Restaurant struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Dishes      []Dish `json:"dishes"`
}

// Changes lists the fields an update may overwrite. A nil or empty field is
// left untouched.
type Changes struct {
	Name        *string
	Description *string
}

// clone copies r so callers never share the directory's dish slices.
func (r Restaurant) clone() Restaurant {
	dishes := make([]Dish, len(r.Dishes))
	copy(dishes, r.Dishes)
	r.Dishes = dishes
	return r
}

func (c Changes) apply(r *Restaurant) {
	if c.Name != nil && *c.Name != "" {
		r.Name = *c.Name
	}
	if c.Description != nil && *c.Description != "" {
		r.Description = *c.Description
	}
}

// StringPtr is a helper for building Changes.
func StringPtr(s string) *string {
	return &s
}
