package api

import "gitlab.com/silenteer-oss/eatery/restaurant"

const (
	Subject  = "api.service.restaurants"
	BasePath = "/api/service/restaurants"
)

type Restaurant = restaurant.Restaurant
type Dish = restaurant.Dish

type CreateRestaurantRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateRestaurantRequest leaves a field untouched when it is omitted or
// empty.
type UpdateRestaurantRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type DeleteResponse struct {
	Ok bool `json:"ok"`
}

type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}
