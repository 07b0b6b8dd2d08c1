package api

import (
	"strconv"

	"gitlab.com/silenteer-oss/eatery"
)

type RestaurantClient struct {
	client  *eatery.Client
	subject string
}

func NewRestaurantClient(client *eatery.Client) *RestaurantClient {
	return &RestaurantClient{client: client, subject: Subject}
}

func (c *RestaurantClient) Health(ctx *eatery.Context) (*eatery.Health, error) {
	return eatery.HealthCheck(ctx, c.client, c.subject)
}

func (c *RestaurantClient) GetRestaurants(ctx *eatery.Context) ([]Restaurant, error) {
	request, err := eatery.NewReqBuilder().
		Get(BasePath).
		Build()
	if err != nil {
		return nil, err
	}

	var result []Restaurant
	err = c.client.SendAndReceiveJson(ctx, request, &result)
	return result, err
}

// GetRestaurant returns nil, nil when there is no restaurant with the id.
func (c *RestaurantClient) GetRestaurant(ctx *eatery.Context, id int) (*Restaurant, error) {
	request, err := eatery.NewReqBuilder().
		Get(BasePath + "/" + strconv.Itoa(id)).
		Build()
	if err != nil {
		return nil, err
	}

	var result *Restaurant
	err = c.client.SendAndReceiveJson(ctx, request, &result)
	return result, err
}

func (c *RestaurantClient) CreateRestaurant(ctx *eatery.Context, in *CreateRestaurantRequest) (*Restaurant, error) {
	request, err := eatery.NewReqBuilder().
		Post(BasePath).
		BodyJSON(in).
		Build()
	if err != nil {
		return nil, err
	}

	var result Restaurant
	if err := c.client.SendAndReceiveJson(ctx, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestaurantClient) UpdateRestaurant(ctx *eatery.Context, id int, in *UpdateRestaurantRequest) (*Restaurant, error) {
	request, err := eatery.NewReqBuilder().
		Put(BasePath + "/" + strconv.Itoa(id)).
		BodyJSON(in).
		Build()
	if err != nil {
		return nil, err
	}

	var result Restaurant
	if err := c.client.SendAndReceiveJson(ctx, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestaurantClient) DeleteRestaurant(ctx *eatery.Context, id int) (bool, error) {
	request, err := eatery.NewReqBuilder().
		Delete(BasePath + "/" + strconv.Itoa(id)).
		Build()
	if err != nil {
		return false, err
	}

	var result DeleteResponse
	err = c.client.SendAndReceiveJson(ctx, request, &result)
	return result.Ok, err
}
