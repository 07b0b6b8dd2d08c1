package app

import (
	"net/http"
	"strconv"

	"emperror.dev/errors"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/api"
	"gitlab.com/silenteer-oss/eatery/restaurant"
	"gitlab.com/silenteer-oss/eatery/socket"
)

type RestaurantService struct {
	directory *restaurant.Directory
	graphql   *GraphQL
	hub       *socket.Hub
}

func NewRestaurantService(directory *restaurant.Directory, hub *socket.Hub) (*RestaurantService, error) {
	gql, err := NewGraphQL(directory)
	if err != nil {
		return nil, err
	}
	return &RestaurantService{directory: directory, graphql: gql, hub: hub}, nil
}

func (s *RestaurantService) Routes(r eatery.Router) {
	r.RegisterJson("GET", api.BasePath, s.GetRestaurants)
	r.RegisterJson("POST", api.BasePath, s.CreateRestaurant)
	r.RegisterJson("GET", api.BasePath+"/graphql", s.graphql.Query)
	r.RegisterJson("POST", api.BasePath+"/graphql", s.graphql.Execute)
	r.RegisterJson("GET", api.BasePath+"/{id}", s.GetRestaurant)
	r.RegisterJson("PUT", api.BasePath+"/{id}", s.UpdateRestaurant)
	r.RegisterJson("DELETE", api.BasePath+"/{id}", s.DeleteRestaurant)

	if s.hub != nil {
		r.Handle(api.BasePath+"/feed", http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
			socket.ServeWs(s.hub, w, rq)
		}))
	}
}

func (s *RestaurantService) GetRestaurants(ctx *eatery.Context) ([]api.Restaurant, error) {
	return s.directory.GetAll(), nil
}

// GetRestaurant answers an empty body when the id is unknown.
func (s *RestaurantService) GetRestaurant(ctx *eatery.Context) (*api.Restaurant, error) {
	id, err := pathID(ctx)
	if err != nil {
		return nil, err
	}

	found, ok := s.directory.GetByID(id)
	if !ok {
		return nil, nil
	}
	return &found, nil
}

func (s *RestaurantService) CreateRestaurant(ctx *eatery.Context, request *api.CreateRestaurantRequest) (*api.Restaurant, error) {
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	created := s.directory.Create(request.Name, request.Description)
	ctx.Logger().Info("Restaurant created", map[string]interface{}{"id": created.ID})
	return &created, nil
}

func (s *RestaurantService) UpdateRestaurant(ctx *eatery.Context, request *api.UpdateRestaurantRequest) (*api.Restaurant, error) {
	id, err := pathID(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.directory.Update(id, restaurant.Changes{
		Name:        request.Name,
		Description: request.Description,
	})
	if errors.Is(err, restaurant.ErrNotFound) {
		return nil, eatery.NewNotFoundError(err)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RestaurantService) DeleteRestaurant(ctx *eatery.Context) (*api.DeleteResponse, error) {
	id, err := pathID(ctx)
	if err != nil {
		return nil, err
	}
	return &api.DeleteResponse{Ok: s.directory.Delete(id)}, nil
}

func pathID(ctx *eatery.Context) (int, error) {
	raw := ctx.GetPathParam("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eatery.NewBadRequestError(errors.NewWithDetails("invalid restaurant id", "id", raw))
	}
	return id, nil
}
