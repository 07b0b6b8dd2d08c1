package api_test

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/silenteer-oss/eatery"
	"gitlab.com/silenteer-oss/eatery/api"
	"gitlab.com/silenteer-oss/eatery/internal/app"
	"gitlab.com/silenteer-oss/eatery/restaurant"
	"gitlab.com/silenteer-oss/eatery/restful"
	"gitlab.com/silenteer-oss/eatery/test"
)

func newClient(t *testing.T) *api.RestaurantClient {
	t.Helper()
	application, err := app.NewApplication(app.DefaultConfig())
	require.NoError(t, err)

	test.NewTestServer(t, application).Start()
	t.Cleanup(application.Stop)

	port := application.HttpAddr().(*net.TCPAddr).Port
	conn := restful.NewConnection(fmt.Sprintf("http://127.0.0.1:%d", port), 5*time.Second)
	return api.NewRestaurantClient(eatery.NewClient(conn))
}

func TestRestaurantClient(t *testing.T) {
	client := newClient(t)
	ctx := eatery.NewBackgroundContext()

	//1. read the seed
	all, err := client.GetRestaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, restaurant.Seed(), all)

	found, err := client.GetRestaurant(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Karma", found.Name)

	missing, err := client.GetRestaurant(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	//2. create, update and delete
	created, err := client.CreateRestaurant(ctx, &api.CreateRestaurantRequest{Name: "Nobu", Description: "Japanese"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Empty(t, created.Dishes)

	updated, err := client.UpdateRestaurant(ctx, created.ID, &api.UpdateRestaurantRequest{Description: restaurant.StringPtr("Omakase")})
	require.NoError(t, err)
	assert.Equal(t, "Nobu", updated.Name)
	assert.Equal(t, "Omakase", updated.Description)

	ok, err := client.DeleteRestaurant(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.DeleteRestaurant(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	//3. a deleted id is never handed out again
	next, err := client.CreateRestaurant(ctx, &api.CreateRestaurantRequest{Name: "Karma Too"})
	require.NoError(t, err)
	assert.Equal(t, 5, next.ID)
}

func TestRestaurantClientErrors(t *testing.T) {
	client := newClient(t)
	ctx := eatery.NewBackgroundContext()

	_, err := client.UpdateRestaurant(ctx, 42, &api.UpdateRestaurantRequest{Name: restaurant.StringPtr("X")})
	require.Error(t, err)
	clientErr, ok := err.(*eatery.ClientResponseError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, clientErr.Response.StatusCode)
	assert.Equal(t, "restaurant doesn't exist", clientErr.Message)

	_, err = client.CreateRestaurant(ctx, &api.CreateRestaurantRequest{})
	require.Error(t, err)
	clientErr, ok = err.(*eatery.ClientResponseError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, clientErr.Response.StatusCode)
}

func TestRestaurantClientHealth(t *testing.T) {
	client := newClient(t)

	health, err := client.Health(eatery.NewBackgroundContext())
	require.NoError(t, err)
	assert.Equal(t, eatery.UP, health.Status)
	assert.Equal(t, api.Subject, health.Subject)
}
