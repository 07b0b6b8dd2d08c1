package restaurant_test

import (
	"sync"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/silenteer-oss/eatery/restaurant"
)

func ids(rs []restaurant.Restaurant) []int {
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestSeededDirectory(t *testing.T) {
	d := restaurant.NewDirectory()

	all := d.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(all))
	assert.Equal(t, "WoodsHill", all[0].Name)
	assert.Equal(t, []restaurant.Dish{{Name: "Swordfish grill", Price: 27}, {Name: "Roasted Broccoli", Price: 11}}, all[0].Dishes)
	assert.Len(t, all[1].Dishes, 3)
	assert.Equal(t, "Cod cakes", all[2].Dishes[2].Name)
}

func TestGetByID(t *testing.T) {
	d := restaurant.NewDirectory()

	r, ok := d.GetByID(2)
	require.True(t, ok)
	assert.Equal(t, "Fiorellas", r.Name)

	_, ok = d.GetByID(42)
	assert.False(t, ok)
}

func TestCreate(t *testing.T) {
	d := restaurant.NewDirectory()

	created := d.Create("A", "B")
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, "A", created.Name)
	assert.Equal(t, "B", created.Description)
	assert.NotNil(t, created.Dishes)
	assert.Empty(t, created.Dishes)
	assert.Equal(t, 4, d.Len())

	got, ok := d.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestUpdate(t *testing.T) {
	d := restaurant.NewDirectory()

	updated, err := d.Update(1, restaurant.Changes{Name: restaurant.StringPtr("Woods Hill")})
	require.NoError(t, err)
	assert.Equal(t, "Woods Hill", updated.Name)
	assert.Equal(t, "American cuisine, farm to table, with fresh produce every day", updated.Description)

	got, _ := d.GetByID(1)
	assert.Equal(t, updated, got)

	updated, err = d.Update(1, restaurant.Changes{Description: restaurant.StringPtr("Seafood")})
	require.NoError(t, err)
	assert.Equal(t, "Woods Hill", updated.Name)
	assert.Equal(t, "Seafood", updated.Description)
}

func TestUpdateIgnoresOmittedAndEmptyFields(t *testing.T) {
	d := restaurant.NewDirectory()
	before, _ := d.GetByID(3)

	updated, err := d.Update(3, restaurant.Changes{})
	require.NoError(t, err)
	assert.Equal(t, before, updated)

	updated, err = d.Update(3, restaurant.Changes{Name: restaurant.StringPtr(""), Description: restaurant.StringPtr("")})
	require.NoError(t, err)
	assert.Equal(t, before, updated)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	d := restaurant.NewDirectory()

	_, err := d.Update(99, restaurant.Changes{Name: restaurant.StringPtr("X")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, restaurant.ErrNotFound))
	assert.Equal(t, []interface{}{"id", 99}, errors.GetDetails(err))
}

func TestDelete(t *testing.T) {
	d := restaurant.NewDirectory()

	assert.True(t, d.Delete(2))
	assert.Equal(t, []int{1, 3}, ids(d.GetAll()))

	assert.False(t, d.Delete(2))
	assert.Equal(t, []int{1, 3}, ids(d.GetAll()))
}

// With length based ids a create after a delete reuses the id of a record
// that is still present.
func TestLengthBasedIDsCollideAfterDelete(t *testing.T) {
	d := restaurant.NewDirectory(restaurant.WithIDGenerator(restaurant.LengthBased{}))

	require.True(t, d.Delete(2))
	created := d.Create("X", "Y")

	assert.Equal(t, 3, created.ID)
	assert.Equal(t, []int{1, 3, 3}, ids(d.GetAll()))

	// lookups resolve to the first record with the id
	first, _ := d.GetByID(3)
	assert.Equal(t, "Karma", first.Name)
}

func TestSequenceIDsAreNeverReused(t *testing.T) {
	d := restaurant.NewDirectory()

	require.True(t, d.Delete(3))
	created := d.Create("X", "Y")

	assert.Equal(t, 4, created.ID)
	assert.Equal(t, []int{1, 2, 4}, ids(d.GetAll()))
}

func TestSequenceStartsAfterHighestSeed(t *testing.T) {
	d := restaurant.NewDirectory(restaurant.WithSeed(restaurant.Restaurant{ID: 10, Name: "Ten"}))

	assert.Equal(t, 11, d.Create("Eleven", "").ID)
}

func TestEmptySeed(t *testing.T) {
	d := restaurant.NewDirectory(restaurant.WithSeed())

	assert.Empty(t, d.GetAll())
	assert.Equal(t, 1, d.Create("first", "").ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	d := restaurant.NewDirectory()

	r, _ := d.GetByID(1)
	r.Name = "changed"
	r.Dishes[0].Price = 0

	all := d.GetAll()
	all[0].Dishes[1].Name = "changed"

	again, _ := d.GetByID(1)
	assert.Equal(t, "WoodsHill", again.Name)
	assert.Equal(t, 27, again.Dishes[0].Price)
	assert.Equal(t, "Roasted Broccoli", again.Dishes[1].Name)
}

func TestListenerReceivesEvents(t *testing.T) {
	var events []restaurant.Event
	d := restaurant.NewDirectory(restaurant.WithListener(func(e restaurant.Event) {
		events = append(events, e)
	}))

	created := d.Create("A", "B")
	_, err := d.Update(created.ID, restaurant.Changes{Name: restaurant.StringPtr("C")})
	require.NoError(t, err)
	d.Delete(created.ID)

	// failed mutations are silent
	d.Delete(created.ID)
	_, _ = d.Update(created.ID, restaurant.Changes{})

	require.Len(t, events, 3)
	assert.Equal(t, restaurant.Created, events[0].Type)
	assert.Equal(t, "A", events[0].Restaurant.Name)
	assert.Equal(t, restaurant.Updated, events[1].Type)
	assert.Equal(t, "C", events[1].Restaurant.Name)
	assert.Equal(t, restaurant.Deleted, events[2].Type)
	assert.Equal(t, created.ID, events[2].Restaurant.ID)
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	d := restaurant.NewDirectory(restaurant.WithSeed())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Create("n", "d")
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, r := range d.GetAll() {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, 50)
}

func TestNewIDGenerator(t *testing.T) {
	g, err := restaurant.NewIDGenerator("")
	require.NoError(t, err)
	assert.IsType(t, &restaurant.Sequence{}, g)

	g, err = restaurant.NewIDGenerator(restaurant.IDsLength)
	require.NoError(t, err)
	assert.Equal(t, restaurant.LengthBased{}, g)

	_, err = restaurant.NewIDGenerator("uuid")
	assert.Error(t, err)
}
