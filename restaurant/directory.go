package restaurant

import (
	"sync"

	"emperror.dev/errors"
)

// Directory is the process-wide ordered collection of restaurants. All
// access goes through its methods; every record handed out is a copy.
type Directory struct {
	mu          sync.RWMutex
	restaurants []Restaurant
	ids         IDGenerator
	listeners   []Listener
}

type Option func(*Directory)

// WithSeed replaces the initial records.
func WithSeed(records ...Restaurant) Option {
	return func(d *Directory) {
		d.restaurants = make([]Restaurant, 0, len(records))
		for _, r := range records {
			d.restaurants = append(d.restaurants, r.clone())
		}
	}
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(d *Directory) {
		if ids != nil {
			d.ids = ids
		}
	}
}

func WithListener(l Listener) Option {
	return func(d *Directory) {
		if l != nil {
			d.listeners = append(d.listeners, l)
		}
	}
}

// NewDirectory builds a directory holding the default seed records unless
// WithSeed says otherwise.
func NewDirectory(options ...Option) *Directory {
	d := &Directory{ids: NewSequence()}
	WithSeed(Seed()...)(d)

	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}

	for _, r := range d.restaurants {
		d.ids.Observe(r.ID)
	}
	return d
}

func (d *Directory) GetByID(id int) (Restaurant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(id)
	if i < 0 {
		return Restaurant{}, false
	}
	return d.restaurants[i].clone(), true
}

func (d *Directory) GetAll() []Restaurant {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Restaurant, 0, len(d.restaurants))
	for _, r := range d.restaurants {
		out = append(out, r.clone())
	}
	return out
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.restaurants)
}

// Create appends a restaurant with no dishes.
func (d *Directory) Create(name, description string) Restaurant {
	d.mu.Lock()
	r := Restaurant{
		ID:          d.ids.Next(len(d.restaurants)),
		Name:        name,
		Description: description,
		Dishes:      []Dish{},
	}
	d.restaurants = append(d.restaurants, r)
	d.mu.Unlock()

	created := r.clone()
	d.notify(Event{Type: Created, Restaurant: created})
	return created
}

// Update applies the non-empty fields of changes to the first restaurant
// with the given id.
func (d *Directory) Update(id int, changes Changes) (Restaurant, error) {
	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return Restaurant{}, errors.WithDetails(ErrNotFound, "id", id)
	}
	changes.apply(&d.restaurants[i])
	updated := d.restaurants[i].clone()
	d.mu.Unlock()

	d.notify(Event{Type: Updated, Restaurant: updated.clone()})
	return updated, nil
}

// Delete removes the first restaurant with the given id and reports whether
// one was found.
func (d *Directory) Delete(id int) bool {
	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return false
	}
	removed := d.restaurants[i]
	last := len(d.restaurants) - 1
	copy(d.restaurants[i:], d.restaurants[i+1:])
	d.restaurants[last] = Restaurant{}
	d.restaurants = d.restaurants[:last]
	d.mu.Unlock()

	d.notify(Event{Type: Deleted, Restaurant: removed})
	return true
}

// caller holds d.mu
func (d *Directory) indexOf(id int) int {
	for i := range d.restaurants {
		if d.restaurants[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Directory) notify(e Event) {
	for _, l := range d.listeners {
		l(e)
	}
}
