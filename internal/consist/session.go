package consist

import (
	"context"

	"github.com/vk/kujuconsist/internal/train"
)

// Resolver applies a named vehicle definition to a car.
type Resolver interface {
	Resolve(ctx context.Context, folder, name string, isEngine bool, car *train.Car) error
}

// Session is the state of one consist parse. It is passed explicitly
// through every recursive call and must not be shared between loads.
type Session struct {
	Train    *train.Train
	Factory  train.CarFactory
	Resolver Resolver

	// current is the slot the next vehicle entry fills, -1 before the
	// first UiD.
	current int
	// car is the car under construction.
	car *train.Car
	// reverse is set by Flip and consumed by the next completed entry.
	reverse bool
}

// NewSession starts a parse that appends cars to t.
func NewSession(t *train.Train, factory train.CarFactory, resolver Resolver) *Session {
	if factory == nil {
		factory = train.DefaultFactory{}
	}
	return &Session{
		Train:    t,
		Factory:  factory,
		Resolver: resolver,
		current:  -1,
	}
}

// newCar replaces the car under construction with a fresh one from the
// factory.
func (s *Session) newCar() *train.Car {
	s.car = s.Factory.NewCar(s.Train, s.current)
	return s.car
}
