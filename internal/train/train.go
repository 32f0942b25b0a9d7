package train

const (
	// frontAxleFactor and rearAxleFactor place the bogies as a fraction of
	// the car length from its centre.
	frontAxleFactor = 0.4
	rearAxleFactor  = -0.4

	couplerMinDistance = 0.9 * 0.3
	couplerMaxDistance = 1.1 * 0.3

	defaultNotches = 8
)

// Coupler joins two adjacent cars.
type Coupler struct {
	MinimumDistance float64
	MaximumDistance float64
	Front           *Car
	Rear            *Car
}

// Handles are the driver controls a loaded consist starts with.
type Handles struct {
	PowerNotches      int
	BrakeNotches      int
	HasReverser       bool
	HasEmergencyBrake bool
	HasHoldBrake      bool
}

// Train is the car sequence a consist load produces.
type Train struct {
	Cars     []*Car
	Couplers []Coupler
	Handles  Handles
}

// New returns an empty train with the default handle set.
func New() *Train {
	return &Train{
		Handles: Handles{
			PowerNotches:      defaultNotches,
			BrakeNotches:      defaultNotches,
			HasReverser:       true,
			HasEmergencyBrake: true,
			HasHoldBrake:      true,
		},
	}
}

// AssignRoles sets axle, beacon and door-independent geometry for every
// car from its position in the sequence. It must run after the sequence
// is complete: the rear role depends on knowing which car is last.
func (t *Train) AssignRoles() {
	last := len(t.Cars) - 1
	for i, c := range t.Cars {
		if c == nil {
			continue
		}
		c.Index = i
		c.FrontAxle.Position = frontAxleFactor * c.Length
		c.RearAxle.Position = rearAxleFactor * c.Length
		c.BeaconReceiver.Position = 0.5 * c.Length

		if i == 0 {
			c.FrontAxle.TriggerType = TriggerFrontCarFrontAxle
			c.BeaconReceiver.TriggerType = TriggerTrainFront
		} else {
			c.FrontAxle.TriggerType = TriggerOtherCarFrontAxle
			c.BeaconReceiver.TriggerType = TriggerNone
		}
		if i == last {
			c.RearAxle.TriggerType = TriggerRearCarRearAxle
		} else {
			c.RearAxle.TriggerType = TriggerOtherCarRearAxle
		}
	}
}

// Couple links every pair of adjacent cars.
func (t *Train) Couple() {
	t.Couplers = t.Couplers[:0]
	for i := 0; i+1 < len(t.Cars); i++ {
		t.Couplers = append(t.Couplers, Coupler{
			MinimumDistance: couplerMinDistance,
			MaximumDistance: couplerMaxDistance,
			Front:           t.Cars[i],
			Rear:            t.Cars[i+1],
		})
	}
}
