package train

import "github.com/vk/kujuconsist/internal/object"

// TriggerType is the event role an axle or beacon receiver plays.
type TriggerType int

const (
	TriggerNone TriggerType = iota
	TriggerTrainFront
	TriggerFrontCarFrontAxle
	TriggerOtherCarFrontAxle
	TriggerRearCarRearAxle
	TriggerOtherCarRearAxle
)

func (t TriggerType) String() string {
	switch t {
	case TriggerTrainFront:
		return "TrainFront"
	case TriggerFrontCarFrontAxle:
		return "FrontCarFrontAxle"
	case TriggerOtherCarFrontAxle:
		return "OtherCarFrontAxle"
	case TriggerRearCarRearAxle:
		return "RearCarRearAxle"
	case TriggerOtherCarRearAxle:
		return "OtherCarRearAxle"
	default:
		return "None"
	}
}

// Axle is a bogie position relative to the car centre, in metres.
type Axle struct {
	Position    float64
	TriggerType TriggerType
}

// BeaconReceiver picks up track beacons at Position from the car front.
type BeaconReceiver struct {
	Position    float64
	TriggerType TriggerType
}

// Door is one side's door set. Side is -1 for left and 1 for right.
type Door struct {
	Side           int
	DeploymentTime float64
	OpenOffset     float64
}

// Car is one vehicle slot of a consist.
type Car struct {
	Index int

	// Name is the vehicle name the consist asked for.
	Name string
	// WagonFile and EngineFile are the files the name resolved to.
	WagonFile  string
	EngineFile string
	// Type is the free-text classification from the vehicle file.
	Type string

	Width     float64
	Height    float64
	Length    float64
	EmptyMass float64

	IsMotorCar bool
	Reversed   bool

	Doors          []Door
	FrontAxle      Axle
	RearAxle       Axle
	BeaconReceiver BeaconReceiver

	Brake BrakeConfig

	// Object is the car body geometry, nil when none could be loaded.
	Object object.Unified
}

// Reverse turns the car end for end.
func (c *Car) Reverse() {
	c.Reversed = !c.Reversed
}

// LoadCarSections attaches the car body geometry.
func (c *Car) LoadCarSections(obj object.Unified) {
	c.Object = obj
}

// Resolved reports whether a vehicle file was matched for the car body.
func (c *Car) Resolved() bool {
	return c.WagonFile != ""
}
