package train

// CarFactory builds the physics side of a new car. The consist loader only
// needs a car to fill in; brake and power modelling belong to the factory.
type CarFactory interface {
	NewCar(t *Train, index int) *Car
}

// BrakeConfig is the brake topology a factory attaches to a car. The
// values are pressures in pascals and are not interpreted by the loader.
type BrakeConfig struct {
	MainReservoirMinimum   float64
	MainReservoirMaximum   float64
	CompressorRate         float64
	EqualizingNormal       float64
	BrakePipeNormal        float64
	AuxiliaryReservoirMax  float64
	BrakeCylinderEmergency float64
	BrakeCylinderService   float64
	StraightAirPipeRelease float64
	JerkUp                 float64
	JerkDown               float64
}

// DefaultFactory builds cars with a generic electro-pneumatic brake, the
// same for every vehicle, until brake data is read from vehicle files.
type DefaultFactory struct{}

// NewCar implements CarFactory.
func (DefaultFactory) NewCar(t *Train, index int) *Car {
	return &Car{
		Index: index,
		Brake: BrakeConfig{
			MainReservoirMinimum:   690000.0,
			MainReservoirMaximum:   780000.0,
			CompressorRate:         5000.0,
			EqualizingNormal:       1.005 * 490000.0,
			BrakePipeNormal:        490000.0,
			AuxiliaryReservoirMax:  0.975 * 490000.0,
			BrakeCylinderEmergency: 440000.0,
			BrakeCylinderService:   300000.0,
			StraightAirPipeRelease: 300000.0,
			JerkUp:                 10,
			JerkDown:               10,
		},
	}
}
