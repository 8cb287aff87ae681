// Package wing turns ranked airfoil rows into concrete rectangular wing
// geometries, evaluates them through an injected aerodynamic evaluator
// and keeps the configurations that can lift a required takeoff weight.
package wing

// Environment carries the physical constants used for chord sizing and
// lift computation. It is passed explicitly into each component so
// tests can override values without shared global state.
type Environment struct {
	AirDensity         float64 // kg/m^3
	KinematicViscosity float64 // m^2/s
	Gravity            float64 // m/s^2
}

// StandardEnvironment returns sea-level conditions at 15 degrees C.
func StandardEnvironment() Environment {
	return Environment{
		AirDensity:         1.225,
		KinematicViscosity: 1.81e-5,
		Gravity:            9.81,
	}
}

// Reynolds returns the Reynolds number of a chord at the given velocity,
// the inverse of Designer.Chord.
func (e Environment) Reynolds(velocity, chord float64) float64 {
	return e.AirDensity * velocity * chord / e.KinematicViscosity
}
