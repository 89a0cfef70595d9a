package units

import "fmt"

// Kind names a physical quantity with a fixed IP <-> SI conversion.
type Kind int

const (
	Temperature      Kind = iota // °F <-> K
	TemperatureDelta             // °F <-> K (difference)
	Pressure                     // psia <-> Pa
	Enthalpy                     // BTU/lbm <-> J/kg
	Entropy                      // BTU/(lbm·°F) <-> J/(kg·K)
	Density                      // lbm/ft³ <-> kg/m³
	MassFlow                     // lbm/min <-> kg/s
	Power                        // BTU/hr <-> W
)

// base factors
const (
	Pound        = 0.45359237        // kg
	Foot         = 0.3048            // m
	PSI          = 6894.757293168361 // Pa
	BTU          = 1055.05585262     // J, International Table
	BTUPerPound  = BTU / Pound       // J/kg
	BTUPerHour   = BTU / 3600        // W
	TonOfRefrig  = 12000.0           // BTU/hr
	rankinePerK  = 1.8
	fahrenheitK0 = 459.67
)

var names = map[Kind]string{
	Temperature:      "°F",
	TemperatureDelta: "Δ°F",
	Pressure:         "psia",
	Enthalpy:         "BTU/lb",
	Entropy:          "BTU/lbm·°F",
	Density:          "lbm/ft³",
	MassFlow:         "lb/min",
	Power:            "BTU/hr",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ToSI converts an IP value of the given kind to SI.
func ToSI(k Kind, v float64) float64 {
	switch k {
	case Temperature:
		return (v + fahrenheitK0) / rankinePerK
	case TemperatureDelta:
		return v / rankinePerK
	case Pressure:
		return v * PSI
	case Enthalpy:
		return v * BTUPerPound
	case Entropy:
		return v * BTUPerPound * rankinePerK
	case Density:
		return v * Pound / (Foot * Foot * Foot)
	case MassFlow:
		return v * Pound / 60
	case Power:
		return v * BTUPerHour
	}
	return v
}

// FromSI converts an SI value of the given kind to IP.
func FromSI(k Kind, v float64) float64 {
	switch k {
	case Temperature:
		return v*rankinePerK - fahrenheitK0
	case TemperatureDelta:
		return v * rankinePerK
	case Pressure:
		return v / PSI
	case Enthalpy:
		return v / BTUPerPound
	case Entropy:
		return v / (BTUPerPound * rankinePerK)
	case Density:
		return v * (Foot * Foot * Foot) / Pound
	case MassFlow:
		return v * 60 / Pound
	case Power:
		return v / BTUPerHour
	}
	return v
}

// Tons converts a heat rate in watts to tons of refrigeration.
func Tons(watts float64) float64 {
	return FromSI(Power, watts) / TonOfRefrig
}
