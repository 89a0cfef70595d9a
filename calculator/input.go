package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"refcycle/fluid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOrdering     = errors.New("condenser must be above evaporator")
)

// input limits, IP units
const (
	MaxSuperheat     = 30.0 // °F
	MaxSubcooling    = 30.0 // °F
	MinEfficiency    = 20.0 // %
	MaxEfficiency    = 100.0
	minTemperatureDK = 1e-4 // K, floor for superheat and subcooling
)

// BoundaryKind selects how a saturation boundary is given.
type BoundaryKind int

const (
	Pressure    BoundaryKind = iota // psia
	Temperature                     // °F
)

func (k BoundaryKind) String() string {
	if k == Temperature {
		return "Temperature (°F)"
	}
	return "Pressure (psia)"
}

func (k BoundaryKind) MarshalText() ([]byte, error) {
	if k == Temperature {
		return []byte("temperature"), nil
	}
	return []byte("pressure"), nil
}

// UnmarshalText accepts "pressure"/"temperature", the menu labels, or "1"/"2"
// as the console numbers them.
func (k *BoundaryKind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	switch {
	case s == "1" || strings.HasPrefix(s, "pressure"):
		*k = Pressure
	case s == "2" || strings.HasPrefix(s, "temperature"):
		*k = Temperature
	default:
		return fmt.Errorf("%w: boundary kind %q", ErrInvalidInput, string(b))
	}
	return nil
}

// Boundary is one saturation boundary condition in IP units.
type Boundary struct {
	Kind  BoundaryKind `json:"kind"`
	Value float64      `json:"value"`
}

func (b Boundary) String() string {
	return fmt.Sprintf("%s (%s)", strconv.FormatFloat(b.Value, 'f', -1, 64), b.Kind)
}

// Input holds everything a cycle run needs, in IP units.
type Input struct {
	Refrigerant string               `json:"refrigerant"`
	Reference   fluid.ReferenceState `json:"reference_state"`
	Evaporator  Boundary             `json:"evaporator"`
	Condenser   Boundary             `json:"condenser"`
	Superheat   float64              `json:"superheat"`  // °F
	Subcooling  float64              `json:"subcooling"` // °F
	Efficiency  float64              `json:"efficiency"` // isentropic, %
	MassFlow    float64              `json:"mass_flow"`  // lb/min
}

// DefaultInput is the dashboard's starting form.
func DefaultInput() Input {
	return Input{
		Refrigerant: fluid.Names[0],
		Reference:   fluid.ASHRAE,
		Evaporator:  Boundary{Kind: Temperature, Value: 40},
		Condenser:   Boundary{Kind: Temperature, Value: 110},
		Superheat:   10,
		Subcooling:  10,
		Efficiency:  70,
		MassFlow:    5,
	}
}

// Validate checks the numeric ranges. Saturation limits are left to the
// property engine.
func (in Input) Validate() error {
	known := false
	for _, n := range fluid.Names {
		if strings.EqualFold(n, strings.TrimSpace(in.Refrigerant)) {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: refrigerant %q, choose one of %s", ErrInvalidInput, in.Refrigerant, strings.Join(fluid.Names, ", "))
	}
	for _, v := range []float64{in.Evaporator.Value, in.Condenser.Value, in.Superheat, in.Subcooling, in.Efficiency, in.MassFlow} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-numeric value", ErrInvalidInput)
		}
	}
	if in.Superheat < 0 || in.Superheat > MaxSuperheat {
		return fmt.Errorf("%w: superheat must be 0-30 °F", ErrInvalidInput)
	}
	if in.Subcooling < 0 || in.Subcooling > MaxSubcooling {
		return fmt.Errorf("%w: subcooling must be 0-30 °F", ErrInvalidInput)
	}
	if in.Efficiency < MinEfficiency || in.Efficiency > MaxEfficiency {
		return fmt.Errorf("%w: isentropic efficiency must be 20-100", ErrInvalidInput)
	}
	if in.MassFlow <= 0 {
		return fmt.Errorf("%w: mass flow rate must be positive", ErrInvalidInput)
	}
	if in.Evaporator.Kind == Pressure && in.Evaporator.Value <= 0 {
		return fmt.Errorf("%w: evaporator pressure must be positive", ErrInvalidInput)
	}
	if in.Condenser.Kind == Pressure && in.Condenser.Value <= 0 {
		return fmt.Errorf("%w: condenser pressure must be positive", ErrInvalidInput)
	}
	return nil
}
