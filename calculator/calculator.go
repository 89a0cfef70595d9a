// Package calculator evaluates a basic vapor-compression refrigeration
// cycle: evaporator, compressor, condenser and expansion valve.
package calculator

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"refcycle/fluid"
	"refcycle/units"
)

// state point names, in cycle order
var stateNames = [4]string{"Evaporator Exit", "Compressor Exit", "Condenser Exit", "Expansion Valve Exit"}

const warnNotTwoPhase = "Expansion valve output is not in two-phase region!"

// Options tune behavior that differs between front ends.
type Options struct {
	// RequireOrdering rejects a condenser whose saturation temperature or
	// pressure is not above the evaporator's.
	RequireOrdering bool
}

// Saturation is a resolved saturation boundary, SI units.
type Saturation struct {
	T float64 `json:"t"` // K
	P float64 `json:"p"` // Pa
}

// StatePoint is one numbered point of the cycle.
type StatePoint struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	fluid.State
}

// Result is the outcome of one cycle evaluation.
type Result struct {
	ID          string        `json:"id"`
	Input       Input         `json:"input"`
	Evaporator  Saturation    `json:"evaporator"`
	Condenser   Saturation    `json:"condenser"`
	States      [4]StatePoint `json:"states"`
	Performance Performance   `json:"performance"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// Resolve turns an IP boundary into its saturation temperature and pressure.
func Resolve(f *fluid.Fluid, b Boundary) (Saturation, error) {
	if b.Kind == Pressure {
		P := units.ToSI(units.Pressure, b.Value)
		T, err := f.SaturationTemperature(P)
		if err != nil {
			return Saturation{}, err
		}
		return Saturation{T: T, P: P}, nil
	}
	T := units.ToSI(units.Temperature, b.Value)
	P, err := f.SaturationPressure(T)
	if err != nil {
		return Saturation{}, err
	}
	return Saturation{T: T, P: P}, nil
}

// CheckOrdering requires the condenser to sit strictly above the evaporator
// in both temperature and pressure.
func CheckOrdering(evap, cond Saturation) error {
	if cond.T <= evap.T {
		return fmt.Errorf("%w: condenser saturation temperature must be greater than evaporator saturation temperature", ErrOrdering)
	}
	if cond.P <= evap.P {
		return fmt.Errorf("%w: condenser pressure must be greater than evaporator pressure", ErrOrdering)
	}
	return nil
}

// Evaluate runs the four state points and the performance metrics for in.
// The context is checked between state points.
func Evaluate(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f, err := fluid.New(in.Refrigerant, in.Reference)
	if err != nil {
		return nil, err
	}

	evap, err := Resolve(f, in.Evaporator)
	if err != nil {
		return nil, fmt.Errorf("evaporator: %w", err)
	}
	cond, err := Resolve(f, in.Condenser)
	if err != nil {
		return nil, fmt.Errorf("condenser: %w", err)
	}
	if opts.RequireOrdering {
		if err := CheckOrdering(evap, cond); err != nil {
			return nil, err
		}
	}

	eta := in.Efficiency / 100
	superheat := math.Max(minTemperatureDK, units.ToSI(units.TemperatureDelta, in.Superheat))
	subcooling := math.Max(minTemperatureDK, units.ToSI(units.TemperatureDelta, in.Subcooling))
	massFlow := units.ToSI(units.MassFlow, in.MassFlow)

	r := &Result{
		ID:         uuid.NewString(),
		Input:      in,
		Evaporator: evap,
		Condenser:  cond,
	}

	// 1: evaporator exit
	s1, err := f.StateTP(evap.T+superheat, evap.P)
	if err != nil {
		return nil, fmt.Errorf("state 1: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2: compressor exit
	ideal, err := f.StatePS(cond.P, s1.S)
	if err != nil {
		return nil, fmt.Errorf("state 2 (isentropic): %w", err)
	}
	s2, err := f.StatePH(cond.P, s1.H+(ideal.H-s1.H)/eta)
	if err != nil {
		return nil, fmt.Errorf("state 2: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3: condenser exit
	liq, _, err := f.Saturation(cond.P)
	if err != nil {
		return nil, fmt.Errorf("state 3 (saturated liquid): %w", err)
	}
	s3, err := f.StateTP(liq.T-subcooling, cond.P)
	if err != nil {
		return nil, fmt.Errorf("state 3: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4: expansion valve exit, isenthalpic
	s4, err := f.StatePH(evap.P, s3.H)
	if err != nil {
		return nil, fmt.Errorf("state 4: %w", err)
	}
	if s4.Q < 0 || s4.Q > 1 {
		r.Warnings = append(r.Warnings, warnNotTwoPhase)
		log.WithFields(log.Fields{
			"id":      r.ID,
			"quality": s4.Q,
		}).Warn(warnNotTwoPhase)
	}

	for i, s := range []fluid.State{s1, s2, s3, s4} {
		r.States[i] = StatePoint{Index: i + 1, Name: stateNames[i], State: s}
	}
	r.Performance = NewPerformance(massFlow, s1.H, s2.H, s3.H, s4.H)

	log.WithFields(log.Fields{
		"id":          r.ID,
		"refrigerant": f.Name,
		"reference":   f.Ref,
		"cop":         r.Performance.COP,
		"tons":        r.Performance.Tons,
	}).Info("cycle evaluated")
	return r, nil
}
