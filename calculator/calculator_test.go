package calculator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcycle/fluid"
)

func scenario() Input {
	return Input{
		Refrigerant: "R134a",
		Reference:   fluid.ASHRAE,
		Evaporator:  Boundary{Kind: Temperature, Value: 40},
		Condenser:   Boundary{Kind: Temperature, Value: 110},
		Superheat:   10,
		Subcooling:  10,
		Efficiency:  70,
		MassFlow:    5,
	}
}

func TestEvaluateScenario(t *testing.T) {
	r, err := Evaluate(context.Background(), scenario(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Empty(t, r.Warnings)
	assert.InDelta(t, 283.15, r.States[0].T, 0.01)
	assert.InDelta(t, 310.93, r.States[2].T, 0.01)
	assert.InDelta(t, 0.245, r.States[3].Q, 0.01)
	assert.Equal(t, -1.0, r.States[0].Q)

	p := r.Performance
	assert.InDelta(t, 1374.5, p.CompressorWork, 15)
	assert.InDelta(t, 5841.2, p.HeatRemoved, 60)
	assert.InDelta(t, 4.25, p.COP, 0.05)
	assert.InDelta(t, 1.661, p.Tons, 0.02)

	for i, sp := range r.States {
		assert.Equal(t, i+1, sp.Index)
		assert.Equal(t, stateNames[i], sp.Name)
	}
}

// a condenser exit colder than the evaporator leaves subcooled liquid
// after the valve
func subcooledValveExit() Input {
	return Input{
		Refrigerant: "R22",
		Reference:   fluid.ASHRAE,
		Evaporator:  Boundary{Kind: Temperature, Value: 40},
		Condenser:   Boundary{Kind: Temperature, Value: 60},
		Superheat:   30,
		Subcooling:  30,
		Efficiency:  70,
		MassFlow:    5,
	}
}

func TestEvaluateWarnsOutsideTwoPhase(t *testing.T) {
	for _, name := range fluid.Names {
		for _, ref := range fluid.ReferenceStates {
			in := subcooledValveExit()
			in.Refrigerant = name
			in.Reference = ref
			r, err := Evaluate(context.Background(), in, Options{RequireOrdering: true})
			require.NoError(t, err, "%s %s", name, ref)

			assert.Equal(t, []string{warnNotTwoPhase}, r.Warnings, name)
			assert.Equal(t, -1.0, r.States[3].Q, name)
			assert.Equal(t, r.States[2].H, r.States[3].H, name)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	a, err := Evaluate(context.Background(), scenario(), Options{})
	require.NoError(t, err)
	b, err := Evaluate(context.Background(), scenario(), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.States, b.States)
	assert.Equal(t, a.Performance, b.Performance)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEvaluateInvariants(t *testing.T) {
	for _, name := range fluid.Names {
		for _, ref := range fluid.ReferenceStates {
			in := scenario()
			in.Refrigerant = name
			in.Reference = ref
			r, err := Evaluate(context.Background(), in, Options{RequireOrdering: true})
			require.NoError(t, err, "%s %s", name, ref)

			h1, h2, h3, h4 := r.States[0].H, r.States[1].H, r.States[2].H, r.States[3].H
			assert.GreaterOrEqual(t, h2, h1, name)
			assert.Equal(t, h3, h4, name)

			p := r.Performance
			assert.InDelta(t, p.CompressorWork+p.HeatRemoved, p.HeatRejected, 1e-6*p.HeatRejected, name)
			assert.Equal(t, p.HeatRemoved/p.CompressorWork, p.COP, name)
			assert.GreaterOrEqual(t, r.States[3].Q, 0.0, name)
			assert.LessOrEqual(t, r.States[3].Q, 1.0, name)
		}
	}
}

func TestEvaluateReferenceStateDoesNotChangePerformance(t *testing.T) {
	var cops []float64
	for _, ref := range fluid.ReferenceStates {
		in := scenario()
		in.Reference = ref
		r, err := Evaluate(context.Background(), in, Options{})
		require.NoError(t, err)
		cops = append(cops, r.Performance.COP)
	}
	assert.InDelta(t, cops[0], cops[1], 1e-6)
	assert.InDelta(t, cops[0], cops[2], 1e-6)
}

func TestEvaluatePressureBoundaries(t *testing.T) {
	in := scenario()
	in.Evaporator = Boundary{Kind: Pressure, Value: 49.56}
	in.Condenser = Boundary{Kind: Pressure, Value: 161.2}
	r, err := Evaluate(context.Background(), in, Options{RequireOrdering: true})
	require.NoError(t, err)

	// about 40 °F and 110 °F saturation
	assert.InDelta(t, 277.59, r.Evaporator.T, 1)
	assert.InDelta(t, 316.48, r.Condenser.T, 1)
}

func TestEvaluateIdealCompressor(t *testing.T) {
	in := scenario()
	in.Efficiency = 100
	r, err := Evaluate(context.Background(), in, Options{})
	require.NoError(t, err)
	assert.InDelta(t, r.States[0].S, r.States[1].S, 1e-3)
}

func TestEvaluateZeroSuperheatAndSubcooling(t *testing.T) {
	in := scenario()
	in.Superheat = 0
	in.Subcooling = 0
	r, err := Evaluate(context.Background(), in, Options{})
	require.NoError(t, err)
	assert.InDelta(t, r.Evaporator.T, r.States[0].T, 1e-3)
	assert.InDelta(t, r.Condenser.T, r.States[2].T, 1e-3)
}

func TestEvaluateValidation(t *testing.T) {
	cases := map[string]func(*Input){
		"refrigerant":    func(in *Input) { in.Refrigerant = "R12" },
		"superheat":      func(in *Input) { in.Superheat = 31 },
		"subcooling":     func(in *Input) { in.Subcooling = -1 },
		"low efficiency": func(in *Input) { in.Efficiency = 19 },
		"efficiency":     func(in *Input) { in.Efficiency = 101 },
		"mass flow":      func(in *Input) { in.MassFlow = 0 },
		"nan":            func(in *Input) { in.Superheat = math.NaN() },
		"pressure":       func(in *Input) { in.Evaporator = Boundary{Kind: Pressure, Value: -5} },
	}
	for name, mutate := range cases {
		in := scenario()
		mutate(&in)
		_, err := Evaluate(context.Background(), in, Options{})
		assert.True(t, errors.Is(err, ErrInvalidInput), name)
	}
}

func TestEvaluateOrdering(t *testing.T) {
	in := scenario()
	in.Evaporator, in.Condenser = in.Condenser, in.Evaporator

	_, err := Evaluate(context.Background(), in, Options{RequireOrdering: true})
	assert.True(t, errors.Is(err, ErrOrdering))

	_, err = Evaluate(context.Background(), in, Options{})
	assert.False(t, errors.Is(err, ErrOrdering))
}

func TestEvaluateAboveCritical(t *testing.T) {
	in := scenario()
	in.Condenser = Boundary{Kind: Pressure, Value: 1000}
	_, err := Evaluate(context.Background(), in, Options{})
	assert.True(t, errors.Is(err, fluid.ErrOutOfRange))
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, scenario(), Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewPerformance(t *testing.T) {
	p := NewPerformance(0.1, 250e3, 280e3, 100e3, 100e3)
	assert.InDelta(t, 3000, p.CompressorWork, 1e-9)
	assert.InDelta(t, 15000, p.HeatRemoved, 1e-9)
	assert.InDelta(t, 18000, p.HeatRejected, 1e-9)
	assert.Equal(t, 5.0, p.COP)
	assert.InDelta(t, 3.0/p.Tons, p.KWPerTon, 1e-9)
	assert.InDelta(t, 3.0, p.CompressorKW(), 1e-12)

	zero := NewPerformance(0.1, 250e3, 250e3, 250e3, 250e3)
	assert.Equal(t, 0.0, zero.COP)
	assert.True(t, math.IsInf(zero.KWPerTon, 1))
}

func TestBoundaryKindText(t *testing.T) {
	var k BoundaryKind
	require.NoError(t, k.UnmarshalText([]byte("2")))
	assert.Equal(t, Temperature, k)
	require.NoError(t, k.UnmarshalText([]byte("Pressure (psia)")))
	assert.Equal(t, Pressure, k)
	assert.Error(t, k.UnmarshalText([]byte("3")))

	b, err := Temperature.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "temperature", string(b))
	assert.Equal(t, "40 (Temperature (°F))", Boundary{Kind: Temperature, Value: 40}.String())
}

func TestCheckOrdering(t *testing.T) {
	low := Saturation{T: 270, P: 3e5}
	high := Saturation{T: 310, P: 9e5}
	assert.NoError(t, CheckOrdering(low, high))
	assert.ErrorIs(t, CheckOrdering(high, low), ErrOrdering)
	assert.ErrorIs(t, CheckOrdering(low, Saturation{T: 310, P: 3e5}), ErrOrdering)
}
