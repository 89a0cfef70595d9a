package fluid

import (
	"fmt"
	"math"
)

// StateTP returns the single-phase state at temperature T and pressure P.
// Below the critical pressure the phase follows the saturation temperature;
// at exactly saturation the vapor branch is used.
func (f *Fluid) StateTP(T, P float64) (State, error) {
	if err := f.checkT(T); err != nil {
		return State{}, err
	}
	if err := f.checkP(P); err != nil {
		return State{}, err
	}

	want := PhaseUnknown
	if P < f.Pc && T < f.Tc {
		if Tsat, err := f.SaturationTemperature(P); err == nil {
			want = PhaseGas
			if T < Tsat {
				want = PhaseLiquid
			}
		}
	}
	return f.single(T, P, want)
}

// StatePH returns the state at pressure P and specific enthalpy h, which is
// a two-phase mixture when h lies between the saturated liquid and vapor
// enthalpies.
func (f *Fluid) StatePH(P, h float64) (State, error) {
	st, err := f.flash(P, h, func(s State) float64 { return s.H }, "enthalpy")
	if err != nil {
		return State{}, err
	}
	st.H = h
	return st, nil
}

// StatePS returns the state at pressure P and specific entropy s.
func (f *Fluid) StatePS(P, s float64) (State, error) {
	st, err := f.flash(P, s, func(s State) float64 { return s.S }, "entropy")
	if err != nil {
		return State{}, err
	}
	st.S = s
	return st, nil
}

// flash solves for the temperature at which prop(state(T, P)) equals target.
func (f *Fluid) flash(P, target float64, prop func(State) float64, name string) (State, error) {
	if err := f.checkP(P); err != nil {
		return State{}, err
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return State{}, fmt.Errorf("%w: %s %s %v", ErrOutOfRange, f.Name, name, target)
	}

	lo, hi := f.Tmin, f.Tmax()
	want := PhaseUnknown
	if P < f.Pc {
		liq, vap, err := f.Saturation(P)
		if err != nil {
			return State{}, err
		}
		xL, xV := prop(liq), prop(vap)
		switch {
		case target >= xL && target <= xV:
			return mix(liq, vap, (target-xL)/(xV-xL)), nil
		case target > xV:
			lo, want = vap.T, PhaseGas
		default:
			hi, want = liq.T, PhaseLiquid
		}
	}

	T, err := brent(func(T float64) (float64, error) {
		st, err := f.single(T, P, want)
		if err != nil {
			return 0, err
		}
		return prop(st) - target, nil
	}, lo, hi, 1e-9)
	if err != nil {
		return State{}, fmt.Errorf("%s %s flash at %.0f Pa: %w", f.Name, name, P, err)
	}
	return f.single(T, P, want)
}

// mix interpolates a two-phase state of quality q between saturated liquid
// and vapor; specific volume is mass-weighted.
func mix(liq, vap State, q float64) State {
	return State{
		T:     liq.T,
		P:     liq.P,
		D:     1 / (q/vap.D + (1-q)/liq.D),
		H:     liq.H + q*(vap.H-liq.H),
		S:     liq.S + q*(vap.S-liq.S),
		Q:     q,
		Phase: PhaseTwoPhase,
	}
}
