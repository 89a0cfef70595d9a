package fluid

import (
	"fmt"
	"math"
)

// nearCritical is the relative distance below Tc at which saturation stops.
const nearCritical = 1e-3

// saturation solves equal liquid and vapor fugacity at T by Newton steps on
// ln P, returning the pressure and both compressibility roots.
func (f *Fluid) saturation(T float64) (P, zL, zV float64, err error) {
	if T < f.Tmin || T >= f.Tc || math.IsNaN(T) {
		return 0, 0, 0, fmt.Errorf("%w: %s saturation temperature %.3f K not in [%.2f, %.2f)",
			ErrOutOfRange, f.Name, T, f.Tmin, f.Tc)
	}

	// Lee-Kesler style first guess
	P = f.Pc * math.Pow(10, 7.0/3.0*(1+f.Omega)*(1-f.Tc/T))
	pLow, pHigh := 0.0, math.Inf(1)
	for i := 0; i < maxIter; i++ {
		A, B := f.coefficients(T, P)
		roots := zRoots(A, B)
		if len(roots) == 0 {
			return 0, 0, 0, ErrNoConvergence
		}
		zL, zV = roots[0], roots[len(roots)-1]
		if zV-zL < 1e-9 {
			// outside the three-root band; a liquid-like root means P is too high
			if zL*T/P < 0.3074*f.Tc/f.Pc {
				pHigh = P
			} else {
				pLow = P
			}
			switch {
			case pLow > 0 && !math.IsInf(pHigh, 1):
				P = math.Sqrt(pLow * pHigh)
			case pLow > 0:
				P *= 1.1
			default:
				P *= 0.9
			}
			continue
		}

		g := lnPhi(zL, A, B) - lnPhi(zV, A, B)
		if math.Abs(g) < 1e-12 {
			return P, zL, zV, nil
		}
		step := g / (zV - zL)
		step = math.Max(-0.5, math.Min(0.5, step))
		P *= math.Exp(step)
	}
	return 0, 0, 0, fmt.Errorf("%w: %s saturation at %.3f K", ErrNoConvergence, f.Name, T)
}

// SaturationPressure returns the saturation pressure at T.
func (f *Fluid) SaturationPressure(T float64) (float64, error) {
	P, _, _, err := f.saturation(T)
	return P, err
}

// SaturationTemperature returns the saturation temperature at P. Pure fluids
// and the pseudo-pure blends have no glide, so bubble and dew points agree.
func (f *Fluid) SaturationTemperature(P float64) (float64, error) {
	if err := f.checkP(P); err != nil {
		return 0, err
	}
	if P >= f.Pc {
		return 0, fmt.Errorf("%w: %s pressure %.0f Pa is above critical %.0f Pa", ErrOutOfRange, f.Name, P, f.Pc)
	}
	tHigh := f.Tc * (1 - nearCritical)
	if pHigh, _, _, err := f.saturation(tHigh); err == nil && P > pHigh {
		return 0, fmt.Errorf("%w: %s pressure %.0f Pa is too close to the critical point, saturation is resolved up to %.0f Pa (%.2f K)",
			ErrOutOfRange, f.Name, P, pHigh, tHigh)
	}
	if pLow, _, _, err := f.saturation(f.Tmin); err == nil && P < pLow {
		return 0, fmt.Errorf("%w: %s pressure %.0f Pa is below the saturation pressure %.0f Pa at %.2f K",
			ErrOutOfRange, f.Name, P, pLow, f.Tmin)
	}
	T, err := brent(func(T float64) (float64, error) {
		ps, _, _, err := f.saturation(T)
		if err != nil {
			return 0, err
		}
		return math.Log(ps / P), nil
	}, f.Tmin, tHigh, 1e-10)
	if err != nil {
		return 0, fmt.Errorf("%s saturation temperature at %.0f Pa: %w", f.Name, P, err)
	}
	return T, nil
}

// SaturationAtT returns saturated liquid (Q = 0) and vapor (Q = 1) at T.
func (f *Fluid) SaturationAtT(T float64) (liq, vap State, err error) {
	P, zL, zV, err := f.saturation(T)
	if err != nil {
		return State{}, State{}, err
	}
	liq = f.stateAt(T, P, zL, PhaseTwoPhase)
	liq.Q = 0
	vap = f.stateAt(T, P, zV, PhaseTwoPhase)
	vap.Q = 1
	return liq, vap, nil
}

// Saturation returns saturated liquid and vapor at P.
func (f *Fluid) Saturation(P float64) (liq, vap State, err error) {
	T, err := f.SaturationTemperature(P)
	if err != nil {
		return State{}, State{}, err
	}
	if liq, vap, err = f.SaturationAtT(T); err != nil {
		return State{}, State{}, err
	}
	liq.P, vap.P = P, P
	return liq, vap, nil
}
