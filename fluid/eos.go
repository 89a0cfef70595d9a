package fluid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	R = 8.314462618 // universal gas constant [J/(mol·K)]

	T0 = 298.15   // ideal-gas datum temperature [K]
	P0 = 101325.0 // ideal-gas datum pressure [Pa]

	sqrt2 = math.Sqrt2
)

// Phase tells which root of the cubic a state was taken from.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseLiquid
	PhaseGas
	PhaseTwoPhase
	PhaseSupercritical
)

func (p Phase) String() string {
	switch p {
	case PhaseLiquid:
		return "liquid"
	case PhaseGas:
		return "gas"
	case PhaseTwoPhase:
		return "twophase"
	case PhaseSupercritical:
		return "supercritical"
	}
	return "unknown"
}

// State is a property snapshot. Q is the vapor quality, -1 outside the dome.
type State struct {
	T     float64 `json:"t"` // [K]
	P     float64 `json:"p"` // [Pa]
	D     float64 `json:"d"` // [kg/m³]
	H     float64 `json:"h"` // [J/kg]
	S     float64 `json:"s"` // [J/(kg·K)]
	Q     float64 `json:"q"`
	Phase Phase   `json:"-"`
}

// aT returns the attraction parameter and its temperature derivative.
func (f *Fluid) aT(T float64) (a, dadT float64) {
	sq := 1 + f.kappa*(1-math.Sqrt(T/f.Tc))
	a = f.ac * sq * sq
	dadT = -f.ac * f.kappa * sq / math.Sqrt(T*f.Tc)
	return
}

// coefficients returns the dimensionless A and B of the cubic in Z.
func (f *Fluid) coefficients(T, P float64) (A, B float64) {
	a, _ := f.aT(T)
	A = a * P / (R * R * T * T)
	B = f.b * P / (R * T)
	return
}

// zRoots returns the physical (Z > B) compressibility roots in ascending
// order:
//
//	Z³ - (1-B)Z² + (A-3B²-2B)Z - (AB-B²-B³) = 0
func zRoots(A, B float64) []float64 {
	c2 := -(1 - B)
	c1 := A - 3*B*B - 2*B
	c0 := -(A*B - B*B - B*B*B)

	var roots []float64
	for _, z := range cubicRoots(c2, c1, c0) {
		if z > B {
			roots = append(roots, z)
		}
	}
	return roots
}

// cubicRoots finds the real roots of z³ + c2·z² + c1·z + c0 as eigenvalues of
// the companion matrix, each polished with two Newton steps.
func cubicRoots(c2, c1, c0 float64) []float64 {
	companion := mat.NewDense(3, 3, []float64{
		-c2, -c1, -c0,
		1, 0, 0,
		0, 1, 0,
	})
	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil
	}

	var roots []float64
	for _, v := range eig.Values(nil) {
		z := real(v)
		if math.Abs(imag(v)) > 1e-7*(1+math.Abs(z)) {
			continue
		}
		for i := 0; i < 2; i++ {
			p := ((z+c2)*z+c1)*z + c0
			dp := (3*z+2*c2)*z + c1
			if dp == 0 {
				break
			}
			z -= p / dp
		}
		roots = append(roots, z)
	}
	sort.Float64s(roots)
	return roots
}

// lnPhi is the log fugacity coefficient of a pure fluid.
func lnPhi(Z, A, B float64) float64 {
	return Z - 1 - math.Log(Z-B) - A/(2*sqrt2*B)*math.Log((Z+(1+sqrt2)*B)/(Z+(1-sqrt2)*B))
}

// pickRoot selects the root for the wanted phase. With a single root, or for
// an unknown phase, the root of lowest Gibbs energy wins.
func pickRoot(roots []float64, A, B float64, want Phase) float64 {
	if len(roots) == 1 {
		return roots[0]
	}
	switch want {
	case PhaseLiquid:
		return roots[0]
	case PhaseGas:
		return roots[len(roots)-1]
	}
	best := roots[0]
	for _, z := range roots[1:] {
		if lnPhi(z, A, B) < lnPhi(best, A, B) {
			best = z
		}
	}
	return best
}

// idealGas returns the molar ideal-gas enthalpy and entropy relative to
// (T0, P0).
func (f *Fluid) idealGas(T, P float64) (h, s float64) {
	a, b, c, d := f.Cp[0], f.Cp[1], f.Cp[2], f.Cp[3]
	h = a*(T-T0) + b/2*(T*T-T0*T0) + c/3*(T*T*T-T0*T0*T0) + d/4*(T*T*T*T-T0*T0*T0*T0)
	s = a*math.Log(T/T0) + b*(T-T0) + c/2*(T*T-T0*T0) + d/3*(T*T*T-T0*T0*T0) - R*math.Log(P/P0)
	return
}

// departure returns the molar residual enthalpy and entropy at root Z.
func (f *Fluid) departure(T, P, Z float64) (hr, sr float64) {
	a, dadT := f.aT(T)
	B := f.b * P / (R * T)
	l := math.Log((Z + (1+sqrt2)*B) / (Z + (1-sqrt2)*B))
	hr = R*T*(Z-1) + (T*dadT-a)/(2*sqrt2*f.b)*l
	sr = R*math.Log(Z-B) + dadT/(2*sqrt2*f.b)*l
	return
}

// stateAt evaluates one root of the cubic at (T, P).
func (f *Fluid) stateAt(T, P, Z float64, phase Phase) State {
	hig, sig := f.idealGas(T, P)
	hr, sr := f.departure(T, P, Z)
	return State{
		T:     T,
		P:     P,
		D:     P * f.M / (Z * R * T),
		H:     (hig+hr)/f.M + f.hOff,
		S:     (sig+sr)/f.M + f.sOff,
		Q:     -1,
		Phase: phase,
	}
}

// single evaluates a single-phase state at (T, P) on the root of the wanted
// phase.
func (f *Fluid) single(T, P float64, want Phase) (State, error) {
	A, B := f.coefficients(T, P)
	roots := zRoots(A, B)
	if len(roots) == 0 {
		return State{}, ErrNoConvergence
	}
	Z := pickRoot(roots, A, B, want)
	phase := want
	if phase == PhaseUnknown {
		phase = f.label(T, P, Z)
	}
	return f.stateAt(T, P, Z, phase), nil
}

// label names the phase of a root by comparing its molar volume with the
// critical volume of the equation (Zc = 0.3074).
func (f *Fluid) label(T, P, Z float64) Phase {
	if T >= f.Tc || P >= f.Pc {
		return PhaseSupercritical
	}
	if Z*R*T/P < 0.3074*R*f.Tc/f.Pc {
		return PhaseLiquid
	}
	return PhaseGas
}
