package calculator

import (
	"math"

	"refcycle/units"
)

// Performance holds the derived cycle metrics. Heat rates are in watts.
type Performance struct {
	CompressorWork float64 `json:"compressor_work"`
	HeatRemoved    float64 `json:"heat_removed"`
	HeatRejected   float64 `json:"heat_rejected"`
	COP            float64 `json:"cop"`
	Tons           float64 `json:"tons"`
	KWPerTon       float64 `json:"-"` // +Inf without cooling
}

// NewPerformance applies the energy balances for mass flow [kg/s] and the
// four state enthalpies [J/kg].
func NewPerformance(massFlow, h1, h2, h3, h4 float64) Performance {
	p := Performance{
		CompressorWork: massFlow * (h2 - h1),
		HeatRemoved:    massFlow * (h1 - h4),
		HeatRejected:   massFlow * (h2 - h3),
	}
	if p.CompressorWork != 0 {
		p.COP = p.HeatRemoved / p.CompressorWork
	}
	p.Tons = units.Tons(p.HeatRemoved)
	p.KWPerTon = math.Inf(1)
	if p.Tons > 0 {
		p.KWPerTon = p.CompressorWork / 1000 / p.Tons
	}
	return p
}

// CompressorKW is the compressor work in kW.
func (p Performance) CompressorKW() float64 {
	return p.CompressorWork / 1000
}
