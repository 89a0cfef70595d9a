// Package report renders cycle results: IP-unit DTOs for the dashboard and
// API, the plain-text table, and an xlsx workbook.
package report

import (
	"math"

	"refcycle/calculator"
	"refcycle/model"
	"refcycle/units"
)

// About is the program description shown by the dashboard and console.
const About = "Refrigeration Cycle Simulator\n\n" +
	"This program calculates the performance of a refrigeration cycle. The user can specify operating " +
	"temperatures or pressures, compressor efficiency, and mass flow rate of refrigerant. The program will " +
	"output thermodynamic properties, cooling capacity, and cycle efficiency for the chosen refrigerant.\n" +
	FirstLawNote

// FirstLawNote closes every performance block.
const FirstLawNote = "Observe from the 1st Law of Thermo that the compressor work plus the heat absorbed " +
	"in the evaporator equals the heat rejected by the condenser!"

// StatePoint converts one state to IP units.
func StatePoint(sp calculator.StatePoint) model.StatePoint {
	out := model.StatePoint{
		Index: sp.Index,
		Name:  sp.Name,
		T:     units.FromSI(units.Temperature, sp.T),
		P:     units.FromSI(units.Pressure, sp.P),
		D:     units.FromSI(units.Density, sp.D),
		H:     units.FromSI(units.Enthalpy, sp.H),
		S:     units.FromSI(units.Entropy, sp.S),
	}
	if sp.Q >= 0 && sp.Q <= 1 {
		q := sp.Q
		out.Quality = &q
		out.TwoPhase = true
	}
	return out
}

// Performance converts the metrics to IP units.
func Performance(p calculator.Performance) model.Performance {
	out := model.Performance{
		CompressorWork: units.FromSI(units.Power, p.CompressorWork),
		CompressorKW:   p.CompressorKW(),
		HeatRemoved:    units.FromSI(units.Power, p.HeatRemoved),
		HeatRejected:   units.FromSI(units.Power, p.HeatRejected),
		COP:            p.COP,
		Tons:           p.Tons,
	}
	if !math.IsInf(p.KWPerTon, 0) && !math.IsNaN(p.KWPerTon) {
		k := p.KWPerTon
		out.KWPerTon = &k
	}
	return out
}

// Build assembles the response for r, including the text rendering.
func Build(r *calculator.Result) model.CycleResponse {
	resp := model.CycleResponse{
		ID:          r.ID,
		Input:       r.Input,
		Performance: Performance(r.Performance),
		Warnings:    r.Warnings,
		Text:        Text(r),
	}
	for _, sp := range r.States {
		resp.States = append(resp.States, StatePoint(sp))
	}
	return resp
}
