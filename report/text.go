package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"refcycle/calculator"
)

const (
	tableHeader = " State |   T(°F)  |  P(psia)  | density(lbm/ft³) |  h(BTU/lb) |  s(BTU/lbm·°F)\n"
	tableRule   = "-----------------------------------------------------------------------------\n"
	tableRow    = "  %4d | %8.1f | %9.1f | %13.2f | %10.1f | %14.3f\n"

	PerformanceHeader = "--- Performance Metrics (IP Units) ---\n"
)

// thousands separators for the BTU/hr figures
var printer = message.NewPrinter(language.English)

// WriteInput echoes the run's inputs.
func WriteInput(w io.Writer, in calculator.Input) {
	fmt.Fprintf(w, "Refrigerant: %s\n", in.Refrigerant)
	fmt.Fprintf(w, "Reference State: %s\n", in.Reference)
	fmt.Fprintf(w, "Evaporator Input: %s\n", in.Evaporator)
	fmt.Fprintf(w, "Condenser Input: %s\n", in.Condenser)
	fmt.Fprintf(w, "Superheat: %.1f °F\n", in.Superheat)
	fmt.Fprintf(w, "Subcooling: %.1f °F\n", in.Subcooling)
	fmt.Fprintf(w, "Isentropic Efficiency: %.1f%%\n", in.Efficiency)
	fmt.Fprintf(w, "Mass Flow Rate: %.2f lb/min\n", in.MassFlow)
}

// WriteStates prints the state table in IP units.
func WriteStates(w io.Writer, states [4]calculator.StatePoint) {
	io.WriteString(w, "--- Refrigeration Cycle Results (IP Units) ---\n")
	io.WriteString(w, tableHeader)
	io.WriteString(w, tableRule)
	for _, sp := range states {
		s := StatePoint(sp)
		fmt.Fprintf(w, tableRow, s.Index, s.T, s.P, s.D, s.H, s.S)
	}
}

// WritePerformance prints the metrics and the first-law note. Callers print
// PerformanceHeader first.
func WritePerformance(w io.Writer, perf calculator.Performance) {
	p := Performance(perf)
	printer.Fprintf(w, "Compressor Work Input: %.0f BTU/hr (%.1f kW)\n", p.CompressorWork, p.CompressorKW)
	printer.Fprintf(w, "Heat Removed (Cooling Capacity): %.0f BTU/hr (%.2f Tons)\n", p.HeatRemoved, p.Tons)
	printer.Fprintf(w, "Heat Rejected by Condenser: %.0f BTU/hr\n", p.HeatRejected)
	fmt.Fprintf(w, "Coefficient of Performance (COP): %.2f\n", p.COP)
	kw := math.Inf(1)
	if p.KWPerTon != nil {
		kw = *p.KWPerTon
	}
	fmt.Fprintf(w, "kW per Ton: %.2f\n", kw)
	io.WriteString(w, FirstLawNote+"\n")
}

// Text renders the whole result the way the dashboard shows it.
func Text(r *calculator.Result) string {
	var b strings.Builder
	WriteInput(&b, r.Input)
	b.WriteString("\n")
	for _, warn := range r.Warnings {
		b.WriteString("Warning: " + warn + "\n")
	}
	WriteStates(&b, r.States)
	b.WriteString("\n")
	b.WriteString(PerformanceHeader)
	WritePerformance(&b, r.Performance)
	return b.String()
}
