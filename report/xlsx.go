package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"refcycle/calculator"
)

const (
	sheetStates      = "States"
	sheetPerformance = "Performance"
	sheetInput       = "Input"
)

// WriteXLSX writes r as a workbook with the state table, the performance
// metrics and the input echo on separate sheets.
func WriteXLSX(w io.Writer, r *calculator.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetStates)
	sw, err := f.NewStreamWriter(sheetStates)
	if err != nil {
		return err
	}
	header := []interface{}{"State", "Name", "T (°F)", "P (psia)", "density (lbm/ft³)", "h (BTU/lb)", "s (BTU/lbm·°F)", "quality"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, sp := range r.States {
		s := StatePoint(sp)
		var q interface{} = ""
		if s.Quality != nil {
			q = *s.Quality
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{s.Index, s.Name, s.T, s.P, s.D, s.H, s.S, q}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	p := Performance(r.Performance)
	var kw interface{} = "inf"
	if p.KWPerTon != nil {
		kw = *p.KWPerTon
	}
	rows := [][]interface{}{
		{"Metric", "Value", "Unit"},
		{"Compressor Work Input", p.CompressorWork, "BTU/hr"},
		{"Compressor Work Input", p.CompressorKW, "kW"},
		{"Heat Removed (Cooling Capacity)", p.HeatRemoved, "BTU/hr"},
		{"Heat Removed (Cooling Capacity)", p.Tons, "tons"},
		{"Heat Rejected by Condenser", p.HeatRejected, "BTU/hr"},
		{"Coefficient of Performance (COP)", p.COP, ""},
		{"kW per Ton", kw, "kW/ton"},
	}
	if err := writeRows(f, sheetPerformance, rows); err != nil {
		return err
	}

	in := r.Input
	rows = [][]interface{}{
		{"Run", r.ID},
		{"Refrigerant", in.Refrigerant},
		{"Reference State", in.Reference.String()},
		{"Evaporator Input", in.Evaporator.String()},
		{"Condenser Input", in.Condenser.String()},
		{"Superheat (°F)", in.Superheat},
		{"Subcooling (°F)", in.Subcooling},
		{"Isentropic Efficiency (%)", in.Efficiency},
		{"Mass Flow Rate (lb/min)", in.MassFlow},
	}
	for _, warn := range r.Warnings {
		rows = append(rows, []interface{}{"Warning", warn})
	}
	if err := writeRows(f, sheetInput, rows); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
