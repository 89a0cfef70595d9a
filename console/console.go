// Package console runs the cycle calculator as a sequence of prompts.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"refcycle/calculator"
	"refcycle/fluid"
	"refcycle/report"
)

// ErrClosed is returned when the input ends before all answers are given.
var ErrClosed = errors.New("console: input closed")

type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewScanner(r), out: w}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) readLine(prompt string) (string, error) {
	io.WriteString(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", ErrClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readFloat(prompt string) (float64, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return v, nil
		}
		c.printf("Invalid numeric input. Please try again.\n")
	}
}

// readLimited re-prompts until min <= v <= max.
func (c *Console) readLimited(prompt string, min, max float64) (float64, error) {
	for {
		v, err := c.readFloat(prompt)
		if err != nil {
			return 0, err
		}
		if v >= min && v <= max {
			return v, nil
		}
		c.printf("Invalid input. Please enter a number between %g and %g.\n", min, max)
	}
}

func (c *Console) chooseIndex(prompt string, n int) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(line)
		if err == nil && i >= 0 && i < n {
			return i, nil
		}
		c.printf("Invalid choice. Please enter a list index from 0 to %d.\n", n-1)
	}
}

func (c *Console) chooseRefrigerant() (string, error) {
	i, err := c.chooseIndex(fmt.Sprintf("Enter the list index of the refrigerant from the list [%s]: ",
		strings.Join(fluid.Names, ", ")), len(fluid.Names))
	if err != nil {
		return "", err
	}
	c.printf("You chose %s\n", fluid.Names[i])
	return fluid.Names[i], nil
}

func (c *Console) chooseReference() (fluid.ReferenceState, error) {
	names := make([]string, len(fluid.ReferenceStates))
	for i, r := range fluid.ReferenceStates {
		names[i] = r.String()
	}
	i, err := c.chooseIndex(fmt.Sprintf("Enter the list index of the reference state to use for enthalpy and entropy from the list [%s]\n%s\nReference State Choice: ",
		strings.Join(names, ", "), fluid.ReferenceHelp), len(names))
	if err != nil {
		return 0, err
	}
	ref := fluid.ReferenceStates[i]
	c.printf("You chose %s\n", ref)
	return ref, nil
}

type side struct {
	name  string // evaporator | condenser
	level string // low | high
}

var (
	evaporatorSide = side{"evaporator", "low"}
	condenserSide  = side{"condenser", "high"}
)

func (c *Console) readBoundary(s side) (calculator.Boundary, error) {
	for {
		mode, err := c.readLine(fmt.Sprintf("Do you want to enter (1) %s pressure in psia or (2) %s saturation temperature in °F? Enter 1 or 2: ", s.level, s.name))
		if err != nil {
			return calculator.Boundary{}, err
		}
		switch mode {
		case "1":
			v, err := c.readFloat(fmt.Sprintf("Enter the %s pressure of the system in psia: ", s.level))
			return calculator.Boundary{Kind: calculator.Pressure, Value: v}, err
		case "2":
			v, err := c.readFloat(fmt.Sprintf("Enter the %s saturation temperature in °F: ", s.name))
			return calculator.Boundary{Kind: calculator.Temperature, Value: v}, err
		}
		c.printf("Invalid choice. Please enter 1 or 2.\n")
	}
}

// resolve asks for a boundary until the property engine accepts it.
func (c *Console) resolve(f *fluid.Fluid, s side, check func(calculator.Saturation) error) (calculator.Boundary, calculator.Saturation, error) {
	for {
		b, err := c.readBoundary(s)
		if err != nil {
			return b, calculator.Saturation{}, err
		}
		if b.Kind == calculator.Pressure && b.Value <= 0 {
			c.printf("Error obtaining %s state: pressure must be positive. Please try again.\n", s.name)
			continue
		}
		sat, err := calculator.Resolve(f, b)
		if err != nil {
			c.printf("Error obtaining %s state: %v. Please try again.\n", s.name, err)
			continue
		}
		if check != nil {
			if err := check(sat); err != nil {
				c.printf("ERROR: %s.\n", strings.TrimPrefix(err.Error(), calculator.ErrOrdering.Error()+": "))
				continue
			}
		}
		return b, sat, nil
	}
}

// Read collects a complete Input.
func (c *Console) Read() (calculator.Input, error) {
	var in calculator.Input
	var err error

	if in.Refrigerant, err = c.chooseRefrigerant(); err != nil {
		return in, err
	}
	if in.Reference, err = c.chooseReference(); err != nil {
		return in, err
	}
	f, err := fluid.New(in.Refrigerant, in.Reference)
	if err != nil {
		return in, err
	}

	var evap calculator.Saturation
	if in.Evaporator, evap, err = c.resolve(f, evaporatorSide, nil); err != nil {
		return in, err
	}
	in.Condenser, _, err = c.resolve(f, condenserSide, func(cond calculator.Saturation) error {
		return calculator.CheckOrdering(evap, cond)
	})
	if err != nil {
		return in, err
	}

	if in.Superheat, err = c.readLimited("Enter the amount of superheat in °F (0-30°F): ", 0, calculator.MaxSuperheat); err != nil {
		return in, err
	}
	if in.Subcooling, err = c.readLimited("Enter the amount of subcooling in °F (0-30°F): ", 0, calculator.MaxSubcooling); err != nil {
		return in, err
	}
	if in.Efficiency, err = c.readLimited("Enter compressor isentropic efficiency % (from 20 to 100): ", calculator.MinEfficiency, calculator.MaxEfficiency); err != nil {
		return in, err
	}
	for {
		if in.MassFlow, err = c.readFloat("Enter the mass flow rate of the system in lb/min: "); err != nil {
			return in, err
		}
		if in.MassFlow > 0 {
			break
		}
		c.printf("Mass flow rate must be greater than 0.\n")
	}
	return in, nil
}

// Run reads one input set, evaluates it and prints the report.
func (c *Console) Run(ctx context.Context) error {
	in, err := c.Read()
	if err != nil {
		return err
	}
	r, err := calculator.Evaluate(ctx, in, calculator.Options{RequireOrdering: true})
	if err != nil {
		log.WithError(err).Error("calculation failed")
		c.printf("calculation error: %v\n", err)
		return err
	}

	io.WriteString(c.out, "\n")
	for _, warn := range r.Warnings {
		c.printf("Warning: %s\n", warn)
	}
	report.WriteStates(c.out, r.States)
	io.WriteString(c.out, "\n"+report.PerformanceHeader)
	c.printf("Refrigerant: %s\n", in.Refrigerant)
	c.printf("Refrigerant mass flow rate: %.2f lbm/min\n", in.MassFlow)
	report.WritePerformance(c.out, r.Performance)
	return nil
}
