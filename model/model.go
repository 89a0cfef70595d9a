package model

import "refcycle/calculator"

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// websocket message types
const (
	TypeDefaults      = "defaults"  // request/reply: dashboard form defaults
	TypeReferenceHelp = "reference" // request/reply: reference state help text
	TypeCalculate     = "calculate" // request: Content is an Input
	TypeResult        = "result"    // reply: Content is a CycleResponse
	TypeError         = "error"
)

// StatePoint is one cycle state in IP units.
type StatePoint struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	T        float64  `json:"t"` // °F
	P        float64  `json:"p"` // psia
	D        float64  `json:"d"` // lbm/ft³
	H        float64  `json:"h"` // BTU/lb
	S        float64  `json:"s"` // BTU/lbm·°F
	Quality  *float64 `json:"quality,omitempty"`
	TwoPhase bool     `json:"two_phase"`
}

// Performance in IP units. KWPerTon is null when no cooling is produced.
type Performance struct {
	CompressorWork float64  `json:"compressor_work"` // BTU/hr
	CompressorKW   float64  `json:"compressor_kw"`
	HeatRemoved    float64  `json:"heat_removed"`  // BTU/hr
	HeatRejected   float64  `json:"heat_rejected"` // BTU/hr
	COP            float64  `json:"cop"`
	Tons           float64  `json:"tons"`
	KWPerTon       *float64 `json:"kw_per_ton"`
}

// CycleResponse is what the dashboard and the REST API return.
type CycleResponse struct {
	ID          string           `json:"id"`
	Input       calculator.Input `json:"input"`
	States      []StatePoint     `json:"states"`
	Performance Performance      `json:"performance"`
	Warnings    []string         `json:"warnings,omitempty"`
	Text        string           `json:"text"`
}

// Defaults seeds the dashboard form. The pressure values are used when the
// user switches a boundary to pressure mode.
type Defaults struct {
	Input              calculator.Input `json:"input"`
	EvaporatorPressure float64          `json:"evaporator_pressure"` // psia
	CondenserPressure  float64          `json:"condenser_pressure"`  // psia
	Refrigerants       []string         `json:"refrigerants"`
	ReferenceStates    []string         `json:"reference_states"`
}

// ReferenceInfo answers GET /api/reference-states.
type ReferenceInfo struct {
	States []string `json:"states"`
	Help   string   `json:"help"`
	About  string   `json:"about"`
}

// ErrorReply is the JSON body of a failed request.
type ErrorReply struct {
	Error string `json:"error"`
}
