package publisher

import "refcycle/model"

type sensorConfiguration struct {
	UniqueId          string `json:"unique_id"`
	Name              string `json:"name"`
	DeviceClass       string `json:"device_class,omitempty"`
	StateTopic        string `json:"state_topic"`
	UnitOfMeasurement string `json:"unit_of_measurement,omitempty"`
}

type sensorDefinition struct {
	name  string
	class string
	unit  string
	get   func(model.Performance) interface{}
}

var sensorDefinitions = []*sensorDefinition{
	{
		name:  "Compressor Work",
		class: "power",
		unit:  "kW",
		get:   func(p model.Performance) interface{} { return round(p.CompressorKW, 3) },
	},
	{
		name: "Cooling Capacity",
		unit: "BTU/h",
		get:  func(p model.Performance) interface{} { return round(p.HeatRemoved, 0) },
	},
	{
		name: "Heat Rejected",
		unit: "BTU/h",
		get:  func(p model.Performance) interface{} { return round(p.HeatRejected, 0) },
	},
	{
		name: "Refrigeration Tons",
		unit: "TR",
		get:  func(p model.Performance) interface{} { return round(p.Tons, 3) },
	},
	{
		name: "COP",
		get:  func(p model.Performance) interface{} { return round(p.COP, 3) },
	},
	{
		name: "kW per Ton",
		unit: "kW/TR",
		get: func(p model.Performance) interface{} {
			if p.KWPerTon == nil {
				return "unknown"
			}
			return round(*p.KWPerTon, 3)
		},
	},
}
