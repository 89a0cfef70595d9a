// Package config loads conf/config.ini.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"refcycle/calculator"
	"refcycle/fluid"
)

const DefaultPath = "conf/config.ini"

type Config struct {
	Server     Server
	Log        Log
	Calculator Calculator
	Defaults   Defaults
	Mqtt       Mqtt
}

type Server struct {
	Addr        string
	StaticDir   string
	DiagramPath string // p-h diagram image served at /diagram, optional
}

type Log struct {
	Level  string
	Format string // text | json
}

type Calculator struct {
	RequireOrdering bool
	Refrigerant     string
	Reference       fluid.ReferenceState
}

// Defaults seed the dashboard form.
type Defaults struct {
	EvaporatorTemperature float64 // °F
	EvaporatorPressure    float64 // psia
	CondenserTemperature  float64 // °F
	CondenserPressure     float64 // psia
	Superheat             float64
	Subcooling            float64
	Efficiency            float64
	MassFlow              float64
}

type Mqtt struct {
	Enabled         bool
	Broker          string // host or host:port
	Username        string
	Password        string
	TopicPrefix     string
	DiscoveryPrefix string
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Warn("config file not found, using defaults")
		file = ini.Empty()
	} else if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (*Config, error) {
	server := file.Section("server")
	logs := file.Section("log")
	calc := file.Section("calculator")
	defaults := file.Section("defaults")
	broker := file.Section("mqtt")

	cfg := &Config{
		Server: Server{
			Addr:        server.Key("addr").MustString(":9000"),
			StaticDir:   server.Key("static_dir").MustString("static"),
			DiagramPath: server.Key("diagram_path").String(),
		},
		Log: Log{
			Level:  logs.Key("level").MustString("info"),
			Format: logs.Key("format").In("text", []string{"text", "json"}),
		},
		Calculator: Calculator{
			RequireOrdering: calc.Key("require_ordering").MustBool(false),
			Refrigerant:     calc.Key("refrigerant").MustString(fluid.Names[0]),
		},
		Defaults: Defaults{
			EvaporatorTemperature: defaults.Key("evaporator_temperature").MustFloat64(40),
			EvaporatorPressure:    defaults.Key("evaporator_pressure").MustFloat64(85),
			CondenserTemperature:  defaults.Key("condenser_temperature").MustFloat64(110),
			CondenserPressure:     defaults.Key("condenser_pressure").MustFloat64(260),
			Superheat:             defaults.Key("superheat").MustFloat64(10),
			Subcooling:            defaults.Key("subcooling").MustFloat64(10),
			Efficiency:            defaults.Key("efficiency").MustFloat64(70),
			MassFlow:              defaults.Key("mass_flow").MustFloat64(5),
		},
		Mqtt: Mqtt{
			Enabled:         broker.Key("enabled").MustBool(false),
			Broker:          broker.Key("broker").MustString("localhost"),
			Username:        broker.Key("username").String(),
			Password:        broker.Key("password").String(),
			TopicPrefix:     broker.Key("topic_prefix").MustString("refcycle"),
			DiscoveryPrefix: broker.Key("discovery_prefix").MustString("homeassistant"),
		},
	}

	ref, err := fluid.ParseReferenceState(calc.Key("reference_state").MustString(fluid.ASHRAE.String()))
	if err != nil {
		return nil, fmt.Errorf("calculator.reference_state: %w", err)
	}
	cfg.Calculator.Reference = ref
	f, err := fluid.New(cfg.Calculator.Refrigerant, ref)
	if err != nil {
		return nil, fmt.Errorf("calculator.refrigerant: %w", err)
	}
	cfg.Calculator.Refrigerant = f.Name
	return cfg, nil
}

// Input is the dashboard's starting form, boundaries given as temperatures.
func (c *Config) Input() calculator.Input {
	d := c.Defaults
	return calculator.Input{
		Refrigerant: c.Calculator.Refrigerant,
		Reference:   c.Calculator.Reference,
		Evaporator:  calculator.Boundary{Kind: calculator.Temperature, Value: d.EvaporatorTemperature},
		Condenser:   calculator.Boundary{Kind: calculator.Temperature, Value: d.CondenserTemperature},
		Superheat:   d.Superheat,
		Subcooling:  d.Subcooling,
		Efficiency:  d.Efficiency,
		MassFlow:    d.MassFlow,
	}
}

// Options are the calculator options for the dashboard and API.
func (c *Config) Options() calculator.Options {
	return calculator.Options{RequireOrdering: c.Calculator.RequireOrdering}
}

// Apply sets the logrus level and formatter.
func (l Log) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if l.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// ClientOptions builds the broker connection settings.
func (m *Mqtt) ClientOptions() *mqtt.ClientOptions {
	broker := m.Broker
	if !strings.Contains(broker, ":") {
		broker += ":1883"
	}
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	return mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(m.TopicPrefix).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Info("MQTT reconnecting")
		})
}
