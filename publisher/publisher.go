// Package publisher pushes cycle metrics to an MQTT broker as Home Assistant
// sensors.
package publisher

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"refcycle/calculator"
	"refcycle/config"
	"refcycle/report"
)

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type Publisher struct {
	mqtt            Client
	topicPrefix     string
	discoveryPrefix string

	mu         sync.Mutex
	registered bool
}

func New(client Client, cfg config.Mqtt) *Publisher {
	return &Publisher{
		mqtt:            client,
		topicPrefix:     cfg.TopicPrefix,
		discoveryPrefix: cfg.DiscoveryPrefix,
	}
}

// Connect dials the broker described by cfg.
func Connect(cfg config.Mqtt) (*Publisher, error) {
	client := mqtt.NewClient(cfg.ClientOptions())
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, t.Error())
	}
	return New(client, cfg), nil
}

func uniqueId(name string) string {
	return strings.Replace(strings.ToLower(name), " ", "_", -1)
}

func (p *Publisher) stateTopic(s *sensorDefinition) string {
	return fmt.Sprintf("%v/%v", p.topicPrefix, uniqueId(s.name))
}

func (p *Publisher) registerSensor(s *sensorDefinition) error {
	id := uniqueId(s.name)

	sensorConfiguration, _ := json.Marshal(sensorConfiguration{
		UniqueId:          p.topicPrefix + "_" + id,
		Name:              s.name,
		DeviceClass:       s.class,
		StateTopic:        p.stateTopic(s),
		UnitOfMeasurement: s.unit,
	})

	configTopic := fmt.Sprintf("%v/sensor/%v_%v/config", p.discoveryPrefix, p.topicPrefix, id)
	if t := p.mqtt.Publish(configTopic, 0, true, sensorConfiguration); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	return nil
}

// RegisterSensors announces every metric once.
func (p *Publisher) RegisterSensors() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.registered {
		return nil
	}
	for _, s := range sensorDefinitions {
		if err := p.registerSensor(s); err != nil {
			return err
		}
		log.WithField("sensor", s.name).Debug("registered sensor")
	}
	p.registered = true
	return nil
}

// Publish sends r's metrics as retained sensor states.
func (p *Publisher) Publish(r *calculator.Result) error {
	if err := p.RegisterSensors(); err != nil {
		return err
	}
	perf := report.Performance(r.Performance)
	for _, s := range sensorDefinitions {
		value := fmt.Sprintf("%v", s.get(perf))
		topic := p.stateTopic(s)
		if t := p.mqtt.Publish(topic, 0, true, value); t.Wait() && t.Error() != nil {
			return fmt.Errorf("publish %s: %w", topic, t.Error())
		}
	}
	log.WithFields(log.Fields{"id": r.ID, "topic": p.topicPrefix}).Debug("published metrics")
	return nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
