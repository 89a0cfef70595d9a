package publisher

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcycle/calculator"
	"refcycle/config"
)

type token struct{ err error }

func (t *token) Wait() bool                       { return true }
func (t *token) WaitTimeout(_ time.Duration) bool { return true }
func (t *token) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
func (t *token) Error() error { return t.err }

type message struct {
	topic    string
	retained bool
	payload  interface{}
}

type fakeClient struct {
	mu   sync.Mutex
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message{topic, retained, payload})
	return &token{err: c.err}
}

func (c *fakeClient) topics() map[string]interface{} {
	out := map[string]interface{}{}
	for _, m := range c.sent {
		out[m.topic] = m.payload
	}
	return out
}

var cfg = config.Mqtt{TopicPrefix: "refcycle", DiscoveryPrefix: "homeassistant"}

func result() *calculator.Result {
	return &calculator.Result{
		ID:          "run",
		Performance: calculator.NewPerformance(0.1, 250e3, 280e3, 100e3, 100e3),
	}
}

func TestPublish(t *testing.T) {
	c := &fakeClient{}
	p := New(c, cfg)
	require.NoError(t, p.Publish(result()))

	require.Len(t, c.sent, 2*len(sensorDefinitions))
	for _, m := range c.sent {
		assert.True(t, m.retained, m.topic)
	}

	topics := c.topics()
	assert.Equal(t, "5", topics["refcycle/cop"])
	assert.Equal(t, "3", topics["refcycle/compressor_work"])

	raw, ok := topics["homeassistant/sensor/refcycle_cop/config"].([]byte)
	require.True(t, ok)
	var sc sensorConfiguration
	require.NoError(t, json.Unmarshal(raw, &sc))
	assert.Equal(t, "refcycle/cop", sc.StateTopic)
	assert.Equal(t, "refcycle_cop", sc.UniqueId)
}

func TestPublishRegistersOnce(t *testing.T) {
	c := &fakeClient{}
	p := New(c, cfg)
	require.NoError(t, p.Publish(result()))
	require.NoError(t, p.Publish(result()))
	assert.Len(t, c.sent, 3*len(sensorDefinitions))
}

func TestPublishWithoutCooling(t *testing.T) {
	c := &fakeClient{}
	r := result()
	r.Performance = calculator.NewPerformance(0.1, 250e3, 250e3, 250e3, 250e3)
	require.NoError(t, New(c, cfg).Publish(r))
	assert.Equal(t, "unknown", c.topics()["refcycle/kw_per_ton"])
}

func TestPublishError(t *testing.T) {
	c := &fakeClient{err: errors.New("broker gone")}
	p := New(c, cfg)
	assert.EqualError(t, p.Publish(result()), "broker gone")
	assert.False(t, p.registered)
}
