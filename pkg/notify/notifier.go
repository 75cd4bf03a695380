// Package notify publishes tier transitions of the current reading.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sguter90/sensordash/pkg/analysis"
	"github.com/sguter90/sensordash/pkg/dashboard"
	"github.com/sguter90/sensordash/pkg/models"
)

// Publisher sends a payload to a topic
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// TierChange is the message published when a metric changes tier
type TierChange struct {
	Metric    models.Metric `json:"metric"`
	Tier      analysis.Tier `json:"tier"`
	Previous  analysis.Tier `json:"previous"`
	Value     float64       `json:"value"`
	DeviceID  string        `json:"deviceId"`
	Timestamp time.Time     `json:"timestamp"`
}

// Notifier is a dashboard.Sink that remembers the last tier of every metric
// per device and publishes each change. Every metric starts out normal.
// Views built from the fallback reading are ignored.
type Notifier struct {
	publisher Publisher
	topic     string
	now       func() time.Time

	mu    sync.Mutex
	tiers map[string]analysis.Tier
}

// NewNotifier creates a Notifier publishing to <topic>/<deviceId>
func NewNotifier(p Publisher, topic string) *Notifier {
	return &Notifier{
		publisher: p,
		topic:     strings.TrimSuffix(topic, "/"),
		now:       time.Now,
		tiers:     make(map[string]analysis.Tier),
	}
}

// Publish compares the view's tiers with the last ones seen
func (n *Notifier) Publish(v dashboard.View) {
	if v.Offline {
		return
	}

	deviceID := v.Reading.DeviceID
	metrics := []struct {
		metric models.Metric
		tier   analysis.Tier
	}{
		{models.MetricTemperature, v.Temperature.Tier},
		{models.MetricHumidity, v.Humidity.Tier},
		{models.MetricHeatIndex, v.HeatIndex.Tier},
	}

	for _, m := range metrics {
		previous, changed := n.observe(deviceID, m.metric, m.tier)
		if !changed {
			continue
		}

		change := TierChange{
			Metric:    m.metric,
			Tier:      m.tier,
			Previous:  previous,
			Value:     v.Reading.Value(m.metric),
			DeviceID:  deviceID,
			Timestamp: n.now().UTC(),
		}
		if err := n.send(change); err != nil {
			log.Printf("❌ Failed to publish tier change for %s/%s: %v", deviceID, m.metric, err)
			continue
		}
		log.Printf("✓ Published %s tier change for %s: %s -> %s", m.metric, deviceID, previous, m.tier)
	}
}

// observe records tier and returns the previous one and whether it changed
func (n *Notifier) observe(deviceID string, m models.Metric, tier analysis.Tier) (analysis.Tier, bool) {
	key := deviceID + "/" + string(m)

	n.mu.Lock()
	defer n.mu.Unlock()

	previous, ok := n.tiers[key]
	if !ok {
		previous = analysis.TierNormal
	}
	n.tiers[key] = tier
	return previous, previous != tier
}

func (n *Notifier) send(change TierChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal tier change: %w", err)
	}
	return n.publisher.Publish(n.topic+"/"+change.DeviceID, payload)
}
