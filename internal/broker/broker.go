// Package broker owns connectivity to the MQTT broker: connect with
// bounded retry per scheduler step, resubscription after reconnect, and
// the online/offline status announcement.
package broker

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Subscription binds one command topic to its handler. The full set is
// re-applied on every successful (re)connect.
type Subscription struct {
	Topic   string
	Handler func(topic string, payload []byte)
}

// Config for the broker connection.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string

	// StatusTopic carries "online" on connect and, via the broker's
	// last-will, "offline" when the connection drops.
	StatusTopic string
}

const (
	// connectAttempts bounds retries within one scheduler step. Across
	// steps retry is unbounded.
	connectAttempts = 3
	connectDelay    = 5 * time.Second
	connectTimeout  = 10 * time.Second
	publishTimeout  = 2 * time.Second
)

// Client wraps the paho client. Retry policy lives here, not in paho:
// auto-reconnect is off so the scheduler step stays the unit of retry.
type Client struct {
	cli  mqtt.Client
	cfg  Config
	subs []Subscription
}

// New prepares the client without connecting. The first EnsureConnected
// call performs the initial connect.
func New(cfg Config, subs []Subscription) *Client {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(false).
		SetConnectTimeout(connectTimeout).
		SetCleanSession(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.StatusTopic != "" {
		opts.SetWill(cfg.StatusTopic, "offline", 0, true)
	}

	return &Client{
		cli:  mqtt.NewClient(opts),
		cfg:  cfg,
		subs: subs,
	}
}

// Connected reports whether the broker link is currently open.
func (c *Client) Connected() bool {
	return c.cli.IsConnectionOpen()
}

// EnsureConnected is the per-step maintenance hook. When disconnected it
// attempts to connect up to connectAttempts times with a fixed delay; on
// success it resubscribes every command topic and announces online. When
// all attempts fail it gives up for this step.
func (c *Client) EnsureConnected() bool {
	if c.Connected() {
		return true
	}

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		tok := c.cli.Connect()
		if tok.WaitTimeout(connectTimeout) && tok.Error() == nil {
			c.onConnect()
			return true
		}

		log.WithFields(log.Fields{
			"attempt": attempt,
			"broker":  c.cfg.Host,
		}).WithError(tok.Error()).Warn("broker: connect failed")

		if attempt < connectAttempts {
			time.Sleep(connectDelay)
		}
	}
	return false
}

func (c *Client) onConnect() {
	for _, sub := range c.subs {
		sub := sub
		tok := c.cli.Subscribe(sub.Topic, 0, func(_ mqtt.Client, m mqtt.Message) {
			sub.Handler(m.Topic(), m.Payload())
		})
		if tok.WaitTimeout(publishTimeout) && tok.Error() != nil {
			log.WithField("topic", sub.Topic).WithError(tok.Error()).Warn("broker: subscribe failed")
		}
	}

	if c.cfg.StatusTopic != "" {
		c.cli.Publish(c.cfg.StatusTopic, 0, true, "online")
	}

	log.WithField("broker", c.cfg.Host).Info("broker: connected")
}

// Publish delivers one value. While disconnected it is a silent no-op;
// missed intervals are lost, never queued.
func (c *Client) Publish(topic, payload string) {
	if !c.Connected() {
		return
	}
	c.cli.Publish(topic, 0, false, payload)
}

// Close announces offline and drops the connection.
func (c *Client) Close() {
	if c.Connected() && c.cfg.StatusTopic != "" {
		tok := c.cli.Publish(c.cfg.StatusTopic, 0, true, "offline")
		tok.WaitTimeout(publishTimeout)
	}
	c.cli.Disconnect(250)
}
