package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/railctl/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	UpdateTopic string `json:"update_topic"`
	QoS         byte   `json:"qos"`
	UseTLS      bool   `json:"use_tls"`
	ClientCert  string `json:"client_cert"`
	ClientKey   string `json:"client_key"`
	CABundle    string `json:"ca_bundle"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "railctl"
	}
	if c.UpdateTopic == "" {
		c.UpdateTopic = "railctl/trains/updates"
	}
}

// DelayUpdate is the payload published by field systems when a train's delay
// changes or a train leaves the controlled area.
type DelayUpdate struct {
	TrainID      string `json:"train_id"`
	DelayMinutes int    `json:"delay_minutes"`
	Removed      bool   `json:"removed,omitempty"`
}

// UpdateHandler consumes delay updates from the feed.
type UpdateHandler interface {
	HandleDelayUpdate(DelayUpdate)
}

// Listener subscribes to the train update topic and forwards decoded payloads
// to the handler.
type Listener struct {
	cli    paho.Client
	cfg    Config
	log    logger.Logger
	handle UpdateHandler
}

// NewListener connects to the broker and subscribes to the update topic.
func NewListener(cfg Config, handler UpdateHandler) (*Listener, error) {
	cfg.SetDefaults()
	if handler == nil {
		return nil, fmt.Errorf("mqtt: nil update handler")
	}
	log := logger.New("mqtt-listener")
	l := &Listener{cfg: cfg, log: log, handle: handler}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.loadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(cfg.UpdateTopic, cfg.QoS, l.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := paho.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	l.cli = c
	return l, nil
}

func (l *Listener) onMessage(_ paho.Client, msg paho.Message) {
	var upd DelayUpdate
	if err := json.Unmarshal(msg.Payload(), &upd); err != nil {
		l.log.Warnf("malformed delay update on %s: %v", msg.Topic(), err)
		return
	}
	if upd.TrainID == "" {
		l.log.Warnf("delay update without train id, dropped")
		return
	}
	l.handle.HandleDelayUpdate(upd)
}

// Close disconnects from the broker.
func (l *Listener) Close() {
	if l.cli != nil && l.cli.IsConnected() {
		l.cli.Disconnect(250)
	}
}

// loadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) loadTLSConfig() (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.CABundle != "" {
		pem, err := os.ReadFile(c.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", c.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if c.ClientCert != "" && c.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}
