package mqtt

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 5 * time.Second

// Connect connects to the broker at rawURL. Supported schemes are mqtt, mqtts, ws and wss.
// Credentials are taken from the URL's user info.
//
// The broker publishes "offline" to the availability topic if the connection is lost.
func Connect(rawURL, clientID, topic string, logger *slog.Logger) (paho.Client, error) {
	opts, err := clientOptions(rawURL)
	if err != nil {
		return nil, err
	}

	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetMaxReconnectInterval(10 * time.Second)
	opts.SetWill(availabilityTopic(topic), offline, qos, true)

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("connection lost", slog.Any("err", err))
	})
	opts.SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
		logger.Debug("reconnecting")
	})
	opts.SetOnConnectHandler(func(paho.Client) {
		logger.Debug("connected")
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect: timed out after %s", connectTimeout)
	}
	if err = token.Error(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	logger.Info("connected to broker", slog.String("broker", redact(rawURL)), slog.String("clientID", clientID))
	return client, nil
}

func clientOptions(rawURL string) (*paho.ClientOptions, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	opts := paho.NewClientOptions()
	broker := rawURL
	switch u.Scheme {
	case "ws":
	case "wss":
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	case "mqtt":
		broker = strings.Replace(rawURL, "mqtt://", "tcp://", 1)
	case "mqtts":
		broker = strings.Replace(rawURL, "mqtts://", "ssl://", 1)
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	default:
		return nil, fmt.Errorf("unsupported scheme %q (supported: mqtt, mqtts, ws, wss)", u.Scheme)
	}
	opts.AddBroker(broker)

	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if password, ok := u.User.Password(); ok {
			opts.SetPassword(password)
		}
	}
	return opts, nil
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}
