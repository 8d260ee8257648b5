package nats

import (
	"os"
	"sync"

	natsgo "github.com/nats-io/nats.go"
)

// Disconnect releases a connection obtained from a [Connector].
type Disconnect = func()

// Connector opens (or leases) a NATS connection.
type Connector func() (nc *natsgo.Conn, disconnect Disconnect, err error)

// ConnectURL dials natsURL on every call. opts are applied after the
// defaults.
func ConnectURL(natsURL string, opts ...natsgo.Option) Connector {
	opts = append([]natsgo.Option{
		natsgo.Name("mailbox-go"),
		natsgo.MaxReconnects(3),
	}, opts...)

	return func() (*natsgo.Conn, Disconnect, error) {
		nc, err := natsgo.Connect(natsURL, opts...)
		if err != nil {
			return nil, nil, err
		}
		return nc, nc.Close, nil
	}
}

// ConnectDefault dials $NATS_URL, or the NATS default URL if unset.
func ConnectDefault() Connector {
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		return ConnectURL(natsURL)
	}
	return ConnectURL(natsgo.DefaultURL)
}

// Shared returns a Connector that hands out one connection to all callers.
// The connection is closed when the last lease is released and reopened on
// the next call.
func Shared(connect Connector) Connector {
	s := &sharedConn{connect: connect}
	return s.lease
}

type sharedConn struct {
	connect Connector

	mu         sync.Mutex
	nc         *natsgo.Conn
	disconnect Disconnect
	leases     int
}

func (s *sharedConn) lease() (*natsgo.Conn, Disconnect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nc == nil {
		nc, disconnect, err := s.connect()
		if err != nil {
			return nil, nil, err
		}
		s.nc, s.disconnect = nc, disconnect
	}
	s.leases++

	nc := s.nc
	var once sync.Once
	return nc, func() { once.Do(s.release) }, nil
}

func (s *sharedConn) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leases--
	if s.leases == 0 {
		s.disconnect()
		s.nc, s.disconnect = nil, nil
	}
}
