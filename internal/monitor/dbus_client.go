package monitor

import (
	"github.com/godbus/dbus/v5"
)

// BusClient defines the D-Bus operations the MPRIS source needs. The
// abstraction exists so signal handling can be tested against a mock.
//
//go:generate mockgen -destination=mocks/bus_client_mock.go -package=mocks github.com/davoli/trackframe/internal/monitor BusClient
type BusClient interface {
	// Close closes the bus connection
	Close() error

	// AddMatchSignal adds a signal match rule
	AddMatchSignal(options ...dbus.MatchOption) error

	// Signal registers a channel to receive bus signals
	Signal(ch chan<- *dbus.Signal)

	// ListNames returns all names on the bus
	ListNames() ([]string, error)

	// GetProperty retrieves a property from a bus object
	GetProperty(dest, path, prop string) (dbus.Variant, error)
}

// sessionBusClient is the real implementation backed by the session bus
type sessionBusClient struct {
	conn *dbus.Conn
}

func newSessionBusClient() (*sessionBusClient, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &sessionBusClient{conn: conn}, nil
}

func (c *sessionBusClient) Close() error {
	return c.conn.Close()
}

func (c *sessionBusClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

func (c *sessionBusClient) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

func (c *sessionBusClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (c *sessionBusClient) GetProperty(dest, path, prop string) (dbus.Variant, error) {
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	return obj.GetProperty(prop)
}
