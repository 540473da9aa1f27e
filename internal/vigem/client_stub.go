//go:build !windows

package vigem

import "github.com/tmarek/padlock/internal/slots"

// Client is a placeholder off Windows; Connect never hands one out.
type Client struct{}

// Connect always fails off Windows.
func Connect() (*Client, error) {
	return nil, ErrUnsupported
}

// CreateDevice always fails off Windows.
func (c *Client) CreateDevice() (slots.Device, error) {
	return nil, ErrUnsupported
}

// DestroyDevice is a no-op off Windows.
func (c *Client) DestroyDevice(d slots.Device) error {
	return nil
}

// QueryUserIndex always fails off Windows.
func (c *Client) QueryUserIndex(pad *Pad) (int, error) {
	return 0, ErrUnsupported
}

// Close is a no-op off Windows.
func (c *Client) Close() error {
	return nil
}
