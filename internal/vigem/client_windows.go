//go:build windows

package vigem

import (
	"fmt"
	"syscall"
	"unsafe"

	"go.uber.org/zap"

	"github.com/tmarek/padlock/internal/logging"
	"github.com/tmarek/padlock/internal/slots"
)

var (
	vigemDLL = syscall.NewLazyDLL("ViGEmClient.dll")

	procAlloc           = vigemDLL.NewProc("vigem_alloc")
	procFree            = vigemDLL.NewProc("vigem_free")
	procConnect         = vigemDLL.NewProc("vigem_connect")
	procDisconnect      = vigemDLL.NewProc("vigem_disconnect")
	procTargetX360Alloc = vigemDLL.NewProc("vigem_target_x360_alloc")
	procTargetAdd       = vigemDLL.NewProc("vigem_target_add")
	procTargetRemove    = vigemDLL.NewProc("vigem_target_remove")
	procTargetFree      = vigemDLL.NewProc("vigem_target_free")
	procGetUserIndex    = vigemDLL.NewProc("vigem_target_x360_get_user_index")
)

// vigemSuccess is VIGEM_ERROR_NONE.
const vigemSuccess = 0x20000000

// Client is a connection to the ViGEmBus driver. It tracks every pad it
// registered so Close can tear down whatever is still alive.
type Client struct {
	client uintptr
	pads   []*Pad
}

// Connect allocates a driver client and connects to the bus. Failure here
// is fatal for the caller: without the bus no slot can be occupied.
func Connect() (*Client, error) {
	client, _, _ := procAlloc.Call()
	if client == 0 {
		return nil, fmt.Errorf("vigem_alloc() failed")
	}
	if ret, _, _ := procConnect.Call(client); uint32(ret) != vigemSuccess {
		procFree.Call(client)
		return nil, fmt.Errorf("vigem_connect() failed: 0x%X", uint32(ret))
	}
	logging.Info("connected to ViGEmBus")
	return &Client{client: client}, nil
}

// CreateDevice registers a new virtual X360 pad on the bus and returns its
// handle. The user index the driver claims for it is logged for reference
// but must not be trusted for slot attribution.
func (c *Client) CreateDevice() (slots.Device, error) {
	target, _, _ := procTargetX360Alloc.Call()
	if target == 0 {
		return nil, fmt.Errorf("vigem_target_x360_alloc() failed")
	}
	if ret, _, _ := procTargetAdd.Call(c.client, target); uint32(ret) != vigemSuccess {
		procTargetFree.Call(target)
		return nil, fmt.Errorf("vigem_target_add() failed: 0x%X", uint32(ret))
	}

	pad := &Pad{target: target}
	c.pads = append(c.pads, pad)

	if index, err := c.QueryUserIndex(pad); err == nil {
		// Reference only. The driver misreports this often enough
		// that the engine discovers the slot by polling instead.
		logging.Debug("driver-reported user index", zap.Int("index", index))
	}
	return pad, nil
}

// DestroyDevice removes a pad from the bus and frees it. Destroying a pad
// that is already gone is a no-op.
func (c *Client) DestroyDevice(d slots.Device) error {
	pad, ok := d.(*Pad)
	if !ok {
		return fmt.Errorf("not a vigem pad: %T", d)
	}
	for i, p := range c.pads {
		if p == pad {
			procTargetRemove.Call(c.client, pad.target)
			procTargetFree.Call(pad.target)
			c.pads = append(c.pads[:i], c.pads[i+1:]...)
			return nil
		}
	}
	return nil
}

// QueryUserIndex asks the driver which XInput slot it assigned a pad.
// Unreliable; diagnostics only.
func (c *Client) QueryUserIndex(pad *Pad) (int, error) {
	var index uint32
	ret, _, _ := procGetUserIndex.Call(c.client, pad.target, uintptr(unsafe.Pointer(&index)))
	if uint32(ret) != vigemSuccess {
		return 0, fmt.Errorf("vigem_target_x360_get_user_index() failed: 0x%X", uint32(ret))
	}
	return int(index), nil
}

// Close removes any pads still registered and releases the bus connection.
func (c *Client) Close() error {
	for _, pad := range c.pads {
		procTargetRemove.Call(c.client, pad.target)
		procTargetFree.Call(pad.target)
	}
	c.pads = nil
	if c.client != 0 {
		procDisconnect.Call(c.client)
		procFree.Call(c.client)
		c.client = 0
	}
	logging.Info("disconnected from ViGEmBus")
	return nil
}
