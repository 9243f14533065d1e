// Package usbgousb binds goptp's ptp.USBInterface and ptp.BulkEndpoint to a
// real USB device via google/gousb. It enumerates the
// active configuration's interfaces, claims the one belonging to the USB
// still-image class (class code 6, per the PTP-over-USB and MTP class
// specifications), and resolves its bulk-in, bulk-out, and interrupt-in
// endpoints — mirroring the device-opening sequence of the original PTP
// camera driver this library was rebuilt from.
package usbgousb

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/gousb"

	"github.com/usbptp/goptp/ptp"
)

// stillImageClass is the USB interface class code (6) used by PTP/MTP
// devices. Matched as a numeric literal rather than a gousb-provided
// constant, since not every still-image-class device advertises it under
// the same symbolic name across gousb versions.
const stillImageClass = 6

// Endpoint adapts a gousb endpoint (either direction) to ptp.BulkEndpoint.
type Endpoint struct {
	transfer func(p []byte, timeout time.Duration) (int, error)
}

// Transfer implements ptp.BulkEndpoint.
func (e Endpoint) Transfer(p []byte, timeout time.Duration) (int, error) {
	return e.transfer(p, timeout)
}

// disconnectMarkers are substrings gousb/libusb errors carry when the
// device itself has gone away (unplugged, power-cycled) rather than a
// single transfer simply running long. gousb doesn't export a typed sentinel
// for this across versions, so classification is done on the message, the
// same best-effort approach kevmo314/go-usb's TransferNoDevice status
// distinguishes with a typed enum where its transport layer allows it.
var disconnectMarkers = []string{"no device", "no such device", "device not found"}

func isDisconnect(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, m := range disconnectMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classify wraps a raw transfer error into a *ptp.DisconnectedError when it
// looks like the device went away, so callers can tell that apart from an
// ordinary I/O error via errors.As instead of matching a message. The
// timeout case is handled separately, by the select below.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isDisconnect(err) {
		return &ptp.DisconnectedError{Cause: err}
	}
	return err
}

// withTimeout adapts a gousb endpoint's plain Read/Write (which has no
// per-call deadline) to ptp.BulkEndpoint's Transfer signature. A zero
// timeout waits indefinitely, per spec §4.5.
func withTimeout(rw func(p []byte) (int, error)) func([]byte, time.Duration) (int, error) {
	return func(p []byte, timeout time.Duration) (int, error) {
		if timeout <= 0 {
			n, err := rw(p)
			return n, classify(err)
		}
		type result struct {
			n   int
			err error
		}
		done := make(chan result, 1)
		go func() {
			n, err := rw(p)
			done <- result{n, err}
		}()
		select {
		case r := <-done:
			return r.n, classify(r.err)
		case <-time.After(timeout):
			return 0, fmt.Errorf("usbgousb: transfer timed out after %s: %w", timeout, ptp.ErrTimeout)
		}
	}
}

// Interface adapts a claimed gousb interface to ptp.USBInterface. Close
// releases the interface, the config, the device, and the context, in that
// order, matching guiperry-HASHER's USBDevice.Close teardown sequence.
type Interface struct {
	ctx    *gousb.Context
	device *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface

	in  Endpoint
	out Endpoint

	// interruptIn is resolved (so callers can inspect MaxPacketSize for
	// diagnostics) but never read from, per the event non-goal.
	interruptIn *gousb.InEndpoint

	maxPacketSize int
}

// InEndpoint implements ptp.USBInterface.
func (i *Interface) InEndpoint() ptp.BulkEndpoint {
	return i.in
}

// OutEndpoint implements ptp.USBInterface.
func (i *Interface) OutEndpoint() ptp.BulkEndpoint {
	return i.out
}

var _ ptp.USBInterface = (*Interface)(nil)
var _ ptp.BulkEndpoint = Endpoint{}

// Close releases the claimed interface and the device/context it came from.
func (i *Interface) Close() error {
	if i.intf != nil {
		i.intf.Close()
	}
	if i.config != nil {
		i.config.Close()
	}
	var err error
	if i.device != nil {
		err = i.device.Close()
	}
	if i.ctx != nil {
		i.ctx.Close()
	}
	return err
}

// MaxPacketSize returns the bulk-in endpoint's max packet size, for callers
// that want to configure ptp.WithMaxPacketSize explicitly instead of relying
// on the default.
func (i *Interface) MaxPacketSize() int {
	return i.maxPacketSize
}

// Open enumerates devices matching vid/pid, claims the still-image class
// interface, and resolves its endpoints. The caller owns the returned
// Interface and must call Close when done (typically via ptp.Session.Close).
func Open(vid, pid uint16) (*Interface, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: open device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: no device matching vid=0x%04x pid=0x%04x", vid, pid)
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: set auto detach: %w", err)
	}

	ifaceNum, altNum, inAddr, outAddr, interruptAddr, maxPacketSize, err := findStillImageInterface(dev)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: active config: %w", err)
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: claim config %d: %w", cfgNum, err)
	}
	intf, err := cfg.Interface(ifaceNum, altNum)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: claim interface %d alt %d: %w", ifaceNum, altNum, err)
	}

	inEp, err := intf.InEndpoint(inAddr)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: open bulk-in endpoint: %w", err)
	}
	outEp, err := intf.OutEndpoint(outAddr)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbgousb: open bulk-out endpoint: %w", err)
	}

	var interruptEp *gousb.InEndpoint
	if interruptAddr != 0 {
		// best-effort: some still-image devices omit the interrupt pipe.
		interruptEp, _ = intf.InEndpoint(interruptAddr)
	}

	return &Interface{
		ctx:           ctx,
		device:        dev,
		config:        cfg,
		intf:          intf,
		in:            Endpoint{transfer: withTimeout(inEp.Read)},
		out:           Endpoint{transfer: withTimeout(outEp.Write)},
		interruptIn:   interruptEp,
		maxPacketSize: maxPacketSize,
	}, nil
}

// findStillImageInterface scans dev's active configuration for the
// interface/alt-setting whose class is the USB still-image class (6) and
// returns its number, alt setting, and bulk-in/bulk-out/interrupt-in
// endpoint addresses plus the bulk-in max packet size. The descriptor scan
// itself lives in selectStillImageInterface, kept free of *gousb.Device so
// it can be exercised against hand-built descriptors without a real bus.
func findStillImageInterface(dev *gousb.Device) (ifaceNum, altNum int, inAddr, outAddr, interruptAddr gousb.EndpointAddress, maxPacketSize int, err error) {
	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("usbgousb: active config: %w", err)
	}
	cfgDesc, ok := dev.Desc.Configs[cfgNum]
	if !ok {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("usbgousb: no descriptor for active config %d", cfgNum)
	}
	return selectStillImageInterface(cfgDesc)
}

// selectStillImageInterface is the pure descriptor-matching logic behind
// findStillImageInterface.
func selectStillImageInterface(cfgDesc gousb.ConfigDesc) (ifaceNum, altNum int, inAddr, outAddr, interruptAddr gousb.EndpointAddress, maxPacketSize int, err error) {
	for _, ifaceDesc := range cfgDesc.Interfaces {
		for _, alt := range ifaceDesc.AltSettings {
			if int(alt.Class) != stillImageClass {
				continue
			}
			var foundIn, foundOut, foundInterrupt gousb.EndpointAddress
			var inMaxPacket int
			for addr, ep := range alt.Endpoints {
				switch ep.TransferType {
				case gousb.TransferTypeBulk:
					if ep.Direction == gousb.EndpointDirectionIn {
						foundIn = addr
						inMaxPacket = ep.MaxPacketSize
					} else {
						foundOut = addr
					}
				case gousb.TransferTypeInterrupt:
					if ep.Direction == gousb.EndpointDirectionIn {
						foundInterrupt = addr
					}
				}
			}
			if foundIn != 0 && foundOut != 0 {
				return ifaceDesc.Number, alt.Alternate, foundIn, foundOut, foundInterrupt, inMaxPacket, nil
			}
		}
	}
	return 0, 0, 0, 0, 0, 0, fmt.Errorf("usbgousb: no still-image class (6) interface with bulk in/out endpoints found")
}
