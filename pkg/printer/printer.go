package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer types accepted by NewPrinterFromConfig
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
	TypeMemory  = "memory"
)

// Printer sends raw ESC/POS bytes to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// IsConnected checks the device without printing.
	IsConnected(ctx context.Context) bool
	// Type is one of the Type constants.
	Type() string
	Close() error
}

// --- USB printer, writes to a device file such as /dev/usb/lp0 ---

type usbPrinter struct {
	path string
	mu   sync.Mutex
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Type() string { return TypeUSB }
func (p *usbPrinter) Close() error { return nil }

// --- Network printer, raw TCP on port 9100 ---

type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetworkPrinter creates a printer reached over TCP, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address:      address,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (p *networkPrinter) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	conn, err := p.dial(ctx, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Type() string { return TypeNetwork }
func (p *networkPrinter) Close() error { return nil }

// --- Null printer, used when no hardware is configured ---

type nullPrinter struct{}

// NewNullPrinter creates a printer that discards everything.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Type() string                        { return TypeNone }
func (nullPrinter) Close() error                        { return nil }

// MemoryPrinter keeps every job in memory. Used by tests and the preview tooling.
type MemoryPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
	err  error
}

// NewMemoryPrinter creates an empty MemoryPrinter.
func NewMemoryPrinter() *MemoryPrinter {
	return &MemoryPrinter{}
}

// FailWith makes every following Print return err.
func (p *MemoryPrinter) FailWith(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *MemoryPrinter) Print(_ context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

// Jobs returns copies of the printed jobs in order.
func (p *MemoryPrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.jobs))
	copy(out, p.jobs)
	return out
}

func (p *MemoryPrinter) IsConnected(context.Context) bool { return true }
func (p *MemoryPrinter) Type() string                     { return TypeMemory }
func (p *MemoryPrinter) Close() error                     { return nil }

// NewPrinterFromConfig creates the Printer for printerType: "usb", "network" or "none".
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case TypeUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case TypeNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
