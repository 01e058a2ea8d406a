//go:build linux

package provider

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/channel/i2c"
	"github.com/danmuck/sensorlink/internal/protocol"
	"github.com/danmuck/sensorlink/internal/protocol/crc"
)

// i2cSlave is the i2c-dev I2C_SLAVE ioctl request number from
// <uapi/linux/i2c-dev.h>; golang.org/x/sys/unix does not export it on Linux.
const i2cSlave = 0x0703

// LinuxI2C drives sensors through a Linux i2c-dev device file. It is both
// the provider bracket around the file descriptor and the connection the
// channels execute on.
type LinuxI2C struct {
	device string
	file   *os.File
}

// NewLinuxI2C builds a provider for a device file such as /dev/i2c-1.
func NewLinuxI2C(device string) *LinuxI2C {
	return &LinuxI2C{device: device}
}

// Prepare opens the device file and gives the bus a moment to settle.
func (p *LinuxI2C) Prepare() error {
	f, err := os.OpenFile(p.device, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	p.file = f
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Release closes the device file.
func (p *LinuxI2C) Release() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// Channel returns a channel for one device on this bus. Nil crc
// parameters disable checksum framing.
func (p *LinuxI2C) Channel(slaveAddress byte, params *crc.Params) (*i2c.Channel, error) {
	fn, err := tryCrc(params)
	if err != nil {
		return nil, err
	}
	return i2c.New(p, slaveAddress, fn), nil
}

// Execute implements the i2c connection contract: select the slave, write
// the framed request, wait the busy delay, read the raw response and
// interpret it.
func (p *LinuxI2C) Execute(address byte, req *channel.Request) ([]protocol.Value, error) {
	if p.file == nil {
		return nil, ErrNotPrepared
	}
	if err := unix.IoctlSetInt(int(p.file.Fd()), i2cSlave, int(address)); err != nil {
		return nil, err
	}
	if len(req.TxData) > 0 {
		if _, err := p.file.Write(req.TxData); err != nil {
			return nil, err
		}
		if req.ReadDelay > 0 {
			time.Sleep(req.ReadDelay)
		}
	}
	var result []protocol.Value
	if req.RxLength > 0 {
		buf := make([]byte, req.RxLength)
		n, err := p.file.Read(buf)
		if err != nil {
			return nil, err
		}
		result, err = req.Interpret(buf[:n])
		if err != nil {
			return nil, err
		}
	}
	if post := req.PostProcessingTime(); post > 0 {
		time.Sleep(post)
	}
	return result, nil
}
