/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package device

import (
	"time"

	busifc "jinr.ru/greenlab/go-eeg/pkg/bus/ifc"
	deviceifc "jinr.ru/greenlab/go-eeg/pkg/device/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/layers"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

// Device drives the 8-channel analog front end over the serial bus.
// Bus operations carry no device-level error codes, a non-responsive
// chip is only noticed downstream when no valid frames arrive.
type Device struct {
	bus    busifc.Bus
	settle time.Duration
}

var _ deviceifc.Device = &Device{}

// NewDevice ...
func NewDevice(bus busifc.Bus, settle time.Duration) *Device {
	return &Device{
		bus:    bus,
		settle: settle,
	}
}

func (d *Device) sendCommand(op byte) error {
	_, err := d.bus.Transact([]byte{op})
	return err
}

// Reset issues the RESET command and blocks for the settle interval.
// The device ignores commands arriving before it has settled, so the
// wait must precede any further configuration.
func (d *Device) Reset() error {
	if err := d.sendCommand(CmdReset); err != nil {
		return err
	}
	time.Sleep(d.settle)
	return nil
}

// StopContinuous takes the device out of read-data-continuous mode.
// The device rejects register writes while streaming, so this must
// precede any WriteReg.
func (d *Device) StopContinuous() error {
	return d.sendCommand(CmdSDataC)
}

// StartContinuous starts conversions and puts the device into
// read-data-continuous mode.
func (d *Device) StartContinuous() error {
	if err := d.sendCommand(CmdStart); err != nil {
		return err
	}
	return d.sendCommand(CmdRDataC)
}

// Stop halts conversions and leaves read-data-continuous mode.
func (d *Device) Stop() error {
	if err := d.sendCommand(CmdStop); err != nil {
		return err
	}
	return d.sendCommand(CmdSDataC)
}

// WriteReg writes a single register. The value persists only in
// device hardware, there is no software mirror.
func (d *Device) WriteReg(addr, value byte) error {
	_, err := d.bus.Transact([]byte{CmdWReg | addr, 0x00, value})
	return err
}

// ReadReg reads a single register.
func (d *Device) ReadReg(addr byte) (byte, error) {
	rx, err := d.bus.Transact([]byte{CmdRReg | addr, 0x00, 0x00})
	if err != nil {
		return 0, err
	}
	return rx[2], nil
}

// ID reads the device identification register. Diagnostic only.
func (d *Device) ID() (byte, error) {
	return d.ReadReg(RegMap[RegID])
}

// ReadFrame captures one raw data frame. In continuous mode the frame
// is shifted out while dummy bytes are shifted in.
func (d *Device) ReadFrame() ([]byte, error) {
	return d.bus.Transact(make([]byte, layers.FrameLength))
}

func (d *Device) applyProgram(program []RegWrite) error {
	for _, w := range program {
		if err := d.WriteReg(RegMap[w.Alias], w.Value); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) enter(program []RegWrite) error {
	if err := d.Reset(); err != nil {
		return err
	}
	if err := d.StopContinuous(); err != nil {
		return err
	}
	return d.applyProgram(program)
}

// EnterContinuous performs the full continuous-read entry sequence:
// reset, stop streaming, write the production register program, start
// streaming. The sequence is identical on repeated entries, nothing
// is skipped for an "already configured" device.
func (d *Device) EnterContinuous() error {
	log.Info("Entering continuous read mode")
	if err := d.enter(ContinuousProgram); err != nil {
		return err
	}
	return d.StartContinuous()
}

// EnterImpedance configures lead-off excitation and detection but
// does not start streaming. Impedance values are computed from
// whatever acquisition is already running, so this mode requires
// streaming to have been started by a prior continuous or self-test
// entry.
func (d *Device) EnterImpedance() error {
	log.Info("Entering impedance measurement mode")
	return d.enter(ImpedanceProgram)
}

// EnterSelfTest routes the internal test signal to all channels and
// starts streaming. Per-sample handling is identical to continuous
// read, only the prior register configuration differs.
func (d *Device) EnterSelfTest() error {
	log.Info("Entering self test mode")
	if err := d.enter(SelfTestProgram); err != nil {
		return err
	}
	return d.StartContinuous()
}
