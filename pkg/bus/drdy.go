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

package bus

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"jinr.ru/greenlab/go-eeg/pkg/bus/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

// DRDYPin watches the active-low data-ready line of the front end.
// One falling edge means one frame is latched and ready for readout.
type DRDYPin struct {
	pin gpio.PinIn
}

var _ ifc.DataReady = &DRDYPin{}

func NewDRDYPin(name string) (*DRDYPin, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, ErrPinNotFound{Name: name}
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, err
	}
	log.Debug("Watching DRDY on pin %s", name)
	return &DRDYPin{
		pin: pin,
	}, nil
}

func (d *DRDYPin) Wait() bool {
	return d.pin.WaitForEdge(-1)
}

func (d *DRDYPin) Halt() error {
	return d.pin.Halt()
}
