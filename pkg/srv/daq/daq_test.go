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

package daq

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/layers"
	"jinr.ru/greenlab/go-eeg/pkg/srv"
)

// slowFrameDevice keeps a frame readout in flight long enough for a
// shutdown to overlap it.
type slowFrameDevice struct {
	readoutDone int32
}

func (d *slowFrameDevice) Reset() error                    { return nil }
func (d *slowFrameDevice) StopContinuous() error           { return nil }
func (d *slowFrameDevice) StartContinuous() error          { return nil }
func (d *slowFrameDevice) Stop() error                     { return nil }
func (d *slowFrameDevice) WriteReg(addr, value byte) error { return nil }
func (d *slowFrameDevice) ReadReg(addr byte) (byte, error) { return 0, nil }
func (d *slowFrameDevice) ID() (byte, error)               { return 0x3E, nil }
func (d *slowFrameDevice) EnterContinuous() error          { return nil }
func (d *slowFrameDevice) EnterImpedance() error           { return nil }
func (d *slowFrameDevice) EnterSelfTest() error            { return nil }

func (d *slowFrameDevice) ReadFrame() ([]byte, error) {
	time.Sleep(50 * time.Millisecond)
	atomic.StoreInt32(&d.readoutDone, 1)
	return make([]byte, layers.FrameLength), nil
}

// closeTrackingBus records whether Close overlapped an in-flight
// frame readout.
type closeTrackingBus struct {
	device      *slowFrameDevice
	closedEarly int32
}

func (b *closeTrackingBus) Transact(tx []byte) ([]byte, error) {
	return make([]byte, len(tx)), nil
}

func (b *closeTrackingBus) Close() error {
	if atomic.LoadInt32(&b.device.readoutDone) == 0 {
		atomic.StoreInt32(&b.closedEarly, 1)
	}
	return nil
}

type stubDataReady struct {
	edges  chan struct{}
	halted chan struct{}
}

func (d *stubDataReady) Wait() bool {
	select {
	case <-d.edges:
		return true
	case <-d.halted:
		return false
	}
}

func (d *stubDataReady) Halt() error {
	close(d.halted)
	return nil
}

type nopSink struct{}

func (nopSink) Send(layers.Sample)   {}
func (nopSink) SendDiagnostic(string) {}

func TestShutdownJoinsCaptureBeforeBusClose(t *testing.T) {
	device := &slowFrameDevice{}
	bus := &closeTrackingBus{device: device}
	drdy := &stubDataReady{
		edges:  make(chan struct{}, 1),
		halted: make(chan struct{}),
	}
	s := &DaqServer{
		Server: srv.Server{
			Context: context.Background(),
			Config:  config.NewDefaultConfig(),
		},
		bus:    bus,
		drdy:   drdy,
		device: device,
		state:  newTestRunState(t),
	}
	s.acq = acq.NewAcquisition(device, nopSink{}, 6e-9, 2*time.Second)

	captureDone := s.startCapture()
	drdy.edges <- struct{}{}
	// Let the capture loop get into the frame readout.
	time.Sleep(5 * time.Millisecond)

	s.shutdown(captureDone)

	select {
	case <-captureDone:
	default:
		t.Fatal("shutdown must not return before the capture loop has exited")
	}
	if atomic.LoadInt32(&bus.closedEarly) != 0 {
		t.Fatal("bus was closed while a frame readout was still in flight")
	}
}
