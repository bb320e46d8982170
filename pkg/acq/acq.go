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

package acq

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"

	deviceifc "jinr.ru/greenlab/go-eeg/pkg/device/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/layers"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

// Sink receives decoded samples and diagnostic lines. Delivery is
// fire-and-forget: a slow or absent sink must not block or fail the
// acquisition path.
type Sink interface {
	Send(s layers.Sample)
	SendDiagnostic(line string)
}

// Acquisition owns all mutable acquisition state: the active mode,
// the sample mailbox and the liveness watchdog. It is passed
// explicitly to the data-ready context and the polling loop instead of
// living in process-wide variables.
type Acquisition struct {
	device  deviceifc.Device
	sink    Sink
	leadOff float64

	// mode is read by the data-ready context and written only by the
	// operator path. A dispatch may still observe the previous mode
	// for one cycle after a transition; accepted.
	mode int32

	// entryMu serializes mode-entry sequences. Selections arrive
	// concurrently from API handlers, stream readers and the watchdog,
	// and the bus transactions of one entry must not interleave with
	// another.
	entryMu sync.Mutex

	mailbox  Mailbox
	watchdog *Watchdog
}

func NewAcquisition(device deviceifc.Device, sink Sink, leadOff float64, watchdogTimeout time.Duration) *Acquisition {
	a := &Acquisition{
		device:  device,
		sink:    sink,
		leadOff: leadOff,
	}
	a.watchdog = NewWatchdog(watchdogTimeout, func() error {
		return a.SetMode(ContinuousRead)
	})
	return a
}

// Mode returns the currently active acquisition mode.
func (a *Acquisition) Mode() Mode {
	return Mode(atomic.LoadInt32(&a.mode))
}

// Watchdog exposes the liveness policy for status reporting.
func (a *Acquisition) Watchdog() *Watchdog {
	return a.watchdog
}

// SetMode performs the full mode-entry sequence for m. The sequence is
// unconditional: selecting the already active mode re-runs the whole
// reset and configuration program. The mode becomes active only after
// the entry sequence went through.
func (a *Acquisition) SetMode(m Mode) error {
	a.entryMu.Lock()
	defer a.entryMu.Unlock()

	var err error
	switch m {
	case ContinuousRead:
		err = a.device.EnterContinuous()
	case ImpedanceMeasure:
		err = a.device.EnterImpedance()
	case SelfTest:
		err = a.device.EnterSelfTest()
	default:
		return ErrUnknownMode{Name: m.String()}
	}
	if err != nil {
		return err
	}
	atomic.StoreInt32(&a.mode, int32(m))
	return nil
}

// HandleDataReady services one hardware data-ready signal. It runs in
// the data-ready context and stays strictly bounded: capture the
// frame, decode it and stage the result in the mailbox, or for the
// impedance path emit one diagnostic line. It never blocks on the
// delivery loop.
func (a *Acquisition) HandleDataReady() {
	raw, err := a.device.ReadFrame()
	if err != nil {
		log.Debug("Frame capture failed: %s", err)
		return
	}
	var frame layers.DataFrame
	if err := frame.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); err != nil {
		log.Debug("Dropping frame: %s", err)
		return
	}
	switch a.Mode() {
	case ContinuousRead, SelfTest:
		a.mailbox.Put(frame.Sample())
	case ImpedanceMeasure:
		a.sink.SendDiagnostic(FormatImpedanceLine(Impedances(frame.Sample(), a.leadOff)))
	}
}

// Deliver hands at most the latest staged sample to the sink, exactly
// once per detected readiness, and advances the last-valid timestamp.
// Called by the polling loop.
func (a *Acquisition) Deliver() {
	s, ok := a.mailbox.Take()
	if !ok {
		return
	}
	a.sink.Send(s)
	a.watchdog.Touch()
}

// CheckLiveness runs the watchdog once per scheduler iteration. The
// watchdog acts only while continuous read is the active mode.
func (a *Acquisition) CheckLiveness() bool {
	return a.watchdog.Check(a.Mode() == ContinuousRead)
}
