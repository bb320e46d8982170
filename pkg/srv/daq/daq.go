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
	"time"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	buspkg "jinr.ru/greenlab/go-eeg/pkg/bus"
	busifc "jinr.ru/greenlab/go-eeg/pkg/bus/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	devicepkg "jinr.ru/greenlab/go-eeg/pkg/device"
	deviceifc "jinr.ru/greenlab/go-eeg/pkg/device/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/log"
	"jinr.ru/greenlab/go-eeg/pkg/srv"
	"jinr.ru/greenlab/go-eeg/pkg/srv/stream"
)

const (
	// PollInterval is the pace of the cooperative delivery loop. It
	// only bounds delivery latency, not throughput: the mailbox keeps
	// the latest sample regardless.
	PollInterval = time.Millisecond
)

// DaqServer wires the bus, the device controller, the acquisition
// context and the two network surfaces (sample stream, control API)
// into one long-running daemon.
type DaqServer struct {
	srv.Server
	bus    busifc.Bus
	drdy   busifc.DataReady
	device deviceifc.Device
	acq    *acq.Acquisition
	stream *stream.StreamServer
	api    *ApiServer
	state  *RunState
}

// NewDaqServer ...
func NewDaqServer(ctx context.Context, cfg *config.Config) (*DaqServer, error) {
	log.Info("Initializing daq server")

	spiBus, err := buspkg.NewSPIBus(cfg)
	if err != nil {
		return nil, err
	}
	drdy, err := buspkg.NewDRDYPin(cfg.DRDYPin)
	if err != nil {
		spiBus.Close()
		return nil, err
	}
	state, err := NewRunState(ctx, cfg)
	if err != nil {
		spiBus.Close()
		return nil, err
	}

	s := &DaqServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
		},
		bus:    spiBus,
		drdy:   drdy,
		device: devicepkg.NewDevice(spiBus, cfg.ResetSettle()),
		state:  state,
	}
	s.stream = stream.NewStreamServer(ctx, cfg, s.HandleCommand)
	s.acq = acq.NewAcquisition(s.device, s.stream, cfg.LeadOffCurrent(), cfg.WatchdogTimeout())
	s.api = NewApiServer(ctx, cfg, s)
	return s, nil
}

// SelectMode performs the full mode-entry sequence and persists the
// selection.
func (s *DaqServer) SelectMode(m acq.Mode) error {
	if err := s.acq.SetMode(m); err != nil {
		return err
	}
	if err := s.state.SetMode(m); err != nil {
		log.Warning("Failed to persist mode: %s", err)
	}
	return nil
}

// HandleCommand maps one operator command line to a mode selection.
func (s *DaqServer) HandleCommand(cmd string) error {
	m, err := acq.ParseMode(cmd)
	if err != nil {
		return err
	}
	return s.SelectMode(m)
}

// startupMode returns the persisted mode from the previous run, or
// continuous read for a fresh state.
func (s *DaqServer) startupMode() acq.Mode {
	m, found, err := s.state.GetMode()
	if err != nil {
		log.Warning("Failed to read persisted mode: %s", err)
		return acq.ContinuousRead
	}
	if !found {
		return acq.ContinuousRead
	}
	return m
}

// startCapture runs the data-ready context. Strictly bounded body:
// capture, decode, stage. Stands in for the hardware interrupt
// handler. The returned channel closes when the loop has exited.
func (s *DaqServer) startCapture() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s.drdy.Wait() {
			s.acq.HandleDataReady()
		}
	}()
	return done
}

// shutdown halts the data-ready source and joins the capture loop
// before releasing the bus, so no frame readout races a closed bus.
func (s *DaqServer) shutdown(captureDone chan struct{}) {
	s.drdy.Halt()
	<-captureDone
	s.bus.Close()
	s.state.Close()
}

func (s *DaqServer) Run() error {
	captureDone := s.startCapture()
	defer s.shutdown(captureDone)

	// Diagnostic only, the value is not consumed by any logic.
	if id, err := s.device.ID(); err == nil {
		log.Info("Device ID: 0x%02X", id)
	} else {
		log.Warning("Device ID query failed: %s", err)
	}

	if err := s.SelectMode(s.startupMode()); err != nil {
		return err
	}

	if n, err := s.state.GetRestarts(); err == nil && n > 0 {
		log.Info("Watchdog restarts so far: %d", n)
	}

	errChan := make(chan error, 1)

	go func() {
		errChan <- s.stream.Run()
	}()

	go func() {
		errChan <- s.api.Run()
	}()

	// Cooperative polling loop: deliver the latest staged sample and
	// run the watchdog once per iteration.
	go func() {
		ticker := time.NewTicker(PollInterval)
		defer ticker.Stop()
		base, _ := s.state.GetRestarts()
		for {
			select {
			case <-ticker.C:
				s.acq.Deliver()
				if s.acq.CheckLiveness() {
					if err := s.state.SetRestarts(base + s.acq.Watchdog().Restarts()); err != nil {
						log.Warning("Failed to persist restart counter: %s", err)
					}
				}
			case <-s.Context.Done():
				return
			}
		}
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}
