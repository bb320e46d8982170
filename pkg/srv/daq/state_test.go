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
	"path/filepath"
	"testing"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	"jinr.ru/greenlab/go-eeg/pkg/config"
)

func newTestRunState(t *testing.T) *RunState {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "state.db")
	state, err := NewRunState(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewRunState err=%v", err)
	}
	t.Cleanup(state.Close)
	return state
}

func TestModeRoundTrip(t *testing.T) {
	state := newTestRunState(t)

	if _, found, err := state.GetMode(); err != nil || found {
		t.Fatalf("GetMode on fresh state: found=%v err=%v", found, err)
	}

	if err := state.SetMode(acq.SelfTest); err != nil {
		t.Fatalf("SetMode err=%v", err)
	}
	m, found, err := state.GetMode()
	if err != nil {
		t.Fatalf("GetMode err=%v", err)
	}
	if !found || m != acq.SelfTest {
		t.Fatalf("GetMode=(%s, %v), want (selftest, true)", m, found)
	}

	if err := state.SetMode(acq.ContinuousRead); err != nil {
		t.Fatalf("SetMode err=%v", err)
	}
	m, found, err = state.GetMode()
	if err != nil || !found || m != acq.ContinuousRead {
		t.Fatalf("GetMode=(%s, %v, %v), want (continuous, true, nil)", m, found, err)
	}
}

func TestRestartsRoundTrip(t *testing.T) {
	state := newTestRunState(t)

	n, err := state.GetRestarts()
	if err != nil || n != 0 {
		t.Fatalf("GetRestarts on fresh state=(%d, %v), want (0, nil)", n, err)
	}

	if err := state.SetRestarts(42); err != nil {
		t.Fatalf("SetRestarts err=%v", err)
	}
	n, err = state.GetRestarts()
	if err != nil || n != 42 {
		t.Fatalf("GetRestarts=(%d, %v), want (42, nil)", n, err)
	}
}
