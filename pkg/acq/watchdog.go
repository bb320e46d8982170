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
	"time"

	"jinr.ru/greenlab/go-eeg/pkg/log"
)

// Watchdog is the liveness policy: a staleness threshold plus a
// recovery action. It does not distinguish root causes, a stalled
// pipeline always gets the same blind restart. Substituting the
// Restart func changes the recovery strategy without touching the
// acquisition state machine.
type Watchdog struct {
	Timeout time.Duration
	Restart func() error

	now func() time.Time

	mu       sync.Mutex
	last     time.Time
	restarts uint64
}

func NewWatchdog(timeout time.Duration, restart func() error) *Watchdog {
	w := &Watchdog{
		Timeout: timeout,
		Restart: restart,
		now:     time.Now,
	}
	w.last = w.now()
	return w
}

// Touch records that a sample was actually delivered downstream.
func (w *Watchdog) Touch() {
	w.mu.Lock()
	w.last = w.now()
	w.mu.Unlock()
}

// LastValid returns the time of the last accepted sample.
func (w *Watchdog) LastValid() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Restarts returns how many times the recovery action has fired.
func (w *Watchdog) Restarts() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restarts
}

// Check runs once per scheduler iteration. When active and the
// staleness threshold is exceeded it fires the recovery action exactly
// once and advances the timestamp immediately, so one stall causes one
// restart. Returns whether a restart fired.
func (w *Watchdog) Check(active bool) bool {
	if !active {
		return false
	}
	w.mu.Lock()
	stale := w.now().Sub(w.last) > w.Timeout
	if stale {
		w.last = w.now()
		w.restarts++
	}
	w.mu.Unlock()
	if !stale {
		return false
	}
	log.Warning("No valid samples for more than %s, restarting acquisition", w.Timeout)
	if err := w.Restart(); err != nil {
		log.Error("Watchdog restart failed: %s", err)
	}
	return true
}
