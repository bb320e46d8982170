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

	"jinr.ru/greenlab/go-eeg/pkg/layers"
)

// Mailbox is the single-slot handoff between the data-ready context
// and the delivery loop. Put is called only by the data-ready handler,
// Take only by the delivery loop. Put overwrites the previous sample
// so the slot always holds the latest one; there is no queue. A set
// flag is observed exactly once: it is never lost and a stale sample
// is never delivered twice.
type Mailbox struct {
	mu    sync.Mutex
	ready bool
	slot  layers.Sample
}

func (m *Mailbox) Put(s layers.Sample) {
	m.mu.Lock()
	m.slot = s
	m.ready = true
	m.mu.Unlock()
}

func (m *Mailbox) Take() (layers.Sample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return layers.Sample{}, false
	}
	m.ready = false
	return m.slot, true
}
