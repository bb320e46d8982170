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

// Mode is the acquisition mode. Exactly one mode is active at a time
// and it changes only on explicit operator request.
type Mode int

const (
	ContinuousRead Mode = iota
	ImpedanceMeasure
	SelfTest
)

func (m Mode) String() string {
	switch m {
	case ContinuousRead:
		return "continuous"
	case ImpedanceMeasure:
		return "impedance"
	case SelfTest:
		return "selftest"
	}
	return "unknown"
}

// ParseMode accepts the mode names used by the API and the
// single-character commands sent by stream consumers.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "1", "continuous":
		return ContinuousRead, nil
	case "2", "impedance":
		return ImpedanceMeasure, nil
	case "3", "selftest":
		return SelfTest, nil
	}
	return 0, ErrUnknownMode{Name: s}
}
