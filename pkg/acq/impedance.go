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
	"strconv"
	"strings"

	"jinr.ru/greenlab/go-eeg/pkg/layers"
)

// Impedances converts the channel voltages of a sample to electrode
// impedances in ohms assuming a constant lead-off excitation current.
// The status channel is skipped. No compensation is applied for DC
// offset.
func Impedances(s layers.Sample, current float64) [layers.NumChannels]float64 {
	var z [layers.NumChannels]float64
	for i, v := range s.Voltages() {
		z[i] = v / current
	}
	return z
}

// FormatImpedanceLine renders one impedance measurement as a
// diagnostic line: "Z," followed by 8 comma-separated ohm values in
// plain decimal, same notation rules as the sample lines.
func FormatImpedanceLine(z [layers.NumChannels]float64) string {
	var b strings.Builder
	b.WriteString("Z")
	for _, v := range z {
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return b.String()
}
