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

package ifc

// Bus is a half-duplex synchronous serial exchange with the front end.
// Transact shifts tx out and returns the same number of bytes shifted
// in. Chip select is asserted for the duration of one Transact call
// and de-asserted between calls.
type Bus interface {
	Transact(tx []byte) ([]byte, error)
	Close() error
}

// DataReady is the hardware data-ready signal source.
type DataReady interface {
	// Wait blocks until the next data-ready edge. It returns false
	// when the signal source has been halted.
	Wait() bool
	Halt() error
}
