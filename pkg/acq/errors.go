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
	"fmt"
)

// ErrUnknownMode returned when an operator command names no known acquisition mode
type ErrUnknownMode struct {
	Name string
}

func (e ErrUnknownMode) Error() string {
	return fmt.Sprintf("Unknown acquisition mode: %s. Must be one of: continuous, impedance, selftest or 1, 2, 3", e.Name)
}
