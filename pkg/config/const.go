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

package config

const (
	ConfigDir  = ".go-eeg"
	ConfigFile = "config"
	DBFile     = "state.db"

	DefaultIP         = "0.0.0.0"
	DefaultStreamPort = 8080
	DefaultApiPort    = 8003
	DefaultLogLevel   = "info"

	DefaultSPIPort    = "SPI0.0"
	DefaultSPIClockHz = 4000000
	DefaultDRDYPin    = "GPIO25"

	// Per ADS1299 timing requirements, commands issued earlier than
	// 18 tCLK after RESET are ignored. 100ms leaves a wide margin.
	DefaultResetSettleMs = 100

	DefaultWatchdogMs = 2000

	// Lead-off excitation current, nA. The impedance path divides
	// measured channel voltage by this value.
	DefaultLeadOffNanoamps = 6.0
)
