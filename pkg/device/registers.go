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

package device

type RegAlias int

const (
	RegID RegAlias = iota
	RegConfig1
	RegConfig2
	RegConfig3
	RegLoff
	RegCh1Set
	RegCh2Set
	RegCh3Set
	RegCh4Set
	RegCh5Set
	RegCh6Set
	RegCh7Set
	RegCh8Set
	RegBiasSensP
	RegBiasSensN
	RegLoffSensP
	RegLoffSensN
	RegLoffFlip
	RegLoffStatP
	RegLoffStatN
	RegGpio
	RegMisc1
	RegMisc2
	RegConfig4
	RegAliasLimit
)

var RegMap = map[RegAlias]byte{
	RegID:        0x00,
	RegConfig1:   0x01,
	RegConfig2:   0x02,
	RegConfig3:   0x03,
	RegLoff:      0x04,
	RegCh1Set:    0x05,
	RegCh2Set:    0x06,
	RegCh3Set:    0x07,
	RegCh4Set:    0x08,
	RegCh5Set:    0x09,
	RegCh6Set:    0x0A,
	RegCh7Set:    0x0B,
	RegCh8Set:    0x0C,
	RegBiasSensP: 0x0D,
	RegBiasSensN: 0x0E,
	RegLoffSensP: 0x0F,
	RegLoffSensN: 0x10,
	RegLoffFlip:  0x11,
	RegLoffStatP: 0x12,
	RegLoffStatN: 0x13,
	RegGpio:      0x14,
	RegMisc1:     0x15,
	RegMisc2:     0x16,
	RegConfig4:   0x17,
}

// Command opcodes. RREG and WREG are ORed with the register address.
const (
	CmdWakeup  byte = 0x02
	CmdStandby byte = 0x04
	CmdReset   byte = 0x06
	CmdStart   byte = 0x08
	CmdStop    byte = 0x0A
	CmdRDataC  byte = 0x10
	CmdSDataC  byte = 0x11
	CmdRData   byte = 0x12
	CmdRReg    byte = 0x20
	CmdWReg    byte = 0x40
)

// RegWrite is one step of a mode-entry register program.
type RegWrite struct {
	Alias RegAlias
	Value byte
}

// ContinuousProgram is the production configuration: internal
// reference with bias amplifier enabled, 250 SPS, gain 24 on all
// channels referenced to SRB1, bias derived from all channels.
var ContinuousProgram = []RegWrite{
	{RegConfig3, 0xEC},
	{RegConfig1, 0x96},
	{RegConfig2, 0xC0},
	{RegCh1Set, 0x60},
	{RegCh2Set, 0x60},
	{RegCh3Set, 0x60},
	{RegCh4Set, 0x60},
	{RegCh5Set, 0x60},
	{RegCh6Set, 0x60},
	{RegCh7Set, 0x60},
	{RegCh8Set, 0x60},
	{RegBiasSensP, 0xFF},
	{RegBiasSensN, 0xFF},
	{RegMisc1, 0x20},
}

// SelfTestProgram routes the internal test signal to every channel.
var SelfTestProgram = []RegWrite{
	{RegConfig3, 0xEC},
	{RegConfig1, 0x96},
	{RegConfig2, 0xD0},
	{RegCh1Set, 0x65},
	{RegCh2Set, 0x65},
	{RegCh3Set, 0x65},
	{RegCh4Set, 0x65},
	{RegCh5Set, 0x65},
	{RegCh6Set, 0x65},
	{RegCh7Set, 0x65},
	{RegCh8Set, 0x65},
}

// ImpedanceProgram enables 6nA DC lead-off excitation and detection
// on all positive inputs. It deliberately does not start streaming.
var ImpedanceProgram = []RegWrite{
	{RegLoff, 0x03},
	{RegLoffSensP, 0xFF},
}
