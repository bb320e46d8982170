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

import (
	"bytes"
	"testing"

	"jinr.ru/greenlab/go-eeg/pkg/layers"
)

// fakeBus records every transaction and echoes scripted responses.
type fakeBus struct {
	transactions [][]byte
	responses    map[byte][]byte // keyed by first tx byte
}

func (b *fakeBus) Transact(tx []byte) ([]byte, error) {
	recorded := make([]byte, len(tx))
	copy(recorded, tx)
	b.transactions = append(b.transactions, recorded)
	if resp, ok := b.responses[tx[0]]; ok {
		return resp, nil
	}
	return make([]byte, len(tx)), nil
}

func (b *fakeBus) Close() error { return nil }

func newTestDevice() (*Device, *fakeBus) {
	bus := &fakeBus{responses: make(map[byte][]byte)}
	return NewDevice(bus, 0), bus
}

func TestCommandOpcodes(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.Reset(); err != nil {
		t.Fatalf("Reset() err=%v", err)
	}
	if err := d.StopContinuous(); err != nil {
		t.Fatalf("StopContinuous() err=%v", err)
	}
	if err := d.StartContinuous(); err != nil {
		t.Fatalf("StartContinuous() err=%v", err)
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop() err=%v", err)
	}

	want := [][]byte{
		{0x06},         // RESET
		{0x11},         // SDATAC
		{0x08}, {0x10}, // START, RDATAC
		{0x0A}, {0x11}, // STOP, SDATAC
	}
	if len(bus.transactions) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(bus.transactions))
	}
	for i, tx := range want {
		if !bytes.Equal(bus.transactions[i], tx) {
			t.Errorf("transaction %d: got % X, want % X", i, bus.transactions[i], tx)
		}
	}
}

func TestWriteRegFraming(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.WriteReg(RegMap[RegConfig1], 0x96); err != nil {
		t.Fatalf("WriteReg() err=%v", err)
	}

	want := []byte{0x40 | 0x01, 0x00, 0x96}
	if !bytes.Equal(bus.transactions[0], want) {
		t.Fatalf("WREG framing: got % X, want % X", bus.transactions[0], want)
	}
}

func TestReadReg(t *testing.T) {
	d, bus := newTestDevice()
	bus.responses[0x20|0x00] = []byte{0x00, 0x00, 0x3E}

	id, err := d.ID()
	if err != nil {
		t.Fatalf("ID() err=%v", err)
	}
	if id != 0x3E {
		t.Fatalf("ID: got 0x%02X, want 0x3E", id)
	}
	want := []byte{0x20, 0x00, 0x00}
	if !bytes.Equal(bus.transactions[0], want) {
		t.Fatalf("RREG framing: got % X, want % X", bus.transactions[0], want)
	}
}

func TestReadFrameLength(t *testing.T) {
	d, bus := newTestDevice()

	frame, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() err=%v", err)
	}
	if len(frame) != layers.FrameLength {
		t.Fatalf("frame length: got %d, want %d", len(frame), layers.FrameLength)
	}
	if len(bus.transactions[0]) != layers.FrameLength {
		t.Fatalf("transaction length: got %d, want %d", len(bus.transactions[0]), layers.FrameLength)
	}
}

// entrySequence returns the transactions expected for a mode entry:
// RESET, SDATAC, the register program, optionally START+RDATAC.
func entrySequence(program []RegWrite, start bool) [][]byte {
	seq := [][]byte{{CmdReset}, {CmdSDataC}}
	for _, w := range program {
		seq = append(seq, []byte{CmdWReg | RegMap[w.Alias], 0x00, w.Value})
	}
	if start {
		seq = append(seq, []byte{CmdStart}, []byte{CmdRDataC})
	}
	return seq
}

func assertTransactions(t *testing.T, got, want [][]byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(got))
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("transaction %d: got % X, want % X", i, got[i], want[i])
		}
	}
}

func TestEnterContinuousSequence(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.EnterContinuous(); err != nil {
		t.Fatalf("EnterContinuous() err=%v", err)
	}
	assertTransactions(t, bus.transactions, entrySequence(ContinuousProgram, true))
}

func TestEnterImpedanceDoesNotStartStreaming(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.EnterImpedance(); err != nil {
		t.Fatalf("EnterImpedance() err=%v", err)
	}
	assertTransactions(t, bus.transactions, entrySequence(ImpedanceProgram, false))
	for _, tx := range bus.transactions {
		if tx[0] == CmdStart || tx[0] == CmdRDataC {
			t.Fatalf("impedance entry must not start streaming, saw opcode 0x%02X", tx[0])
		}
	}
}

func TestModeEntryIsUnconditional(t *testing.T) {
	d, bus := newTestDevice()

	// Self test, continuous, self test again: each entry must replay
	// the full sequence with nothing skipped.
	if err := d.EnterSelfTest(); err != nil {
		t.Fatalf("EnterSelfTest() err=%v", err)
	}
	if err := d.EnterContinuous(); err != nil {
		t.Fatalf("EnterContinuous() err=%v", err)
	}
	if err := d.EnterSelfTest(); err != nil {
		t.Fatalf("EnterSelfTest() err=%v", err)
	}

	var want [][]byte
	want = append(want, entrySequence(SelfTestProgram, true)...)
	want = append(want, entrySequence(ContinuousProgram, true)...)
	want = append(want, entrySequence(SelfTestProgram, true)...)
	assertTransactions(t, bus.transactions, want)
}

func TestRepeatedEntryIsIdempotent(t *testing.T) {
	d, bus := newTestDevice()

	if err := d.EnterContinuous(); err != nil {
		t.Fatalf("EnterContinuous() err=%v", err)
	}
	first := len(bus.transactions)
	if err := d.EnterContinuous(); err != nil {
		t.Fatalf("EnterContinuous() err=%v", err)
	}

	// The device receives exactly the same configuration both times.
	assertTransactions(t, bus.transactions[first:], bus.transactions[:first])
}
