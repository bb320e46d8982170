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

package layers

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// DataFrameLayerNum identifies the layer
	DataFrameLayerNum = 2021

	// NumChannels is the number of analog channels of the front end
	NumChannels = 8

	// FrameLength is the fixed size of one data frame:
	// 3 status bytes followed by 8 channels of 3 bytes each
	FrameLength = 3 + 3*NumChannels

	// VRef is the positive full-scale input voltage
	VRef = 4.5

	// FullScale is the 23-bit magnitude range of a sample
	FullScale = 0x7FFFFF
)

// DataFrame is one data-ready transaction worth of samples: a 24-bit
// status word and 8 channels of 24-bit two's-complement counts.
type DataFrame struct {
	layers.BaseLayer
	Status uint32
	Counts [NumChannels]int32
}

var DataFrameLayerType = gopacket.RegisterLayerType(DataFrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "DataFrameLayerType", Decoder: gopacket.DecodeFunc(DecodeDataFrame)})

// LayerType returns the type of the data frame layer in the layer catalog
func (f *DataFrame) LayerType() gopacket.LayerType {
	return DataFrameLayerType
}

func (f *DataFrame) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < FrameLength {
		df.SetTruncated()
		return ErrFrameLength{Length: len(data)}
	}
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:FrameLength],
		Payload:  data[FrameLength:],
	}
	f.Status = uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
	for i := 0; i < NumChannels; i++ {
		offset := 3 + 3*i
		word := uint32(data[offset])<<16 | uint32(data[offset+1])<<8 | uint32(data[offset+2])
		f.Counts[i] = signExtend24(word)
	}
	return nil
}

// Serialize serializes the data frame into a 27 byte buffer
func (f *DataFrame) Serialize(buf []byte) {
	putUint24(buf[0:3], f.Status)
	for i := 0; i < NumChannels; i++ {
		putUint24(buf[3+3*i:6+3*i], uint32(f.Counts[i]))
	}
}

// SerializeTo serializes the data frame layer into bytes and writes the bytes to the SerializeBuffer
func (f *DataFrame) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(FrameLength)
	if err != nil {
		return err
	}
	f.Serialize(bytes)
	return nil
}

func DecodeDataFrame(data []byte, p gopacket.PacketBuilder) error {
	f := &DataFrame{}
	err := f.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(f)
	return nil
}

// Sample is the 9-element delivery vector: index 0 carries the raw
// status word verbatim, indices 1 to 8 the channel voltages in volts.
type Sample [NumChannels + 1]float64

// Voltages returns the per-channel voltages without the status word.
func (s Sample) Voltages() []float64 {
	return s[1:]
}

// Sample converts the decoded counts to calibrated voltages. No
// clamping is applied, corrupt upstream data may exceed +-VRef.
func (f *DataFrame) Sample() Sample {
	var s Sample
	s[0] = float64(f.Status)
	for i := 0; i < NumChannels; i++ {
		s[i+1] = Voltage(f.Counts[i])
	}
	return s
}

// Voltage converts a 24-bit two's-complement count to volts.
func Voltage(count int32) float64 {
	return float64(count) * VRef / FullScale
}

func signExtend24(word uint32) int32 {
	if word&0x800000 != 0 {
		word |= 0xFF000000
	}
	return int32(word)
}

func putUint24(buf []byte, word uint32) {
	buf[0] = byte(word >> 16)
	buf[1] = byte(word >> 8)
	buf[2] = byte(word)
}
