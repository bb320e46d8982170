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

package bus

import (
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"jinr.ru/greenlab/go-eeg/pkg/bus/ifc"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

type SPIBus struct {
	port spi.PortCloser
	conn spi.Conn
}

var _ ifc.Bus = &SPIBus{}

// NewSPIBus opens the configured SPI port. The front end clocks data
// on the falling SCLK edge with CPOL=0, hence SPI mode 1.
func NewSPIBus(cfg *config.Config) (*SPIBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, err
	}
	conn, err := port.Connect(physic.Frequency(cfg.SPIClockHz)*physic.Hertz, spi.Mode1, 8)
	if err != nil {
		port.Close()
		return nil, err
	}
	log.Debug("Opened SPI port %s at %d Hz", cfg.SPIPort, cfg.SPIClockHz)
	return &SPIBus{
		port: port,
		conn: conn,
	}, nil
}

func (b *SPIBus) Transact(tx []byte) ([]byte, error) {
	rx := make([]byte, len(tx))
	if err := b.conn.Tx(tx, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

func (b *SPIBus) Close() error {
	return b.port.Close()
}
