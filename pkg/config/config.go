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

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

type StreamConfig struct {
	Port int `json:"port,omitempty"`
}

type ApiConfig struct {
	Port int `json:"port,omitempty"`
}

type BusConfig struct {
	SPIPort    string `json:"spiPort,omitempty"`
	SPIClockHz int64  `json:"spiClockHz,omitempty"`
	DRDYPin    string `json:"drdyPin,omitempty"`
}

type DaqConfig struct {
	ResetSettleMs   int     `json:"resetSettleMs,omitempty"`
	WatchdogMs      int     `json:"watchdogMs,omitempty"`
	LeadOffNanoamps float64 `json:"leadOffNanoamps,omitempty"`
}

type Config struct {
	IP       string `json:"ip,omitempty"`
	LogLevel string `json:"logLevel,omitempty"`
	DBPath   string `json:"dbPath,omitempty"`

	*StreamConfig `json:"stream,omitempty"`
	*ApiConfig    `json:"api,omitempty"`
	*BusConfig    `json:"bus,omitempty"`
	*DaqConfig    `json:"daq,omitempty"`

	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the config file if it exists. A missing file is not an
// error, the defaults stay in effect.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) String() (string, error) {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Config) StreamAddr() string {
	return fmt.Sprintf("%s:%d", c.IP, c.StreamConfig.Port)
}

func (c *Config) ApiAddr() string {
	return fmt.Sprintf("%s:%d", c.IP, c.ApiConfig.Port)
}

func (c *Config) ResetSettle() time.Duration {
	return time.Duration(c.DaqConfig.ResetSettleMs) * time.Millisecond
}

func (c *Config) WatchdogTimeout() time.Duration {
	return time.Duration(c.DaqConfig.WatchdogMs) * time.Millisecond
}

// LeadOffCurrent returns the assumed lead-off excitation current in amperes.
func (c *Config) LeadOffCurrent() float64 {
	return c.DaqConfig.LeadOffNanoamps * 1e-9
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		IP:       DefaultIP,
		LogLevel: DefaultLogLevel,
		DBPath:   DefaultDBPath(),
		StreamConfig: &StreamConfig{
			Port: DefaultStreamPort,
		},
		ApiConfig: &ApiConfig{
			Port: DefaultApiPort,
		},
		BusConfig: &BusConfig{
			SPIPort:    DefaultSPIPort,
			SPIClockHz: DefaultSPIClockHz,
			DRDYPin:    DefaultDRDYPin,
		},
		DaqConfig: &DaqConfig{
			ResetSettleMs:   DefaultResetSettleMs,
			WatchdogMs:      DefaultWatchdogMs,
			LeadOffNanoamps: DefaultLeadOffNanoamps,
		},
		filepath: DefaultConfigPath(),
	}
}
