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

package daq

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

const (
	BucketName  = "daq"
	KeyMode     = "mode"
	KeyRestarts = "restarts"
)

// RunState persists operator-visible run state across daemon
// restarts: the last selected acquisition mode and the cumulative
// watchdog restart counter. Register values are never mirrored here,
// configuration stays write-only to the device.
type RunState struct {
	context.Context
	DB *bbolt.DB
}

func NewRunState(ctx context.Context, cfg *config.Config) (*RunState, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(cfg.DBPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &RunState{
		Context: ctx,
		DB:      db,
	}, nil
}

// Close ...
func (s *RunState) Close() {
	s.DB.Close()
}

// SetMode ...
func (s *RunState) SetMode(m acq.Mode) error {
	log.Debug("Persisting mode: %s", m)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName}
		}
		return b.Put([]byte(KeyMode), []byte{byte(m)})
	})
}

// GetMode returns the persisted mode and whether one was persisted.
func (s *RunState) GetMode() (acq.Mode, bool, error) {
	var m acq.Mode
	found := false
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName}
		}
		value := b.Get([]byte(KeyMode))
		if value == nil {
			return nil
		}
		m = acq.Mode(value[0])
		found = true
		return nil
	}); err != nil {
		return 0, false, err
	}
	return m, found, nil
}

// SetRestarts ...
func (s *RunState) SetRestarts(n uint64) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName}
		}
		return b.Put([]byte(KeyRestarts), uint64ToByte(n))
	})
}

// GetRestarts ...
func (s *RunState) GetRestarts() (uint64, error) {
	var n uint64
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName}
		}
		value := b.Get([]byte(KeyRestarts))
		if value != nil {
			n = binary.BigEndian.Uint64(value)
		}
		return nil
	}); err != nil {
		return 0, err
	}
	return n, nil
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
