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

// go-eeg API
//
// # RESTful APIs to interact with the go-eeg acquisition daemon
//
// Schemes: http
// Host: localhost:8003
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package daq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/log"
)

// RegHex ...
type RegHex struct {
	Addr  string `json:"addr"`  // hexadecimal
	Value string `json:"value"` // hexadecimal
}

// Status ...
type Status struct {
	Mode         string `json:"mode"`
	LastValid    string `json:"lastValid"`
	LastValidAge string `json:"lastValidAge"`
	Restarts     uint64 `json:"restarts"`
	Subscribers  int    `json:"subscribers"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	daq *DaqServer
}

func NewApiServer(ctx context.Context, cfg *config.Config, daq *DaqServer) *ApiServer {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, cfg.ApiConfig.Port)
	return &ApiServer{
		Context: ctx,
		Config:  cfg,
		daq:     daq,
	}
}

func (s *ApiServer) Run() error {
	log.Debug("Starting API server: address: %s port: %d", s.Config.IP, s.Config.ApiConfig.Port)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.CombinedLoggingHandler(os.Stderr, s.Router),
		Addr:    s.ApiAddr(),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/mode/{mode}", s.handleMode()).Methods("GET")
	subRouter.HandleFunc("/reg/get/{addr}", s.handleRegGet()).Methods("GET")
	subRouter.HandleFunc("/reg/set", s.handleRegSet()).Methods("POST")
	subRouter.HandleFunc("/id", s.handleID()).Methods("GET")
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
}

func parseHexByte(value string) (byte, error) {
	parsed, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(parsed), nil
}

// handleMode selects the acquisition mode
// swagger:operation GET /mode/{mode}
func (s *ApiServer) handleMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		m, err := acq.ParseMode(vars["mode"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.daq.SelectMode(m); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// handleRegGet reads a device register on demand, the value is not cached
// swagger:operation GET /reg/get/{addr}
func (s *ApiServer) handleRegGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		addr, err := parseHexByte(vars["addr"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value, err := s.daq.device.ReadReg(addr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(&RegHex{
			Addr:  fmt.Sprintf("0x%02X", addr),
			Value: fmt.Sprintf("0x%02X", value),
		})
	}
}

// handleRegSet writes a device register
// swagger:operation POST /reg/set
func (s *ApiServer) handleRegSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg := &RegHex{}
		if err := json.NewDecoder(r.Body).Decode(reg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		addr, err := parseHexByte(reg.Addr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value, err := parseHexByte(reg.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.daq.device.WriteReg(addr, value); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// handleID queries the device identification register
// swagger:operation GET /id
func (s *ApiServer) handleID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.daq.device.ID()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(&RegHex{
			Addr:  "0x00",
			Value: fmt.Sprintf("0x%02X", id),
		})
	}
}

// handleStatus reports the acquisition state for debugging
// swagger:operation GET /status
func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wd := s.daq.acq.Watchdog()
		last := wd.LastValid()
		json.NewEncoder(w).Encode(&Status{
			Mode:         s.daq.acq.Mode().String(),
			LastValid:    last.Format(time.RFC3339Nano),
			LastValidAge: time.Since(last).String(),
			Restarts:     wd.Restarts(),
			Subscribers:  s.daq.stream.Subscribers(),
		})
	}
}
