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

package stream

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"jinr.ru/greenlab/go-eeg/pkg/acq"
	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/layers"
	"jinr.ru/greenlab/go-eeg/pkg/log"
	"jinr.ru/greenlab/go-eeg/pkg/srv"
)

const (
	// WriteTimeout bounds one subscriber write. Consumers slower than
	// this are dropped, delivery is best effort.
	WriteTimeout = 50 * time.Millisecond
)

// CommandHandler receives operator command lines read back from
// stream consumers.
type CommandHandler func(cmd string) error

// StreamServer fans decoded sample lines out to zero or more TCP
// consumers and feeds their command bytes back to the acquisition
// layer. There is no buffering for slow consumers beyond the socket
// itself.
type StreamServer struct {
	srv.Server
	handler CommandHandler

	mu          sync.Mutex
	subscribers map[net.Conn]struct{}
}

var _ acq.Sink = &StreamServer{}

func NewStreamServer(ctx context.Context, cfg *config.Config, handler CommandHandler) *StreamServer {
	log.Info("Initializing stream server with address: %s port: %d", cfg.IP, cfg.StreamConfig.Port)
	return &StreamServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
		},
		handler:     handler,
		subscribers: make(map[net.Conn]struct{}),
	}
}

func (s *StreamServer) Run() error {
	listener, err := net.Listen("tcp", s.StreamAddr())
	if err != nil {
		return err
	}
	defer listener.Close()

	errChan := make(chan error, 1)

	go func() {
		for {
			conn, acceptErr := listener.Accept()
			if acceptErr != nil {
				errChan <- acceptErr
				return
			}
			log.Info("Stream consumer connected: %s", conn.RemoteAddr())
			s.subscribe(conn)
			go s.readCommands(conn)
		}
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err = <-errChan:
		return err
	}
}

func (s *StreamServer) subscribe(conn net.Conn) {
	s.mu.Lock()
	s.subscribers[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *StreamServer) unsubscribe(conn net.Conn) {
	s.mu.Lock()
	delete(s.subscribers, conn)
	s.mu.Unlock()
	conn.Close()
}

// Subscribers returns the current number of stream consumers.
func (s *StreamServer) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// readCommands reads operator command lines from a consumer until the
// connection goes away.
func (s *StreamServer) readCommands(conn net.Conn) {
	defer s.unsubscribe(conn)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}
		log.Debug("Operator command from %s: %s", conn.RemoteAddr(), cmd)
		if err := s.handler(cmd); err != nil {
			log.Warning("Operator command rejected: %s", err)
		}
	}
	log.Info("Stream consumer disconnected: %s", conn.RemoteAddr())
}

// Send implements acq.Sink. Called at most once per captured frame
// with a fully decoded sample.
func (s *StreamServer) Send(sample layers.Sample) {
	s.broadcast(FormatSampleLine(sample))
}

// SendDiagnostic implements acq.Sink. Diagnostic lines also go to the
// log so they stay observable without a consumer attached.
func (s *StreamServer) SendDiagnostic(line string) {
	log.Info("%s", line)
	s.broadcast(line)
}

func (s *StreamServer) broadcast(line string) {
	data := []byte(line + "\n")

	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.subscribers))
	for conn := range s.subscribers {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if _, err := conn.Write(data); err != nil {
			log.Warning("Dropping stream consumer %s: %s", conn.RemoteAddr(), err)
			s.unsubscribe(conn)
		}
	}
}

// FormatSampleLine renders a sample as the line consumers parse:
// 9 comma-separated values, status word first. The status word is an
// integer and the voltages are plain decimal; consumer-side parsers
// accept a minus and an "e" but not the "+" that exponent notation
// carries for large magnitudes.
func FormatSampleLine(sample layers.Sample) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(sample[0]), 10))
	for _, v := range sample.Voltages() {
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return b.String()
}
