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
	"regexp"
	"strings"
	"testing"
	"time"

	"jinr.ru/greenlab/go-eeg/pkg/config"
	"jinr.ru/greenlab/go-eeg/pkg/layers"
)

// sampleLinePattern is the accept regex of downstream plotters,
// verbatim: 9 comma separated floats per line, no "+" allowed.
var sampleLinePattern = regexp.MustCompile(`^([\d\.\-eE]+,){8}[\d\.\-eE]+$`)

func newTestServer(handler CommandHandler) *StreamServer {
	if handler == nil {
		handler = func(string) error { return nil }
	}
	return NewStreamServer(context.Background(), config.NewDefaultConfig(), handler)
}

func TestFormatSampleLine(t *testing.T) {
	sample := layers.Sample{192, 0.5, -0.25, 1e-6, 0, 0, 0, 0, -4.5}
	line := FormatSampleLine(sample)
	if !sampleLinePattern.MatchString(line) {
		t.Fatalf("line %q does not match the consumer format", line)
	}
	want := "192,0.5,-0.25,0.000001,0,0,0,0,-4.5"
	if line != want {
		t.Fatalf("line=%q, want %q", line, want)
	}
}

func TestFormatSampleLineWithHardwareStatusWord(t *testing.T) {
	// The status word of a live front end always has its top bits set,
	// so sample[0] exceeds 1e6 on every frame.
	sample := layers.Sample{float64(0xC00000), 4.5 / 8388607, 0, 0, 0, 0, 0, 0, -4.5}
	line := FormatSampleLine(sample)
	if !sampleLinePattern.MatchString(line) {
		t.Fatalf("line %q does not match the consumer format", line)
	}
	if !strings.HasPrefix(line, "12582912,") {
		t.Fatalf("line %q must start with the status word as a plain integer", line)
	}
	if strings.Contains(line, "+") {
		t.Fatalf("line %q must not use signed exponent notation", line)
	}
}

func TestSendReachesSubscriber(t *testing.T) {
	s := newTestServer(nil)
	server, client := net.Pipe()
	defer client.Close()
	s.subscribe(server)

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(client)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	s.Send(layers.Sample{1, 2, 3, 4, 5, 6, 7, 8, 9})

	select {
	case line := <-lines:
		if line != "1,2,3,4,5,6,7,8,9" {
			t.Fatalf("line=%q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the sample line")
	}
}

func TestDiagnosticReachesSubscriber(t *testing.T) {
	s := newTestServer(nil)
	server, client := net.Pipe()
	defer client.Close()
	s.subscribe(server)

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(client)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	s.SendDiagnostic("Z,1,2,3,4,5,6,7,8")

	select {
	case line := <-lines:
		if line != "Z,1,2,3,4,5,6,7,8" {
			t.Fatalf("line=%q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the diagnostic line")
	}
}

func TestStalledSubscriberIsDropped(t *testing.T) {
	s := newTestServer(nil)
	server, client := net.Pipe()
	defer client.Close()
	s.subscribe(server)

	// Nobody reads from client, so the write deadline expires.
	s.Send(layers.Sample{})

	if n := s.Subscribers(); n != 0 {
		t.Fatalf("subscribers=%d, want 0 after a stalled write", n)
	}
}

func TestReadCommandsFeedsHandler(t *testing.T) {
	commands := make(chan string, 2)
	s := newTestServer(func(cmd string) error {
		commands <- cmd
		return nil
	})
	server, client := net.Pipe()
	s.subscribe(server)
	go s.readCommands(server)

	if _, err := client.Write([]byte("1\n \n2\n")); err != nil {
		t.Fatalf("write err=%v", err)
	}

	for _, want := range []string{"1", "2"} {
		select {
		case cmd := <-commands:
			if cmd != want {
				t.Fatalf("cmd=%q, want %q", cmd, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("handler did not receive command %q", want)
		}
	}

	client.Close()
	deadline := time.Now().Add(time.Second)
	for s.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("consumer was not unsubscribed after disconnect")
		}
		time.Sleep(time.Millisecond)
	}
}
