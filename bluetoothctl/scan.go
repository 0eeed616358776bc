package bluetoothctl

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
	"github.com/bluetuith-org/bluectl/api/eventbus"
	"github.com/bluetuith-org/bluectl/bluetoothctl/output"
	"github.com/puzpuzpuz/xsync/v3"
)

// maxLineSize bounds a single line of scan output.
const maxLineSize = 1024 * 1024

// scanReader accumulates the output of a scan session and reports every
// device the first time it is announced.
type scanReader struct {
	r io.Reader

	buf strings.Builder
	mu  sync.Mutex

	events *xsync.Counter
	seen   *xsync.MapOf[bluetooth.MacAddress, bluetooth.DeviceEntry]

	done chan struct{}
}

func newScanReader(r io.Reader) *scanReader {
	return &scanReader{
		r:      r,
		events: xsync.NewCounter(),
		seen:   xsync.NewMapOf[bluetooth.MacAddress, bluetooth.DeviceEntry](),
		done:   make(chan struct{}),
	}
}

// drain reads until the session's output is closed.
func (s *scanReader) drain() {
	defer close(s.done)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()

		s.mu.Lock()
		s.buf.WriteString(line)
		s.buf.WriteByte('\n')
		s.mu.Unlock()

		device, ok := output.ParseScanLine(line)
		if !ok {
			continue
		}

		s.events.Inc()
		if _, loaded := s.seen.LoadOrStore(device.Address, device); !loaded {
			eventbus.Publish(eventbus.DeviceFound, eventbus.DeviceFoundEvent{Device: device})
		}
	}
}

// String returns the output accumulated so far.
func (s *scanReader) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.String()
}
