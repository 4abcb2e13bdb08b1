package channel

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
	"github.com/harlequix/parcheck/protocol"
	"github.com/harlequix/parcheck/rtt"
	"github.com/harlequix/parcheck/transport"
)

func TestSimulateNoError(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	for _, method := range detection.Methods() {
		trace, err := Simulate(string(method), "NO_ERROR", "Hello", detection.DefaultOptions(), injection.DefaultParams(), src)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if !trace.Report.Intact {
			t.Errorf("%s: undamaged message reported as corrupted: %+v", method, trace.Report)
		}
		if *trace.Forwarded != *trace.Sent {
			t.Errorf("%s: NO_ERROR changed the packet", method)
		}
	}
}

func TestSimulateForwardsControlInfoUnchanged(t *testing.T) {
	src := rand.New(rand.NewSource(2))
	for _, typ := range injection.Types() {
		trace, err := Simulate("CHECKSUM", string(typ), "Hello World", detection.DefaultOptions(), injection.DefaultParams(), src)
		if err != nil {
			t.Fatal(err)
		}
		if trace.Forwarded.ControlInfo != trace.Sent.ControlInfo || trace.Forwarded.Method != trace.Sent.Method {
			t.Errorf("%s: relay altered method or control info", typ)
		}
	}
}

// A substituted character may coincide with the original one, so the
// detection rate is high but must not be required to be perfect.
func TestCRCSubstitutionDetectionRate(t *testing.T) {
	src := rand.New(rand.NewSource(3))
	const trials = 2000
	detected := 0
	for i := 0; i < trials; i++ {
		trace, err := Simulate("CRC", "CHAR_SUBSTITUTION", "Hello", detection.DefaultOptions(), injection.DefaultParams(), src)
		if err != nil {
			t.Fatal(err)
		}
		if !trace.Report.Intact {
			detected++
		} else if trace.Forwarded.Data != "Hello" {
			t.Logf("CRC collision for %q", trace.Forwarded.Data)
		}
	}
	rate := float64(detected) / trials
	if rate < 0.9 {
		t.Errorf("detection rate %.3f too low", rate)
	}
	t.Logf("detection rate %.3f", rate)
}

func TestSimulateUnknownNames(t *testing.T) {
	src := rand.New(rand.NewSource(4))
	if _, err := Simulate("MD5", "NO_ERROR", "x", detection.DefaultOptions(), injection.DefaultParams(), src); !errors.Is(err, detection.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if _, err := Simulate("CRC", "DROP", "x", detection.DefaultOptions(), injection.DefaultParams(), src); !errors.Is(err, injection.ErrUnknownInjection) {
		t.Errorf("expected ErrUnknownInjection, got %v", err)
	}
}

func TestReceiverCheck(t *testing.T) {
	r := NewReceiver(detection.DefaultOptions(), 0)
	report := r.Check(protocol.NewPacket("ab", "checksum", "9e9d"))
	if !report.Intact || report.Computed != "9e9d" || report.Err != nil {
		t.Errorf("unexpected report %+v", report)
	}
	report = r.Check(protocol.NewPacket("ab", "CHECKSUM", "0000"))
	if report.Intact || report.Computed != "9e9d" {
		t.Errorf("wrong checksum accepted or not recomputed: %+v", report)
	}
	report = r.Check(protocol.NewPacket("ab", "SHA1", "0000"))
	if !errors.Is(report.Err, detection.ErrUnknownMethod) || report.Intact {
		t.Errorf("unknown method not reported: %+v", report)
	}
}

func TestRelayUnknownInjectionForwardsOriginal(t *testing.T) {
	var got *protocol.Packet
	relay := NewRelay(func(ctx context.Context, p *protocol.Packet) error {
		got = p
		return nil
	}, Fixed("SCRAMBLE"), injection.DefaultParams(), rand.New(rand.NewSource(5)))
	relay.Handle(context.Background(), protocol.NewPacket("Hello", "CRC", "11110110"))
	if got == nil || got.Data != "Hello" {
		t.Errorf("expected original data, got %+v", got)
	}
}

func TestDebuggerEvents(t *testing.T) {
	debug := NewDebugger()
	corrupted := make(chan Event, 1)
	debug.Subscribe(EventCorrupted, corrupted)
	relay := NewRelay(func(context.Context, *protocol.Packet) error { return nil },
		Fixed(injection.CharDeletion), injection.DefaultParams(), rand.New(rand.NewSource(6)))
	relay.Debug = debug
	relay.Handle(context.Background(), protocol.NewPacket("Hello", "PARITY", "0"))
	select {
	case ev := <-corrupted:
		if ev.Original != "Hello" || ev.Injection != injection.CharDeletion || len(ev.Packet.Data) != 4 {
			t.Errorf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("no event emitted")
	}
	// a full subscriber does not block
	relay.Handle(context.Background(), protocol.NewPacket("Hello", "PARITY", "0"))
	relay.Handle(context.Background(), protocol.NewPacket("Hello", "PARITY", "0"))
}

func TestRelayDelimiterInDataIsLost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	receiver := NewReceiver(detection.DefaultOptions(), 1)
	receiverAddr := serve(t, ctx, receiver.Handle)

	debug := NewDebugger()
	lost := make(chan Event, 1)
	debug.Subscribe(EventLost, lost)
	// position 1, printable 33+91 = '|'
	relay := NewRelay(ForwardTo(receiverAddr, transport.DefaultConfig()),
		Fixed(injection.CharSubstitution), injection.DefaultParams(), constSource(91))
	relay.Debug = debug
	relay.Handle(ctx, protocol.NewPacket("Hello", "CRC", "11110110"))

	select {
	case ev := <-lost:
		if ev.Packet.Data != "H|llo" || ev.Original != "Hello" {
			t.Errorf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("rejected packet not reported as lost")
	}
	select {
	case report := <-receiver.Reports:
		t.Errorf("malformed packet produced a report %+v", report)
	default:
	}
}

func TestSenderNotConnected(t *testing.T) {
	s := NewSender("127.0.0.1:1", nil, detection.DefaultOptions())
	if _, err := s.Send(context.Background(), "CRC", "Hello"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if _, err := s.Prepare("NOPE", "Hello"); !errors.Is(err, detection.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}

type constSource int

func (c constSource) Intn(n int) int { return int(c) % n }

func nextReport(t *testing.T, ctx context.Context, r *Receiver) *Report {
	t.Helper()
	select {
	case report := <-r.Reports:
		return report
	case <-ctx.Done():
		t.Fatal("timed out waiting for report")
	}
	return nil
}

func serve(t *testing.T, ctx context.Context, handler transport.Handler) string {
	t.Helper()
	ln, err := transport.Listen("127.0.0.1:0", transport.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go ln.Serve(ctx, handler)
	return ln.Addr().String()
}

func TestEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	opts := detection.DefaultOptions()

	receiver := NewReceiver(opts, 8)
	receiverAddr := serve(t, ctx, receiver.Handle)

	relay := NewRelay(ForwardTo(receiverAddr, transport.DefaultConfig()), func(p *protocol.Packet) injection.Type {
		if p.Data == "corrupt me" {
			return injection.BurstError
		}
		return injection.NoError
	}, injection.DefaultParams(), constSource(0))
	relayAddr := serve(t, ctx, relay.Handle)

	sender := NewSender(relayAddr, transport.DefaultConfig(), opts)
	sender.RTT = rtt.NewRTTManager(ctx)
	if err := sender.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	defer sender.Close()

	if _, err := sender.Send(ctx, "CRC", "Hello"); err != nil {
		t.Fatal(err)
	}
	report := nextReport(t, ctx, receiver)
	if !report.Intact || report.Packet.Data != "Hello" {
		t.Errorf("expected intact Hello, got %+v", report)
	}

	// the burst hits the first three bits and is always caught by CRC-8
	if _, err := sender.Send(ctx, "crc", "corrupt me"); err != nil {
		t.Fatal(err)
	}
	report = nextReport(t, ctx, receiver)
	if report.Intact {
		t.Errorf("burst error not detected: %+v", report)
	}
	if report.Packet.ControlInfo == report.Computed {
		t.Errorf("control info should differ")
	}
	if sender.RTT.GetMeasurement() <= 0 {
		t.Errorf("acknowledged sends should yield an RTT")
	}
}
