package transport

import (
	"reflect"
	"testing"
	"time"

	"github.com/hybridsim/substructure/common"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"tcp", TCP},
		{"udp", UDP},
		{"tls", TLS},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", c.in, got, c.want)
		}
		if got.String() != c.in {
			t.Fatalf("String() = %q, want %q", got.String(), c.in)
		}
	}

	if _, err := ParseKind("carrier-pigeon"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func echo(t *testing.T, ln Listener, ints, floats int) {
	ch, err := ln.Accept()
	if err != nil {
		t.Error(err)
		return
	}
	defer ch.Close()

	iv := make([]int32, ints)
	if err := ch.RecvInts(iv); err != nil {
		t.Error(err)
		return
	}
	if err := ch.SendInts(iv); err != nil {
		t.Error(err)
		return
	}

	fv := make([]float64, floats)
	if err := ch.RecvFloats(fv); err != nil {
		t.Error(err)
		return
	}
	if err := ch.SendFloats(fv); err != nil {
		t.Error(err)
	}
}

func testEcho(t *testing.T, kind Kind, floats int) {
	ln, err := Listen(kind, "127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go echo(t, ln, 11, floats)

	ch, err := Dial(kind, ln.Addr().String(), time.Second, nil,
		common.NewTestEntry(t, "transport"))
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()

	iv := []int32{3, 3, 3, 0, 1, 0, 0, 0, 3, 0, 11}
	if err := ch.SendInts(iv); err != nil {
		t.Fatal(err)
	}
	gotInts := make([]int32, len(iv))
	if err := ch.RecvInts(gotInts); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotInts, iv) {
		t.Fatalf("ints = %v, want %v", gotInts, iv)
	}

	fv := make([]float64, floats)
	for i := range fv {
		fv[i] = float64(i) * 0.5
	}
	if err := ch.SendFloats(fv); err != nil {
		t.Fatal(err)
	}
	gotFloats := make([]float64, len(fv))
	if err := ch.RecvFloats(gotFloats); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotFloats, fv) {
		t.Fatalf("floats mismatch after round trip")
	}
}

func TestTCPChannel(t *testing.T) {
	testEcho(t, TCP, 64)
}

func TestUDPChannel(t *testing.T) {
	testEcho(t, UDP, 64)
}

func TestUDPChannelChunked(t *testing.T) {
	// 3000 floats = 24000 bytes, split over three datagrams
	testEcho(t, UDP, 3000)
}

func TestUDPListenerSingleSession(t *testing.T) {
	ln, err := Listen(UDP, "127.0.0.1:0", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	if _, err := ln.Accept(); err != nil {
		t.Fatal(err)
	}
	if _, err := ln.Accept(); err == nil {
		t.Fatal("second accept on a udp listener must fail")
	}
}

func TestPipe(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		v := make([]float64, 4)
		if err := b.RecvFloats(v); err != nil {
			t.Error(err)
			return
		}
		b.SendFloats(v)
	}()

	want := []float64{1, 2, 3, 4}
	if err := a.SendFloats(want); err != nil {
		t.Fatal(err)
	}
	got := make([]float64, 4)
	if err := a.RecvFloats(got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pipe round trip = %v, want %v", got, want)
	}
}
