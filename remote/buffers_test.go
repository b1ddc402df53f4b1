package remote

import "testing"

func TestMinDataSize(t *testing.T) {
	// control record dominates for small basic spaces
	if got := MinDataSize(3); got != 11 {
		t.Fatalf("MinDataSize(3) = %d, want 11", got)
	}
	// square matrix dominates for larger ones
	if got := MinDataSize(5); got != 25 {
		t.Fatalf("MinDataSize(5) = %d, want 25", got)
	}
	if got := MinDataSize(1); got != 5 {
		t.Fatalf("MinDataSize(1) = %d, want 5", got)
	}
}

func TestSendBufferLayout(t *testing.T) {
	b := NewSendBuffer(3, MinDataSize(3))

	b.SetCommand(CmdSetTrialResponse)
	copy(b.Disp(), []float64{1, 2, 3})
	copy(b.Vel(), []float64{4, 5, 6})
	copy(b.Accel(), []float64{7, 8, 9})
	b.Time()[0] = 0.5

	want := []float64{3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0.5}
	data := b.Data()
	if len(data) != len(want) {
		t.Fatalf("buffer length %d, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data[%d] = %v, want %v", i, data[i], want[i])
		}
	}

	if b.Command() != CmdSetTrialResponse {
		t.Fatalf("command = %v, want %v", b.Command(), CmdSetTrialResponse)
	}
}

func TestSendBufferAliasing(t *testing.T) {
	b := NewSendBuffer(2, MinDataSize(2))

	// the named views alias the backing array
	b.Disp()[1] = 42
	if b.Data()[2] != 42 {
		t.Fatalf("disp view does not alias backing array")
	}
	b.Data()[3] = 7
	if b.Vel()[0] != 7 {
		t.Fatalf("vel view does not alias backing array")
	}
}

func TestRecvBufferDualView(t *testing.T) {
	b := NewRecvBuffer(2, MinDataSize(2))

	copy(b.Data(), []float64{1, 2, 3, 4})

	f := b.Force()
	if f[0] != 1 || f[1] != 2 {
		t.Fatalf("force view = %v, want [1 2]", f)
	}

	m, err := b.Matrix()
	if err != nil {
		t.Fatal(err)
	}
	if m.At(0, 0) != 1 || m.At(0, 1) != 2 || m.At(1, 0) != 3 || m.At(1, 1) != 4 {
		t.Fatalf("matrix view does not match row-major data")
	}

	// both views share storage
	b.Data()[0] = 9
	if f[0] != 9 || m.At(0, 0) != 9 {
		t.Fatalf("views do not share backing storage")
	}
}

func TestRecvBufferMatrixTooSmall(t *testing.T) {
	b := &RecvBuffer{data: make([]float64, 3), basic: 2}
	if _, err := b.Matrix(); err == nil {
		t.Fatal("expected error for undersized matrix view")
	}
}
