package draw

import (
	"bytes"
	"strings"
	"testing"
)

// countingWriter records the size of every Write.
type countingWriter struct {
	bytes.Buffer
	writes []int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func TestFrameWriterFlushesInChunks(t *testing.T) {
	out := &countingWriter{}
	fw := NewFrameWriter(out, 2, 3)
	fw.WriteAt(1, 1, "hi", false)
	long := strings.Repeat("x", maxChunkSize*2+10)
	fw.Write([]byte(long))

	if out.Len() != 0 {
		t.Fatal("FrameWriter wrote before Flush")
	}
	if err := fw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[4;3Hhi" + long
	if out.String() != want {
		t.Errorf("flushed %d bytes, want %d", out.Len(), len(want))
	}
	for i, n := range out.writes {
		if n > maxChunkSize {
			t.Errorf("write %d was %d bytes, limit %d", i, n, maxChunkSize)
		}
	}

	if err := fw.Flush(); err != nil || len(out.writes) != 3 {
		t.Errorf("second flush: err=%v writes=%d, want nothing sent", err, len(out.writes))
	}
}

func TestFrameWriterDimText(t *testing.T) {
	var out bytes.Buffer
	fw := NewFrameWriter(&out, 0, 0)
	fw.SetOffset(1, 0)
	fw.WriteAt(5, 2, "hint", true)
	_ = fw.Flush()

	if got, want := out.String(), "\033[2;6H\033[0m\033[2mhint\033[0m"; got != want {
		t.Errorf("WriteAt = %q, want %q", got, want)
	}
}

func TestSetupAndRestoreTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := SetupTerminal(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[?25l\033[?1003h\033[?1006h\033[H\033[2J" {
		t.Errorf("setup = %q", got)
	}

	buf.Reset()
	if err := RestoreTerminal(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\033[?1006l\033[?1003l\033[0m\033[?25h\033[H\033[2J" {
		t.Errorf("restore = %q", got)
	}
}
