// Package input turns a raw terminal byte stream into per-frame input:
// quit and reseed keys plus SGR mouse positions.
package input

import (
	"bufio"
)

// maxPending bounds how many bytes of an unfinished escape sequence are
// carried into the next frame.
const maxPending = 64

// Input represents the current frame's input state.
type Input struct {
	Quit     bool   // q, Q or Ctrl-C
	Reseed   bool   // r or R
	Closed   bool   // The reader has ended (EOF or error)
	HasMouse bool   // Mouse holds a position reported this frame
	Mouse    Cell   // Last reported mouse position, 0-based
	Pressed  []byte // Raw bytes received this frame, without carried bytes
}

// Cell is a 0-based terminal cell position.
type Cell struct {
	Col, Row int
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Unfinished escape sequence from the previous frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them. Escape sequences split across frames are completed on the
// next call.
func ReadInput(s *Stream) Input {
	buf := s.pending
	carried := len(buf)
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// An escape with nothing after it for a whole frame was the Esc key.
	if carried == 1 && len(buf) == 1 {
		buf = buf[:0]
	}

	in := Input{Closed: s.closed, Pressed: buf[min(carried, len(buf)):]}
	rest := parse(buf, &in)
	if len(rest) > 0 && len(rest) <= maxPending && !s.closed {
		s.pending = append([]byte(nil), rest...)
	}
	return in
}

// parse applies buf to in and returns the trailing bytes of an unfinished
// escape sequence, if any.
func parse(buf []byte, in *Input) []byte {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(in, b)
			continue
		}

		if i+1 >= len(buf) {
			return buf[i:] // Lone escape, may be the start of a sequence
		}
		if buf[i+1] != '[' {
			i++ // Alt+key, ignored
			continue
		}

		n, complete := parseCSI(buf[i:], in)
		if !complete {
			return buf[i:]
		}
		i += n - 1
	}
	return nil
}

// parseCSI consumes one CSI sequence starting at data[0] == ESC.
// It returns the sequence length and whether the sequence was complete.
func parseCSI(data []byte, in *Input) (int, bool) {
	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if len(data) > 2 && data[2] == '<' {
		return parseSGRMouse(data, in)
	}

	// Any other CSI: parameters then a final byte in 0x40-0x7E.
	for end := 2; end < len(data); end++ {
		if data[end] >= 0x40 && data[end] <= 0x7e {
			return end + 1, true
		}
	}
	return 0, false
}

// parseSGRMouse records the pointer position from an SGR mouse report.
// Press, release, drag and motion reports all carry a position.
func parseSGRMouse(data []byte, in *Input) (int, bool) {
	end := 3
	for end < len(data) && data[end] != 'M' && data[end] != 'm' {
		if end >= 32 {
			return end, true // Garbage, skip it
		}
		end++
	}
	if end >= len(data) {
		return 0, false
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if ok && btn&64 == 0 { // Scroll wheel reports are not pointer moves
		in.Mouse = Cell{Col: x - 1, Row: y - 1}
		in.HasMouse = true
	}
	return end + 1, true
}

// parseSGRParams parses "Btn;X;Y" without allocating.
func parseSGRParams(p []byte) (btn, x, y int, ok bool) {
	var vals [3]int
	idx := 0
	digits := 0
	for _, c := range p {
		switch {
		case c >= '0' && c <= '9':
			vals[idx] = vals[idx]*10 + int(c-'0')
			digits++
		case c == ';':
			if digits == 0 || idx == 2 {
				return 0, 0, 0, false
			}
			idx++
			digits = 0
		default:
			return 0, 0, 0, false
		}
	}
	if idx != 2 || digits == 0 {
		return 0, 0, 0, false
	}
	return vals[0], vals[1], vals[2], true
}

// applyByte updates the frame input based on a single pressed byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'r', 'R':
		in.Reseed = true
	}
}
