package phh

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Writer appends hands to a PHHS stream, one numbered table per hand.
// It is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one hand.
func (w *Writer) Write(hand *HandHistory) error {
	body, err := EncodeToBytes(hand)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	sep := ""
	if w.n > 0 {
		sep = "\n"
	}
	if _, err := fmt.Fprintf(w.w, "%s[%d]\n", sep, w.n+1); err != nil {
		return err
	}
	if _, err := w.w.Write(body); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of hands written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}
