// Package history keeps a bounded linear undo/redo log of encoded canvas
// snapshots.
package history

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultDepth is the maximum number of snapshots kept per layer.
const DefaultDepth = 20

// Blank is the color a canvas is cleared to when history runs out.
var Blank = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Stack is a cursor over an append-only snapshot log. Snapshots record the
// state before an edit; the cursor indexes the entry that matches the
// canvas, with -1 meaning nothing has been painted yet.
type Stack struct {
	entries [][]byte
	cursor  int
	depth   int

	// edited is set by Snapshot and cleared by any restore: the live canvas
	// holds an edit newer than the top entry.
	edited bool
}

// New returns an empty stack holding at most depth snapshots.
func New(depth int) *Stack {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Stack{cursor: -1, depth: depth}
}

// Len returns the number of stored snapshots.
func (s *Stack) Len() int { return len(s.entries) }

// Cursor returns the current position, -1 when no entry is active.
func (s *Stack) Cursor() int { return s.cursor }

// Depth returns the snapshot bound.
func (s *Stack) Depth() int { return s.depth }

// CanUndo reports whether Undo would change the canvas.
func (s *Stack) CanUndo() bool { return s.cursor >= 0 }

// CanRedo reports whether Redo would change the canvas.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Clear drops every snapshot.
func (s *Stack) Clear() {
	s.entries = nil
	s.cursor = -1
	s.edited = false
}

// TruncateForward discards every entry above the cursor.
func (s *Stack) TruncateForward() {
	if s.cursor < len(s.entries)-1 {
		clear(s.entries[s.cursor+1:])
		s.entries = s.entries[:s.cursor+1]
	}
}

// Snapshot records canvas as the state preceding an edit. Call it before the
// edit is applied.
func (s *Stack) Snapshot(canvas *image.NRGBA) error {
	data, err := encode(canvas)
	if err != nil {
		return err
	}
	s.TruncateForward()
	s.push(data)
	s.edited = true
	return nil
}

// Undo steps back one state. It reports false when there is nothing to undo.
func (s *Stack) Undo(canvas *image.NRGBA) (bool, error) {
	if s.cursor < 0 {
		return false, nil
	}

	// Keep the post-edit canvas reachable for Redo.
	if s.edited && s.cursor == len(s.entries)-1 {
		data, err := encode(canvas)
		if err != nil {
			return false, err
		}
		s.push(data)
	}
	s.edited = false

	if s.cursor == 0 {
		// Clearing a canvas that is already blank is not a step.
		s.cursor = -1
		if isBlank(canvas) {
			return false, nil
		}
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(Blank), image.Point{}, draw.Src)
		return true, nil
	}
	s.cursor--
	return true, restore(canvas, s.entries[s.cursor])
}

// Redo steps forward one state. It reports false when there is nothing to redo.
// Leaving the cleared state skips a first entry that matches the canvas.
func (s *Stack) Redo(canvas *image.NRGBA) (bool, error) {
	if !s.CanRedo() {
		return false, nil
	}
	if s.cursor == -1 && len(s.entries) > 1 {
		same, err := matches(canvas, s.entries[0])
		if err != nil {
			return false, err
		}
		if same {
			s.cursor = 0
		}
	}
	s.cursor++
	s.edited = false
	return true, restore(canvas, s.entries[s.cursor])
}

func (s *Stack) push(data []byte) {
	s.entries = append(s.entries, data)
	s.cursor = len(s.entries) - 1
	if len(s.entries) > s.depth {
		s.entries[0] = nil
		s.entries = s.entries[1:]
		s.cursor--
	}
}

func isBlank(canvas *image.NRGBA) bool {
	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := canvas.Pix[canvas.PixOffset(b.Min.X, y):][:b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] != Blank.R || row[i+1] != Blank.G || row[i+2] != Blank.B || row[i+3] != Blank.A {
				return false
			}
		}
	}
	return true
}

// matches reports whether data decodes to exactly the pixels of canvas.
func matches(canvas *image.NRGBA, data []byte) (bool, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("decoding snapshot: %w", err)
	}
	b := canvas.Bounds()
	if img.Bounds().Size() != b.Size() {
		return false, nil
	}
	src := imaging.Clone(img)
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		if !bytes.Equal(canvas.Pix[canvas.PixOffset(b.Min.X, b.Min.Y+y):][:row], src.Pix[y*src.Stride:][:row]) {
			return false, nil
		}
	}
	return true, nil
}

func encode(canvas *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// restore decodes data into canvas, resampling snapshots taken at another
// resolution.
func restore(canvas *image.NRGBA, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	b := canvas.Bounds()
	var src *image.NRGBA
	if img.Bounds().Size() != b.Size() {
		src = imaging.Resize(img, b.Dx(), b.Dy(), imaging.Linear)
	} else {
		src = imaging.Clone(img)
	}

	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(canvas.Pix[canvas.PixOffset(b.Min.X, b.Min.Y+y):][:row], src.Pix[y*src.Stride:][:row])
	}
	return nil
}
