package tetris

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/icza/bitio"
)

// Snapshot wire format: 4 magic bytes, a version byte, then bit-packed
// fields. Ranged integers use exactly the bits needed for max-min and a
// decoded value above max is rejected.
var snapshotMagic = [4]byte{'T', 'T', 'R', 'S'}

const snapshotVersion = 1

// Ranges of the bit-packed fields.
const (
	minGridWidth  = 1
	maxGridWidth  = 64
	minGridHeight = 1
	maxGridHeight = 255
	minCoord      = -8
	maxCoord      = 263
)

func rangeBits(lo, hi int64) uint8 {
	return uint8(bits.Len64(uint64(hi - lo)))
}

type snapshotWriter struct {
	w   *bitio.Writer
	err error
}

func (sw *snapshotWriter) bits(v uint64, n uint8) {
	if sw.err == nil {
		sw.err = sw.w.WriteBits(v, n)
	}
}

func (sw *snapshotWriter) bool(b bool) {
	if sw.err == nil {
		sw.err = sw.w.WriteBool(b)
	}
}

func (sw *snapshotWriter) ranged(field string, v, lo, hi int64) {
	if sw.err != nil {
		return
	}
	if v < lo || v > hi {
		sw.err = &DecodeError{Field: field, Err: fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, lo, hi)}
		return
	}
	sw.bits(uint64(v-lo), rangeBits(lo, hi))
}

func (sw *snapshotWriter) piece(field string, p Piece) {
	sw.ranged(field+".variant", int64(p.Variant), 0, VariantCount-1)
	sw.ranged(field+".rotation", int64(p.Rotation), 0, 3)
}

func (sw *snapshotWriter) position(field string, p Position) {
	sw.ranged(field+".x", int64(p.X), minCoord, maxCoord)
	sw.ranged(field+".y", int64(p.Y), minCoord, maxCoord)
}

// EncodeSnapshot serializes a snapshot.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)

	sw := &snapshotWriter{w: bitio.NewWriter(&buf)}
	sw.bits(s.Timestamp, 64)
	sw.bool(s.HasToppedOut)

	sw.ranged("playfield.width", int64(s.Playfield.Width), minGridWidth, maxGridWidth)
	sw.ranged("playfield.height", int64(s.Playfield.Height), minGridHeight, maxGridHeight)
	if sw.err == nil && len(s.Playfield.Cells) != int(s.Playfield.Width*s.Playfield.Height) {
		sw.err = &DecodeError{Field: "playfield.cells", Err: fmt.Errorf("%w: %d cells for %dx%d",
			ErrOutOfRange, len(s.Playfield.Cells), s.Playfield.Width, s.Playfield.Height)}
	}
	for _, c := range s.Playfield.Cells {
		sw.ranged("playfield.cells", int64(c), int64(CellEmpty), int64(CellOf(VariantT)))
	}

	sw.bits(uint64(s.CurrentScore), 32)
	sw.bits(uint64(s.TotalLinesCleared), 32)

	sw.bool(s.CurrentPiece != nil)
	if s.CurrentPiece != nil {
		sw.piece("current_piece", s.CurrentPiece.Piece)
		sw.position("current_piece", s.CurrentPiece.Position)
	}
	for _, v := range s.NextPieceTypes {
		sw.ranged("next_piece_types", int64(v), 0, VariantCount-1)
	}
	sw.bits(s.LockPieceTimestamp, 64)

	sw.bool(s.LastLockedPiece != nil)
	if lp := s.LastLockedPiece; lp != nil {
		sw.piece("last_locked_piece", lp.Piece)
		sw.position("last_locked_piece", lp.Position)
		sw.bits(uint64(lp.SoftDropSteps), 32)
		sw.bits(uint64(lp.HardDropSteps), 32)
		sw.ranged("last_locked_piece.last_action", int64(lp.LastAction), int64(ActionMovement), int64(ActionRotation))
		sw.ranged("last_locked_piece.result", int64(lp.Result.Count), 0, MaxClearLines)
		for _, row := range lp.Result.Lines() {
			sw.ranged("last_locked_piece.rows", int64(row), 0, maxGridHeight-1)
		}
	}

	sw.bool(s.HoldPiece != nil)
	if s.HoldPiece != nil {
		sw.piece("hold_piece", *s.HoldPiece)
	}
	sw.bits(s.MovementLastTimestampX, 64)
	sw.bits(s.MovementLastTimestampY, 64)

	if sw.err != nil {
		return nil, sw.err
	}
	if err := sw.w.Close(); err != nil {
		return nil, fmt.Errorf("tetris: flush snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

type snapshotReader struct {
	r   *bitio.Reader
	err error
}

func (sr *snapshotReader) fail(field string, err error) {
	if sr.err != nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	}
	sr.err = &DecodeError{Field: field, Err: err}
}

func (sr *snapshotReader) bits(field string, n uint8) uint64 {
	if sr.err != nil {
		return 0
	}
	v, err := sr.r.ReadBits(n)
	if err != nil {
		sr.fail(field, err)
		return 0
	}
	return v
}

func (sr *snapshotReader) bool(field string) bool {
	if sr.err != nil {
		return false
	}
	b, err := sr.r.ReadBool()
	if err != nil {
		sr.fail(field, err)
		return false
	}
	return b
}

func (sr *snapshotReader) ranged(field string, lo, hi int64) int64 {
	raw := sr.bits(field, rangeBits(lo, hi))
	if sr.err != nil {
		return lo
	}
	v := lo + int64(raw)
	if v > hi {
		sr.fail(field, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, lo, hi))
		return lo
	}
	return v
}

func (sr *snapshotReader) piece(field string) Piece {
	v := Variant(sr.ranged(field+".variant", 0, VariantCount-1))
	rot := uint8(sr.ranged(field+".rotation", 0, 3))
	return Piece{Variant: v, Rotation: rot}
}

func (sr *snapshotReader) position(field string) Position {
	x := sr.ranged(field+".x", minCoord, maxCoord)
	y := sr.ranged(field+".y", minCoord, maxCoord)
	return Position{X: int(x), Y: int(y)}
}

// DecodeSnapshot parses bytes produced by EncodeSnapshot. Errors are
// *DecodeError values wrapping ErrBadMagic, ErrVersion, ErrOutOfRange or
// ErrTruncated.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) < len(snapshotMagic)+1 {
		return s, &DecodeError{Field: "header", Err: ErrTruncated}
	}
	if !bytes.Equal(data[:len(snapshotMagic)], snapshotMagic[:]) {
		return s, &DecodeError{Field: "header", Err: ErrBadMagic}
	}
	if v := data[len(snapshotMagic)]; v != snapshotVersion {
		return s, &DecodeError{Field: "header", Err: fmt.Errorf("%w: %d", ErrVersion, v)}
	}

	sr := &snapshotReader{r: bitio.NewReader(bytes.NewReader(data[len(snapshotMagic)+1:]))}
	s.Timestamp = sr.bits("timestamp", 64)
	s.HasToppedOut = sr.bool("has_topped_out")

	w := sr.ranged("playfield.width", minGridWidth, maxGridWidth)
	h := sr.ranged("playfield.height", minGridHeight, maxGridHeight)
	if sr.err != nil {
		return Snapshot{}, sr.err
	}
	s.Playfield = NetworkPlayfield{Width: int32(w), Height: int32(h), Cells: make([]Cell, w*h)}
	for i := range s.Playfield.Cells {
		s.Playfield.Cells[i] = Cell(sr.ranged("playfield.cells", int64(CellEmpty), int64(CellOf(VariantT))))
	}

	s.CurrentScore = uint32(sr.bits("current_score", 32))
	s.TotalLinesCleared = uint32(sr.bits("total_lines_cleared", 32))

	if sr.bool("current_piece") {
		p := sr.piece("current_piece")
		pos := sr.position("current_piece")
		s.CurrentPiece = &PlacedPiece{Piece: p, Position: pos}
	}
	for i := range s.NextPieceTypes {
		s.NextPieceTypes[i] = Variant(sr.ranged("next_piece_types", 0, VariantCount-1))
	}
	s.LockPieceTimestamp = sr.bits("lock_piece_timestamp", 64)

	if sr.bool("last_locked_piece") {
		lp := &LockedPiece{}
		lp.Piece = sr.piece("last_locked_piece")
		lp.Position = sr.position("last_locked_piece")
		lp.SoftDropSteps = uint32(sr.bits("last_locked_piece.soft_drop_steps", 32))
		lp.HardDropSteps = uint32(sr.bits("last_locked_piece.hard_drop_steps", 32))
		lp.LastAction = PieceAction(sr.ranged("last_locked_piece.last_action", int64(ActionMovement), int64(ActionRotation)))
		lp.Result.Count = int(sr.ranged("last_locked_piece.result", 0, MaxClearLines))
		for i := range lp.Result.Count {
			lp.Result.Rows[i] = int(sr.ranged("last_locked_piece.rows", 0, maxGridHeight-1))
		}
		s.LastLockedPiece = lp
	}

	if sr.bool("hold_piece") {
		p := sr.piece("hold_piece")
		s.HoldPiece = &p
	}
	s.MovementLastTimestampX = sr.bits("movement_last_timestamp_x", 64)
	s.MovementLastTimestampY = sr.bits("movement_last_timestamp_y", 64)

	if sr.err != nil {
		return Snapshot{}, sr.err
	}
	return s, nil
}
