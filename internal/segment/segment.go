package segment

// Package segment cuts protein sequences into fixed-length overlapping
// windows so that every emitted window fits the model context.

import (
	"errors"
	"fmt"
)

const (
	// MaxLen leaves room for two boundary tokens in a 1024-token context.
	MaxLen = 1022
	// OverlapLen is the number of residues shared by consecutive windows.
	OverlapLen = 256
)

// ErrInvalidWindow is returned when the window configuration cannot make
// progress along the sequence.
var ErrInvalidWindow = errors.New("invalid segmentation window")

// Validate checks that maxLen and overlapLen give a positive stride.
func Validate(maxLen, overlapLen int) error {
	if maxLen <= 0 {
		return fmt.Errorf("%w: max_len must be positive, got %d", ErrInvalidWindow, maxLen)
	}
	if overlapLen < 0 {
		return fmt.Errorf("%w: overlap_len must not be negative, got %d", ErrInvalidWindow, overlapLen)
	}
	if overlapLen >= maxLen {
		return fmt.Errorf("%w: overlap_len (%d) must be smaller than max_len (%d)", ErrInvalidWindow, overlapLen, maxLen)
	}
	return nil
}

// Split returns seq unchanged when it fits in maxLen. Longer sequences are
// walked with stride maxLen-overlapLen keeping only full-length windows, then
// the last maxLen residues are always appended, even when the walk already
// ended on that exact window.
//
// Sequences are treated as single-byte residue strings.
func Split(seq string, maxLen, overlapLen int) ([]string, error) {
	if err := Validate(maxLen, overlapLen); err != nil {
		return nil, err
	}
	if len(seq) <= maxLen {
		return []string{seq}, nil
	}

	stride := maxLen - overlapLen
	segments := make([]string, 0, len(seq)/stride+1)
	for start := 0; start < len(seq); start += stride {
		end := start + maxLen
		if end > len(seq) {
			break
		}
		segments = append(segments, seq[start:end])
	}
	segments = append(segments, seq[len(seq)-maxLen:])
	return segments, nil
}
