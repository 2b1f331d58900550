// Package procfs reads and parses the per-process files of the Linux proc
// filesystem that the collectors need.
package procfs

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/benmeehan/procbench/internal/models"
)

// ErrMalformedStat is returned when a stat record cannot be parsed.
var ErrMalformedStat = errors.New("malformed stat record")

// StatField identifies one of the stat fields the parser extracts.
type StatField int

const (
	FieldUserTicks StatField = iota
	FieldKernelTicks
	FieldStartTicks
	FieldVirtualBytes
	FieldResidentPages

	numStatFields
)

// firstTokenField is the kernel field number of the first token after "(comm) state ".
const firstTokenField = 4

// StatLayout maps every extracted field to its 1-based field number in
// /proc/[pid]/stat, see proc(5).
type StatLayout [numStatFields]int

// DefaultStatLayout is the field layout of every 2.6+ kernel.
var DefaultStatLayout = StatLayout{
	FieldUserTicks:     14,
	FieldKernelTicks:   15,
	FieldStartTicks:    22,
	FieldVirtualBytes:  23,
	FieldResidentPages: 24,
}

// lastField returns the highest field number of the given fields.
func (l StatLayout) lastField(fields ...StatField) int {
	last := 0
	for _, f := range fields {
		if l[f] > last {
			last = l[f]
		}
	}
	return last
}

// fieldAt returns which extracted field, if any, sits at kernel field number n.
func (l StatLayout) fieldAt(n int) (StatField, bool) {
	for f, pos := range l {
		if pos == n {
			return StatField(f), true
		}
	}
	return 0, false
}

// ParseStat parses a /proc/[pid]/stat line with DefaultStatLayout.
func ParseStat(line []byte) (models.ProcessStatRecord, error) {
	return DefaultStatLayout.Parse(line)
}

// ParseStatCPU returns utime+stime from a stat line, scanning only as far as needed.
func ParseStatCPU(line []byte) (int64, error) {
	return DefaultStatLayout.ParseCPU(line)
}

// Parse parses a full stat record.
//
// The process name is everything between the first '(' and the last ')',
// since comm may itself contain spaces and parentheses. The byte after ") "
// is the state and the remaining tokens are positional.
func (l StatLayout) Parse(line []byte) (models.ProcessStatRecord, error) {
	var rec models.ProcessStatRecord

	name, state, rest, err := splitStat(line)
	if err != nil {
		return rec, err
	}

	var vals [numStatFields]int64
	last := l.lastField(FieldUserTicks, FieldKernelTicks, FieldStartTicks, FieldVirtualBytes, FieldResidentPages)
	if err := l.scan(rest, last, &vals); err != nil {
		return rec, err
	}

	rec.ProcessName = string(name)
	rec.State = state
	rec.UserCPUTicks = vals[FieldUserTicks]
	rec.KernelCPUTicks = vals[FieldKernelTicks]
	rec.StartTimeTicks = vals[FieldStartTicks]
	rec.VirtualMemoryBytes = vals[FieldVirtualBytes]
	rec.ResidentSetPages = vals[FieldResidentPages]

	if rec.UserCPUTicks < 0 || rec.KernelCPUTicks < 0 {
		return rec, fmt.Errorf("%w: negative cpu ticks", ErrMalformedStat)
	}
	return rec, nil
}

// ParseCPU is the snapshot fast path of Parse: it stops after stime.
func (l StatLayout) ParseCPU(line []byte) (int64, error) {
	_, _, rest, err := splitStat(line)
	if err != nil {
		return 0, err
	}

	var vals [numStatFields]int64
	if err := l.scan(rest, l.lastField(FieldUserTicks, FieldKernelTicks), &vals); err != nil {
		return 0, err
	}

	utime, stime := vals[FieldUserTicks], vals[FieldKernelTicks]
	if utime < 0 || stime < 0 {
		return 0, fmt.Errorf("%w: negative cpu ticks", ErrMalformedStat)
	}
	return utime + stime, nil
}

// splitStat extracts the variable-length "(comm) state" prefix and returns
// the fixed-layout suffix that starts at field 4.
func splitStat(line []byte) (name []byte, state byte, rest []byte, err error) {
	open := bytes.IndexByte(line, '(')
	closing := bytes.LastIndexByte(line, ')')
	if open < 0 || closing <= open {
		return nil, 0, nil, fmt.Errorf("%w: missing parentheses", ErrMalformedStat)
	}
	if closing+2 >= len(line) {
		return nil, 0, nil, fmt.Errorf("%w: no state after name", ErrMalformedStat)
	}

	name = line[open+1 : closing]
	state = line[closing+2]
	if closing+3 < len(line) {
		rest = line[closing+3:]
	}
	return name, state, rest, nil
}

// scan walks the whitespace separated tokens of rest once, storing the
// fields of the layout into vals, and stops at field number last.
// Non-numeric tokens leave the field at zero; int64 overflow is an error.
func (l StatLayout) scan(rest []byte, last int, vals *[numStatFields]int64) error {
	fieldNum := firstTokenField - 1
	i := 0
	for i < len(rest) && fieldNum < last {
		for i < len(rest) && isSpace(rest[i]) {
			i++
		}
		if i >= len(rest) {
			break
		}
		start := i
		for i < len(rest) && !isSpace(rest[i]) {
			i++
		}
		fieldNum++

		f, ok := l.fieldAt(fieldNum)
		if !ok {
			continue
		}
		v, err := parseInt64(rest[start:i])
		if errors.Is(err, errOverflow) {
			return fmt.Errorf("%w: field %d: %v", ErrMalformedStat, fieldNum, err)
		}
		if err == nil {
			vals[f] = v
		}
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

var (
	errSyntax   = errors.New("invalid syntax")
	errOverflow = errors.New("value out of int64 range")
)

// parseInt64 parses a base-10 signed integer without converting to string.
func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errSyntax
	}
	neg := false
	if b[0] == '-' {
		neg = true
		b = b[1:]
		if len(b) == 0 {
			return 0, errSyntax
		}
	}

	// magnitude of math.MinInt64
	const maxMagnitude uint64 = 1 << 63
	var v uint64
	for _, c := range b {
		d := c - '0'
		if d > 9 {
			return 0, errSyntax
		}
		if v > (maxMagnitude-uint64(d))/10 {
			return 0, errOverflow
		}
		v = v*10 + uint64(d)
	}
	switch {
	case neg && v == maxMagnitude:
		return math.MinInt64, nil
	case neg:
		return -int64(v), nil
	case v == maxMagnitude:
		return 0, errOverflow
	}
	return int64(v), nil
}
