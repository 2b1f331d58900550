package procfs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrBootTime is returned when the kernel boot time cannot be determined.
var ErrBootTime = errors.New("cannot read boot time")

var btimePrefix = []byte("btime ")

// ReadBootTime reads the "btime" line of <root>/stat.
func ReadBootTime(root string) (time.Time, error) {
	f, err := os.Open(filepath.Join(root, "stat"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBootTime, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, btimePrefix) {
			continue
		}
		fields := bytes.Fields(line)
		if len(fields) != 2 {
			return time.Time{}, fmt.Errorf("%w: malformed line %q", ErrBootTime, line)
		}
		sec, err := strconv.ParseInt(string(fields[1]), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrBootTime, err)
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	if err := scanner.Err(); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBootTime, err)
	}

	return time.Time{}, fmt.Errorf("%w: no btime line in %s", ErrBootTime, filepath.Join(root, "stat"))
}
