package procfs

import (
	"bytes"
	"strconv"

	"github.com/benmeehan/procbench/internal/models"
)

const bytesPerKilobyte = 1024

var (
	statusUID     = []byte("Uid:")
	statusThreads = []byte("Threads:")
	statusVmRSS   = []byte("VmRSS:")
	statusVmSize  = []byte("VmSize:")
)

// ParseStatus extracts Uid, Threads, VmRSS and VmSize from /proc/[pid]/status.
// Missing or unparseable lines leave the field absent (UID -1).
func ParseStatus(data []byte) models.ProcessStatus {
	status := models.ProcessStatus{UID: -1}

	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}

		fields := bytes.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch {
		case bytes.Equal(fields[0], statusUID):
			if uid, err := strconv.Atoi(string(fields[1])); err == nil {
				status.UID = uid
			}
		case bytes.Equal(fields[0], statusThreads):
			if n, err := strconv.Atoi(string(fields[1])); err == nil {
				status.Threads = &n
			}
		case bytes.Equal(fields[0], statusVmRSS):
			if kb, err := strconv.ParseInt(string(fields[1]), 10, 64); err == nil {
				b := kb * bytesPerKilobyte
				status.VmRSSBytes = &b
			}
		case bytes.Equal(fields[0], statusVmSize):
			if kb, err := strconv.ParseInt(string(fields[1]), 10, 64); err == nil {
				b := kb * bytesPerKilobyte
				status.VmSizeBytes = &b
			}
		}
	}

	return status
}
