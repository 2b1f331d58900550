package procfs

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sys/unix"
)

// Per-task I/O accounting (/proc/[pid]/io) appeared in 2.6.20.
var minIOAccountingVersion = semver.MustParse("2.6.20")

var releasePattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)

// KernelInfo describes the running kernel.
type KernelInfo struct {
	Release string          // e.g. "6.1.0-13-amd64"
	Version *semver.Version // numeric part of Release, nil if unparseable
}

// ReadKernelInfo reads <root>/sys/kernel/osrelease, falling back to uname(2).
func ReadKernelInfo(root string) KernelInfo {
	release := ""
	if data, err := os.ReadFile(filepath.Join(root, "sys", "kernel", "osrelease")); err == nil {
		release = strings.TrimSpace(string(data))
	} else {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err == nil {
			release = unix.ByteSliceToString(uts.Release[:])
		}
	}
	return ParseKernelRelease(release)
}

// ParseKernelRelease parses the leading "major.minor[.patch]" of a release string.
// Distribution suffixes are kept in Release but dropped from Version.
func ParseKernelRelease(release string) KernelInfo {
	info := KernelInfo{Release: release}
	m := releasePattern.FindStringSubmatch(release)
	if m == nil {
		return info
	}
	numeric := m[1] + "." + m[2]
	if m[3] != "" {
		numeric += "." + m[3]
	}
	if v, err := semver.NewVersion(numeric); err == nil {
		info.Version = v
	}
	return info
}

// SupportsIOAccounting reports whether /proc/[pid]/io is expected to exist.
// Unknown versions are assumed to be modern.
func (k KernelInfo) SupportsIOAccounting() bool {
	if k.Version == nil {
		return true
	}
	return !k.Version.LessThan(minIOAccountingVersion)
}

