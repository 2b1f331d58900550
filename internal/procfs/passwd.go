package procfs

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// DefaultPasswdPath is the system user database.
const DefaultPasswdPath = "/etc/passwd"

// UnknownUser is reported for processes whose uid could not be read.
const UnknownUser = "unknown"

// UserNameCache maps uids to user names. It is immutable once loaded and
// safe for concurrent use.
type UserNameCache struct {
	users map[int]string
}

// NewUserNameCache builds a cache from an existing mapping.
func NewUserNameCache(users map[int]string) *UserNameCache {
	m := make(map[int]string, len(users))
	for uid, name := range users {
		m[uid] = name
	}
	return &UserNameCache{users: m}
}

// LoadUserNameCache reads name:x:uid:... records from a passwd file.
// Comments, blank lines and records with a non-numeric uid are skipped.
func LoadUserNameCache(path string) (*UserNameCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	users := make(map[int]string, 256)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, ":", 4)
		if len(parts) < 3 {
			continue
		}
		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		users[uid] = parts[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &UserNameCache{users: users}, nil
}

// Resolve returns the user name for uid. Negative uids resolve to
// UnknownUser and uids missing from the database to their decimal form.
func (c *UserNameCache) Resolve(uid int) string {
	if uid < 0 {
		return UnknownUser
	}
	if c != nil {
		if name, ok := c.users[uid]; ok {
			return name
		}
	}
	return strconv.Itoa(uid)
}

// Len returns the number of known users.
func (c *UserNameCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.users)
}
