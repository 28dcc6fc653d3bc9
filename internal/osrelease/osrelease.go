// Package osrelease reads the os-release identity file to detect the host
// distribution family. Direct .deb installation is only attempted on hosts
// that identify as Debian-family; the URLs are distribution-specific and must
// not be tried blindly.
package osrelease

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// DefaultPath is the standard location of the identity file.
const DefaultPath = "/etc/os-release"

// Info holds the fields of an os-release file that opusci cares about.
type Info struct {
	// ID is the lowercase distribution identifier (e.g. "ubuntu").
	ID string
	// IDLike lists closely related distributions (e.g. "debian" on Ubuntu).
	IDLike []string
	// PrettyName is the human-readable distribution name.
	PrettyName string
}

// Load reads and parses the identity file at path.
func Load(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses os-release key=value content. Unknown keys are ignored;
// values may be quoted per os-release(5).
func Parse(r io.Reader) (*Info, error) {
	info := &Info{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = unquote(value)
		switch key {
		case "ID":
			info.ID = strings.ToLower(value)
		case "ID_LIKE":
			for _, id := range strings.Fields(strings.ToLower(value)) {
				info.IDLike = append(info.IDLike, id)
			}
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// DebianFamily reports whether the host identifies as Debian or a Debian
// derivative (via ID or ID_LIKE).
func (i *Info) DebianFamily() bool {
	if isDebianID(i.ID) {
		return true
	}
	for _, id := range i.IDLike {
		if isDebianID(id) {
			return true
		}
	}
	return false
}

func isDebianID(id string) bool {
	return id == "debian" || id == "ubuntu"
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
