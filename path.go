package actor

import (
	"errors"
	"strings"
)

// ErrEmptyPath is returned by ParsePath when given an empty or
// whitespace-only string.
var ErrEmptyPath = errors.New("actor: empty path")

// Path is an immutable, slash-separated hierarchical name. The root
// path always has "user" as its first segment.
type Path struct {
	segments []string
}

// RootPath returns the path of the system's root cell, /user.
func RootPath() Path {
	return Path{segments: []string{"user"}}
}

// ParsePath parses a slash-separated path such as "user/workers/w-1".
// A leading slash is tolerated and ignored.
func ParsePath(s string) (Path, error) {
	s = strings.TrimPrefix(s, "/")
	if strings.TrimSpace(s) == "" {
		return Path{}, ErrEmptyPath
	}
	parts := strings.Split(s, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return Path{}, errors.New("actor: empty segment in path " + s)
		}
		segments = append(segments, p)
	}
	return Path{segments: segments}, nil
}

// splitFindPath tokenizes a find(pathString) argument the way §4.4
// describes: split on "/", strip one trailing empty segment (so a
// trailing slash like "./" is tolerated), and report whether the
// string was absolute (led with "/"). The leading empty segment
// produced by that slash is dropped from the returned slice; ok is
// false only for an empty-overall string.
func splitFindPath(s string) (absolute bool, segments []string, ok bool) {
	if strings.TrimSpace(s) == "" {
		return false, nil, false
	}
	parts := strings.Split(s, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return false, nil, false
	}
	if parts[0] == "" {
		return true, parts[1:], true
	}
	return false, parts, true
}

// Append returns a new path with name appended as the final segment.
// It never mutates the receiver.
func (p Path) Append(name string) Path {
	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = name
	return Path{segments: segments}
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// LastSegment returns the final segment, the cell's own short name.
func (p Path) LastSegment() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path one level up, and false if p is already the
// root.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) <= 1 {
		return Path{}, false
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, true
}

// Depth returns the number of segments in the path.
func (p Path) Depth() int {
	return len(p.segments)
}

// Equal reports whether two paths name the same cell.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != other.segments[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether p is the zero Path value (no segments).
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// String renders the path as "/a/b/c".
func (p Path) String() string {
	return "/" + strings.Join(p.segments, "/")
}
