package vault

import (
	"fmt"
	"strconv"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
)

// Fence lines delimiting the managed section inside dot.envrc. A line is
// a fence only when it matches exactly.
const (
	StartFence = "#------------------------------- rsenv start --------------------------------"
	EndFence   = "#-------------------------------- rsenv end ---------------------------------"
)

// Fence lines delimiting the variable block that `env envrc` rewrites
// inside the managed section.
const (
	VarsStartFence = "# ---- rsenv vars start ----"
	VarsEndFence   = "# ---- rsenv vars end ----"
)

// SwappedMarker is kept inside the managed section while any swap is IN.
const SwappedMarker = "export RSENV_SWAPPED=1"

// Metadata is the parsed `# key = value` content of a managed section.
type Metadata struct {
	Relative  bool
	Version   int
	Sentinel  string
	Timestamp string
	SourceDir string
}

// Section is a dot.envrc split around its managed section.
type Section struct {
	Before []string // lines before the start fence
	Body   []string // lines between the fences, exclusive
	After  []string // lines after the end fence
}

// SplitSection splits content around its managed section. It returns
// ErrMalformedSection when no section, more than one section, or
// mismatched fences are found.
func SplitSection(content string) (*Section, error) {
	lines := splitLines(content)

	starts := indexAll(lines, StartFence)
	ends := indexAll(lines, EndFence)

	switch {
	case len(starts) == 0 && len(ends) == 0:
		return nil, fmt.Errorf("%w: no managed section", rserrors.ErrMalformedSection)
	case len(starts) != 1 || len(ends) != 1:
		return nil, fmt.Errorf("%w: expected exactly one managed section, found %d start and %d end fences",
			rserrors.ErrMalformedSection, len(starts), len(ends))
	case starts[0] > ends[0]:
		return nil, fmt.Errorf("%w: end fence precedes start fence", rserrors.ErrMalformedSection)
	}

	return &Section{
		Before: lines[:starts[0]],
		Body:   lines[starts[0]+1 : ends[0]],
		After:  lines[ends[0]+1:],
	}, nil
}

// Render reassembles the file content with the managed section in place.
func (s *Section) Render() string {
	var out []string
	out = append(out, s.Before...)
	out = append(out, StartFence)
	out = append(out, s.Body...)
	out = append(out, EndFence)
	out = append(out, s.After...)
	return strings.Join(out, "\n") + "\n"
}

// Metadata parses the `# key = value` lines of the section body. Values
// are single-quoted strings, booleans, or integers.
func (s *Section) Metadata() (*Metadata, error) {
	meta := &Metadata{}
	seen := map[string]bool{}

	for _, line := range s.Body {
		key, value, ok := parseMetaLine(line)
		if !ok {
			continue
		}
		seen[key] = true
		switch key {
		case "config.relative":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%w: config.relative = %q", rserrors.ErrMalformedSection, value)
			}
			meta.Relative = b
		case "config.version":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: config.version = %q", rserrors.ErrMalformedSection, value)
			}
			meta.Version = n
		case "state.sentinel":
			meta.Sentinel = value
		case "state.timestamp":
			meta.Timestamp = value
		case "state.sourceDir":
			meta.SourceDir = value
		}
	}

	if !seen["state.sentinel"] {
		return nil, fmt.Errorf("%w: missing state.sentinel", rserrors.ErrMalformedSection)
	}
	return meta, nil
}

// parseMetaLine parses `# key = value`, unquoting single-quoted values.
func parseMetaLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	rest := strings.TrimSpace(trimmed[1:])
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(rest[:eq])
	value = strings.TrimSpace(rest[eq+1:])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// RenderBody builds a fresh managed section body from metadata.
func RenderBody(meta *Metadata, vaultVar string) []string {
	return []string{
		fmt.Sprintf("# config.relative = %t", meta.Relative),
		fmt.Sprintf("# config.version = %d", meta.Version),
		fmt.Sprintf("# state.sentinel = '%s'", meta.Sentinel),
		fmt.Sprintf("# state.timestamp = '%s'", meta.Timestamp),
		fmt.Sprintf("# state.sourceDir = '%s'", meta.SourceDir),
		fmt.Sprintf("export RSENV_VAULT=%s", vaultVar),
		"#dotenv $RSENV_VAULT/envs/local.env",
		VarsStartFence,
		VarsEndFence,
	}
}

// ReadSection loads path and splits it around its managed section.
func ReadSection(fs fsx.FileSystem, path string) (*Section, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sec, err := SplitSection(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sec, nil
}

// WriteSection writes a split file back to path.
func WriteSection(fs fsx.FileSystem, path string, sec *Section) error {
	if err := fs.WriteFile(path, []byte(sec.Render()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// InjectSection inserts a managed section with the given body into the
// file at path, appending to existing content. The file must not already
// contain a section.
func InjectSection(fs fsx.FileSystem, path string, body []string) error {
	var existing []string
	if data, err := fs.ReadFile(path); err == nil {
		if _, err := SplitSection(string(data)); err == nil {
			return fmt.Errorf("%s: %w", path, rserrors.ErrAlreadyBound)
		}
		existing = splitLines(string(data))
	}
	sec := &Section{Before: existing, Body: body}
	return WriteSection(fs, path, sec)
}

// StripSection removes the managed section from content, preserving the
// surrounding lines byte-for-byte.
func StripSection(content string) (string, error) {
	sec, err := SplitSection(content)
	if err != nil {
		return "", err
	}
	lines := append(append([]string{}, sec.Before...), sec.After...)
	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// SetVarsBlock replaces the lines between the vars fences of the section
// body, inserting the fences before the end of the body if absent.
func (s *Section) SetVarsBlock(vars []string) {
	starts := indexAll(s.Body, VarsStartFence)
	ends := indexAll(s.Body, VarsEndFence)

	if len(starts) == 1 && len(ends) == 1 && starts[0] < ends[0] {
		body := append([]string{}, s.Body[:starts[0]+1]...)
		body = append(body, vars...)
		body = append(body, s.Body[ends[0]:]...)
		s.Body = body
		return
	}

	s.Body = append(s.Body, VarsStartFence)
	s.Body = append(s.Body, vars...)
	s.Body = append(s.Body, VarsEndFence)
}

// EnsureSwappedMarker adds the RSENV_SWAPPED marker as a single line at
// the end of the section body. Idempotent.
func (s *Section) EnsureSwappedMarker() {
	for _, line := range s.Body {
		if strings.TrimSpace(line) == SwappedMarker {
			return
		}
	}
	s.Body = append(s.Body, SwappedMarker)
}

// RemoveSwappedMarker removes any RSENV_SWAPPED marker lines.
func (s *Section) RemoveSwappedMarker() {
	body := s.Body[:0]
	for _, line := range s.Body {
		if strings.TrimSpace(line) != SwappedMarker {
			body = append(body, line)
		}
	}
	s.Body = body
}

// HasSwappedMarker reports whether the marker is present.
func (s *Section) HasSwappedMarker() bool {
	for _, line := range s.Body {
		if strings.TrimSpace(line) == SwappedMarker {
			return true
		}
	}
	return false
}

// splitLines splits content into lines without trailing newline artifacts.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

func indexAll(lines []string, want string) []int {
	var idx []int
	for i, l := range lines {
		if l == want {
			idx = append(idx, i)
		}
	}
	return idx
}
