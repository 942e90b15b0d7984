package envgraph

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	rserrors "github.com/sysid/rsenv/internal/errors"
	"github.com/sysid/rsenv/internal/fsx"
	"github.com/sysid/rsenv/internal/utils"
)

// Quote records how a value was written so build output can re-emit it.
type Quote int

const (
	QuoteBare Quote = iota
	QuoteSingle
	QuoteDouble
)

// Binding is one `export NAME=VALUE` line.
type Binding struct {
	Name  string
	Value string
	Quote Quote
}

// File is an env node identified by its canonical path.
type File struct {
	// Path is the canonical path; two nodes with the same canonical path
	// are the same node.
	Path string
	// Bindings in file order.
	Bindings []Binding
	// Parents in directive order, canonical, concatenated across all
	// directive lines of the file.
	Parents []string
}

// The parent directive: `#` optionally preceded by whitespace, then the
// literal `rsenv`, then `:`, then whitespace-separated paths. Zero or
// more spaces are accepted between `rsenv`, `:`, and the first path.
var directiveRe = regexp.MustCompile(`^\s*#\s*rsenv\s*:\s*(.*?)\s*$`)

var exportNameRe = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*`)

// IsDirective reports whether a line is a parent directive and returns
// its raw path list.
func IsDirective(line string) (string, bool) {
	m := directiveRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseFile parses env file content. path must already be canonical;
// parent tokens are expanded, resolved against the file's directory, and
// canonicalised (a missing parent is ErrParentNotFound).
func ParseFile(fs fsx.FileSystem, path string, content string) (*File, error) {
	f := &File{Path: path}
	dir := filepath.Dir(path)

	for lineno, line := range strings.Split(content, "\n") {
		if rawList, ok := IsDirective(line); ok {
			// An empty path list is a legal no-op directive.
			for _, token := range strings.Fields(rawList) {
				parent, err := resolveParent(fs, dir, token)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineno+1, err)
				}
				f.Parents = append(f.Parents, parent)
			}
			continue
		}

		binding, ok, err := parseExportLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineno+1, err)
		}
		if ok {
			f.Bindings = append(f.Bindings, binding)
		}
	}
	return f, nil
}

// resolveParent expands a directive token and canonicalises it.
func resolveParent(fs fsx.FileSystem, dir, token string) (string, error) {
	expanded, err := utils.ExpandPath(token)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(dir, expanded)
	}
	canonical, err := fs.Canonicalize(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %s", rserrors.ErrParentNotFound, token)
	}
	return canonical, nil
}

// parseExportLine parses `export NAME=VALUE [# comment]`. Lines that do
// not start with `export` are ignored (ok=false); an `export` line that
// fails to parse is an error.
func parseExportLine(line string) (Binding, bool, error) {
	m := exportNameRe.FindStringSubmatch(line)
	if m == nil {
		return Binding{}, false, nil
	}
	rest := line[len(m[0]):]

	value, quote, remainder, err := scanValue(rest)
	if err != nil {
		return Binding{}, false, err
	}

	// Only whitespace and an optional trailing comment may follow.
	remainder = strings.TrimLeft(remainder, " \t")
	if remainder != "" && !strings.HasPrefix(remainder, "#") {
		return Binding{}, false, fmt.Errorf("%w: trailing garbage %q", rserrors.ErrMalformedEnvLine, remainder)
	}

	return Binding{Name: m[1], Value: value, Quote: quote}, true, nil
}

// scanValue consumes a double-quoted, single-quoted, or bare value.
func scanValue(s string) (value string, quote Quote, rest string, err error) {
	switch {
	case strings.HasPrefix(s, `"`):
		var b strings.Builder
		i := 1
		for i < len(s) {
			c := s[i]
			if c == '\\' {
				if i+1 >= len(s) {
					return "", 0, "", fmt.Errorf("%w: dangling backslash", rserrors.ErrMalformedEnvLine)
				}
				switch s[i+1] {
				case '"':
					b.WriteByte('"')
				case '\\':
					b.WriteByte('\\')
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				case 'r':
					b.WriteByte('\r')
				default:
					return "", 0, "", fmt.Errorf("%w: unknown escape \\%c", rserrors.ErrMalformedEnvLine, s[i+1])
				}
				i += 2
				continue
			}
			if c == '"' {
				return b.String(), QuoteDouble, s[i+1:], nil
			}
			b.WriteByte(c)
			i++
		}
		return "", 0, "", fmt.Errorf("%w: unterminated double quote", rserrors.ErrMalformedEnvLine)

	case strings.HasPrefix(s, `'`):
		end := strings.IndexByte(s[1:], '\'')
		if end < 0 {
			return "", 0, "", fmt.Errorf("%w: unterminated single quote", rserrors.ErrMalformedEnvLine)
		}
		return s[1 : 1+end], QuoteSingle, s[2+end:], nil

	default:
		end := strings.IndexAny(s, " \t#")
		if end < 0 {
			end = len(s)
		}
		return s[:end], QuoteBare, s[end:], nil
	}
}

// Render re-emits a binding as an `export` line, preserving the input's
// quoting style with minimal re-quoting.
func (b Binding) Render() string {
	switch b.Quote {
	case QuoteSingle:
		return fmt.Sprintf("export %s='%s'", b.Name, b.Value)
	case QuoteDouble:
		return fmt.Sprintf(`export %s="%s"`, b.Name, escapeDouble(b.Value))
	default:
		return fmt.Sprintf("export %s=%s", b.Name, b.Value)
	}
}

func escapeDouble(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
		"\r", `\r`,
	)
	return r.Replace(s)
}
