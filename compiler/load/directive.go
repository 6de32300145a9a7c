package load

import (
	"go/ast"
	"strconv"
	"strings"

	"github.com/syssam/simpleorm/schema"
)

// Prefix starts every directive comment.
const Prefix = "//simpleorm:"

// Directive names.
const (
	DirectiveEntity   = "entity"
	DirectiveDatabase = "database"
	DirectiveID       = "id"
)

// directive is a parsed comment such as "//simpleorm:entity table=users".
type directive struct {
	name string
	args map[string]string
	pos  Pos
}

// allowed holds the argument keys accepted by each directive.
var allowed = map[string][]string{
	DirectiveEntity:   {"table", "added", "removed"},
	DirectiveDatabase: {"name", "version", "entities"},
	DirectiveID:       {},
}

// named holds the argument keys whose values name tables and databases.
// Generated identifiers are derived from them.
var named = []string{"table", "name"}

// directives extracts all directives of a comment group.
func directives(cg *ast.CommentGroup, pos func(ast.Node) Pos) ([]*directive, error) {
	if cg == nil {
		return nil, nil
	}
	var ds []*directive
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(c.Text, Prefix))
		if len(fields) == 0 {
			return nil, Errorf(pos(c), "empty directive")
		}
		d := &directive{name: fields[0], args: make(map[string]string), pos: pos(c)}
		keys, ok := allowed[d.name]
		if !ok {
			return nil, Errorf(d.pos, "unknown directive %q", d.name)
		}
		for _, f := range fields[1:] {
			k, v, ok := strings.Cut(f, "=")
			if !ok || k == "" || v == "" {
				return nil, Errorf(d.pos, "malformed argument %q of directive %q, want key=value", f, d.name)
			}
			if !contains(keys, k) {
				return nil, Errorf(d.pos, "unknown argument %q of directive %q", k, d.name)
			}
			if _, dup := d.args[k]; dup {
				return nil, Errorf(d.pos, "repeated argument %q of directive %q", k, d.name)
			}
			if contains(named, k) && !isName(v) {
				return nil, Errorf(d.pos, "invalid %s %q of directive %q, want a letter followed by letters, digits or underscores", k, v, d.name)
			}
			d.args[k] = v
		}
		ds = append(ds, d)
	}
	return ds, nil
}

// find returns the single directive with the given name.
func find(ds []*directive, name string) (*directive, error) {
	var found *directive
	for _, d := range ds {
		if d.name != name {
			continue
		}
		if found != nil {
			return nil, Errorf(d.pos, "repeated directive %q", name)
		}
		found = d
	}
	return found, nil
}

// version reads an optional version argument.
func (d *directive) version(key string) (int, error) {
	v, ok := d.args[key]
	if !ok {
		return schema.NoVersion, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, Errorf(d.pos, "invalid %s version %q", key, v)
	}
	return n, nil
}

// list reads a comma-separated argument.
func (d *directive) list(key string) []string {
	var out []string
	for _, s := range strings.Split(d.args[key], ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isName reports if s is an ASCII letter followed by ASCII letters, digits
// or underscores.
func isName(s string) bool {
	for i, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}

func contains(ss []string, s string) bool {
	for i := range ss {
		if ss[i] == s {
			return true
		}
	}
	return false
}
