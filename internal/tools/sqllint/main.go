// Command sqllint checks that every SQL constant in the query catalogue opens
// with a `--sql <uuid>` marker and that no marker is used twice.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	markerPattern     = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
}

type markerUse struct {
	file string
	name string
	line int
}

type linter struct {
	violations []violation
	markers    map[string]markerUse
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}

	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: query catalogue problems")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", v)
		}
		os.Exit(1)
	}
}

// lint walks the targets and reports marker violations in file order.
func lint(targets []string) ([]violation, error) {
	l := &linter{markers: map[string]markerUse{}}
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := l.file(target); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return l.file(path)
		})
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(l.violations, func(i, j int) bool {
		if l.violations[i].file != l.violations[j].file {
			return l.violations[i].file < l.violations[j].file
		}
		return l.violations[i].line < l.violations[j].line
	})
	return l.violations, nil
}

func (l *linter) file(path string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range spec.Values {
			name := ""
			if i < len(spec.Names) {
				name = spec.Names[i].Name
			}
			l.value(fset, path, name, value)
		}
		return true
	})
	return nil
}

// value checks one constant. Concatenated queries are judged by their
// leftmost literal, which must carry the marker.
func (l *linter) value(fset *token.FileSet, path, name string, expr ast.Expr) {
	lit := leftmostLiteral(expr)
	if lit == nil {
		return
	}
	raw, err := unquote(lit.Value)
	if err != nil || !sqlKeywordPattern.MatchString(raw) {
		return
	}
	pos := fset.Position(lit.Pos())
	m := markerPattern.FindStringSubmatch(firstLine(raw))
	if m == nil {
		l.violations = append(l.violations, violation{file: path, name: name, line: pos.Line, message: "missing or invalid --sql <uuid> marker"})
		return
	}
	if prev, dup := l.markers[m[1]]; dup {
		l.violations = append(l.violations, violation{
			file:    path,
			name:    name,
			line:    pos.Line,
			message: fmt.Sprintf("marker %s already used by %s at %s:%d", m[1], prev.name, prev.file, prev.line),
		})
		return
	}
	l.markers[m[1]] = markerUse{file: path, name: name, line: pos.Line}
}

func leftmostLiteral(expr ast.Expr) *ast.BasicLit {
	for {
		switch e := expr.(type) {
		case *ast.BasicLit:
			if e.Kind != token.STRING {
				return nil
			}
			return e
		case *ast.BinaryExpr:
			if e.Op != token.ADD {
				return nil
			}
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		default:
			return nil
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) >= 2 && v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}
