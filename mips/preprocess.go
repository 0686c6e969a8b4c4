package mips

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	eqvRe     = regexp.MustCompile(`^\.eqv\s+(\S+)\s+(.*)$`)
	includeRe = regexp.MustCompile(`^\.include\s+"([^"]*)"`)
)

type eqvEntry struct {
	name string
	repl string
}

// Preprocessor resolves .include graphs and applies .eqv textual
// substitution, grounded line-for-line on original_source/preprocess.py
// but restructured with explicit error returns instead of exceptions.
type Preprocessor struct {
	cfg        *Config
	restricted map[string]bool
}

func NewPreprocessor(cfg *Config) *Preprocessor {
	return &Preprocessor{cfg: cfg, restricted: restrictedWords(cfg)}
}

// sourceLines maps an absolute file path to its raw (un-annotated)
// lines, kept around for the debugger's "print original line" display.
type sourceLines map[string][]string

// Run walks root's .include graph, annotates every significant line
// with a file/line marker, substitutes .include directives with their
// target's annotated text, and finally applies every captured .eqv
// substitution. Returns the fully annotated text and the per-file raw
// line table.
func (p *Preprocessor) Run(root string) (string, sourceLines, error) {
	var files []string
	var eqvs []eqvEntry
	if err := p.walk(root, &files, &eqvs, map[string]bool{}); err != nil {
		return "", nil, err
	}

	lines := make(sourceLines, len(files))
	texts := make([]string, len(files))

	for i, fname := range files {
		raw, err := readLines(fname)
		if err != nil {
			return "", nil, newErr(KindFileNotFound, "%s: %v", fname, err)
		}
		lines[fname] = raw

		var b strings.Builder
		for idx, line := range raw {
			trimmed := strings.TrimSpace(line)
			lineno := idx + 1
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				b.WriteString(trimmed)
				b.WriteByte('\n')
				continue
			}
			if lineno == 1 {
				fmt.Fprintf(&b, "%s %s \"%s\" %d\n", trimmed, FileMarker, fname, lineno)
			} else {
				fmt.Fprintf(&b, "%s %s \"%s\" %d\n", trimmed, LineMarker, fname, lineno)
			}
		}
		texts[i] = b.String()
	}

	text := texts[0]
	for i, fname := range files {
		pattern := regexp.MustCompile(`\.include "` + regexp.QuoteMeta(fname) + `".*?\n`)
		text = pattern.ReplaceAllString(text, escapeReplacement(texts[i]))
	}

	text = applyEqv(text, eqvs)
	return strings.TrimSpace(text), lines, nil
}

// escapeReplacement neutralizes Go's regexp $-expansion syntax inside a
// ReplaceAllString replacement that is itself arbitrary source text.
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func (p *Preprocessor) walk(filename string, files *[]string, eqvs *[]eqvEntry, visited map[string]bool) error {
	if visited[filename] {
		return newErr(KindFileAlreadyIncluded, "%s already included", filename)
	}
	visited[filename] = true
	*files = append(*files, filename)

	raw, err := readLines(filename)
	if err != nil {
		return newErr(KindFileNotFound, "%s: %v", filename, err)
	}

	for lineno, line := range raw {
		s := strings.TrimSpace(line)
		if idx := strings.IndexByte(s, '#'); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)

		if m := eqvRe.FindStringSubmatch(s); m != nil {
			name, repl := m[1], m[2]
			if p.restricted[name] {
				return newErr(KindInvalidEQV, "%s: line %d: %s is a restricted word and cannot be replaced using eqv", filename, lineno+1, name)
			}
			*eqvs = append(*eqvs, eqvEntry{name: name, repl: repl})
			continue
		}
		if m := includeRe.FindStringSubmatch(s); m != nil {
			target := m[1]
			if err := p.walk(target, files, eqvs, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyEqv substitutes every captured .eqv name with its replacement,
// line by line, skipping occurrences inside double-quoted strings,
// after a # comment, or after a marker byte - the same exclusion the
// original's 4-capture-group regex encodes.
func applyEqv(text string, eqvs []eqvEntry) string {
	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, e := range eqvs {
			line = substituteWord(line, e.name, e.repl)
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String()
}

// substituteWord replaces whole-word occurrences of name with repl,
// skipping over double-quoted strings and stopping at the first `#`
// comment or marker byte on the line (those spans are left untouched).
func substituteWord(line, name, repl string) string {
	limit := len(line)
	if idx := strings.IndexByte(line, '\x81'); idx >= 0 && idx < limit {
		limit = idx
	}
	head := line
	tail := ""
	if limit < len(line) {
		head = line[:limit]
		tail = line[limit:]
	}

	wordRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	var b strings.Builder
	i := 0
	for i < len(head) {
		if head[i] == '#' {
			b.WriteString(head[i:])
			i = len(head)
			break
		}
		if head[i] == '"' {
			j := strings.IndexByte(head[i+1:], '"')
			if j < 0 {
				b.WriteString(head[i:])
				i = len(head)
				break
			}
			b.WriteString(head[i : i+1+j+1])
			i += j + 2
			continue
		}
		rest := head[i:]
		loc := wordRe.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			break
		}
		// stop the word-scan at the next quote/comment within this segment
		seg := rest[:loc[0]]
		if qi := strings.IndexAny(seg, "\"#"); qi >= 0 {
			b.WriteString(rest[:qi])
			i += qi
			continue
		}
		b.WriteString(seg)
		b.WriteString(repl)
		i += loc[1]
	}
	return b.String() + tail
}
