package shader

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Marker introduces a section line in a shader asset. The rest of the line
// names the stage: "#shader vertex" or "#shader fragment".
const Marker = "#shader"

// maxLineLength bounds a single asset line.
const maxLineLength = 1 << 20

// Source holds the text of both stages of one program.
type Source struct {
	Vertex   string
	Fragment string
}

type section int

const (
	sectionNone section = iota
	sectionVertex
	sectionFragment
)

// Parse splits a two-section asset into its vertex and fragment text. A
// marker is a line holding "#shader" and "vertex" or "fragment". Every other
// line is copied verbatim with a trailing newline into whichever section the
// most recent marker selected; lines ahead of the first marker are dropped.
// A "#shader" line naming any other stage is not a marker and is kept as
// text. Either stage is empty if its marker never appears.
func Parse(r io.Reader) (Source, error) {
	var vertex, fragment strings.Builder
	active := sectionNone

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.Contains(line, Marker) {
			switch {
			case strings.Contains(line, "vertex"):
				active = sectionVertex
				continue
			case strings.Contains(line, "fragment"):
				active = sectionFragment
				continue
			default:
				log.Printf("Warning: line %d: %q names no supported stage, keeping it as source text", lineNo, strings.TrimSpace(line))
			}
		}
		switch active {
		case sectionVertex:
			vertex.WriteString(line)
			vertex.WriteByte('\n')
		case sectionFragment:
			fragment.WriteString(line)
			fragment.WriteByte('\n')
		}
	}
	src := Source{Vertex: vertex.String(), Fragment: fragment.String()}
	if err := sc.Err(); err != nil {
		return src, fmt.Errorf("failed to read shader source: %w", err)
	}
	return src, nil
}

// ParseString is Parse over an in-memory asset.
func ParseString(s string) (Source, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile parses the asset at path. If the file can't be read the returned
// Source has two empty stages and the error says why.
func LoadFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to open shader file: %w", err)
	}
	defer f.Close()

	src, err := Parse(f)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Empty reports whether neither stage has any text.
func (s Source) Empty() bool {
	return s.Vertex == "" && s.Fragment == ""
}

// WriteTo writes s back out in asset form with canonical marker lines.
func (s Source) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, part := range []string{Marker + " vertex\n", s.Vertex, Marker + " fragment\n", s.Fragment} {
		n, err := io.WriteString(w, part)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s Source) String() string {
	var sb strings.Builder
	_, _ = s.WriteTo(&sb)
	return sb.String()
}
