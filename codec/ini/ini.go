/*
NAME
  ini.go

DESCRIPTION
  ini.go provides a streaming parser for INI documents.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ini parses INI documents from any buffer model.
//
// A document is a sequence of lines. A line is blank, a comment starting
// with ';' or '#', a bracketed section name or a key=value pair. Values may
// be enclosed in double quotes, in which case surrounding space is kept and
// a comment may follow the closing quote. Pairs before the first section
// belong to the global section, named "". Section names and keys are case
// insensitive.
package ini

import (
	"strings"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/scan"
)

// Section holds the pairs of one section in the order their keys first
// appeared.
type Section struct {
	Name string

	keys   []string
	values map[string]string
}

func newSection(name string) *Section {
	return &Section{Name: name, values: make(map[string]string)}
}

// Get returns the value of key.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[strings.ToLower(key)]
	return v, ok
}

// Keys returns the keys of s as first written.
func (s *Section) Keys() []string { return s.keys }

// Len returns the number of pairs in s.
func (s *Section) Len() int { return len(s.keys) }

func (s *Section) set(key, value string) {
	k := strings.ToLower(key)
	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[k] = value
}

// File is a parsed document.
type File struct {
	global   *Section
	sections []*Section
	index    map[string]*Section
}

// Section returns the named section, or nil. The empty name returns the
// global section.
func (f *File) Section(name string) *Section {
	if name == "" {
		return f.global
	}
	return f.index[strings.ToLower(name)]
}

// Sections returns the names of the bracketed sections in document order.
func (f *File) Sections() []string {
	names := make([]string, len(f.sections))
	for i, s := range f.sections {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of bracketed sections.
func (f *File) Len() int { return len(f.sections) }

// Pairs returns the number of pairs in all sections, including the global
// section.
func (f *File) Pairs() int {
	n := f.global.Len()
	for _, s := range f.sections {
		n += s.Len()
	}
	return n
}

// Parse reads a document from b until the input is exhausted. A repeated
// section continues the earlier one and a repeated key replaces its value.
func Parse[T buffer.Unit](b buffer.Buffer[T]) (*File, error) {
	f := &File{global: newSection(""), index: make(map[string]*Section)}
	cur := f.global
	for n := 1; ; n++ {
		pos := b.Consumed()
		l, ok, err := scan.Line(b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return f, nil
		}

		line := strings.TrimSpace(buffer.String(l))
		switch {
		case line == "" || line[0] == ';' || line[0] == '#':
		case line[0] == '[':
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, buffer.Errorf(pos, buffer.ErrUnexpectedEOF, "line %d: unterminated section name", n)
			}
			if rest := strings.TrimSpace(line[end+1:]); rest != "" && !isComment(rest) {
				return nil, buffer.Errorf(pos, buffer.ErrUnexpectedToken, "line %d: text after section name", n)
			}
			name := strings.TrimSpace(line[1:end])
			if name == "" {
				return nil, buffer.Errorf(pos, buffer.ErrUnexpectedToken, "line %d: empty section name", n)
			}
			key := strings.ToLower(name)
			cur = f.index[key]
			if cur == nil {
				cur = newSection(name)
				f.index[key] = cur
				f.sections = append(f.sections, cur)
			}
		default:
			key, value, err := pair(line)
			if err != nil {
				return nil, buffer.Errorf(pos, err, "line %d: %q", n, line)
			}
			cur.set(key, value)
		}
	}
}

// pair splits a key=value line.
func pair(line string) (key, value string, err error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", buffer.ErrUnexpectedToken
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", buffer.ErrUnexpectedToken
	}
	value = strings.TrimSpace(value)
	if value == "" || value[0] != '"' {
		return key, value, nil
	}

	end := strings.IndexByte(value[1:], '"')
	if end < 0 {
		return "", "", buffer.ErrUnexpectedEOF
	}
	if rest := strings.TrimSpace(value[end+2:]); rest != "" && !isComment(rest) {
		return "", "", buffer.ErrUnexpectedToken
	}
	return key, value[1 : end+1], nil
}

func isComment(s string) bool { return s[0] == ';' || s[0] == '#' }
