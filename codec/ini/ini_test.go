/*
NAME
  ini_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package ini

import (
	"fmt"
	"testing"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/source"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const doc = `; Station settings.
[Network]
Host = example.org
Port=8080

[Camera]
name = "  front door  " ; padded
FPS = 25
`

// parsers returns ways of parsing in over each buffer model.
func parsers() map[string]func(in string) (*File, error) {
	ps := map[string]func(in string) (*File, error){
		"fixed": func(in string) (*File, error) { return Parse[byte](buffer.NewFixed([]byte(in))) },
		"runes": func(in string) (*File, error) {
			w, err := buffer.NewWindow(source.Chunks(source.Slice([]rune(in)), 1), buffer.Options[rune]{Size: 4})
			if err != nil {
				return nil, err
			}
			defer w.Close()
			return Parse[rune](w)
		},
	}
	for _, n := range []int{1, 2, 7, 256} {
		ps[fmt.Sprintf("window/%d", n)] = func(in string) (*File, error) {
			w, err := buffer.NewWindow(source.Chunks(source.Slice([]byte(in)), n), buffer.Options[byte]{Size: 4})
			if err != nil {
				return nil, err
			}
			defer w.Close()
			return Parse[byte](w)
		}
	}
	return ps
}

func TestParse(t *testing.T) {
	for name, parse := range parsers() {
		f, err := parse(doc)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if f.Len() != 2 || f.Pairs() != 4 {
			t.Errorf("%s: got %d sections and %d pairs, want 2 and 4", name, f.Len(), f.Pairs())
		}
		if want := []string{"Network", "Camera"}; !cmp.Equal(f.Sections(), want) {
			t.Errorf("%s: unexpected sections\ngot :%v\nwant:%v", name, f.Sections(), want)
		}

		tests := []struct {
			section, key, want string
		}{
			{section: "network", key: "HOST", want: "example.org"},
			{section: "NETWORK", key: "port", want: "8080"},
			{section: "camera", key: "Name", want: "  front door  "},
			{section: "Camera", key: "fps", want: "25"},
		}
		for _, test := range tests {
			s := f.Section(test.section)
			if s == nil {
				t.Errorf("%s: missing section %q", name, test.section)
				continue
			}
			got, ok := s.Get(test.key)
			if !ok || got != test.want {
				t.Errorf("%s: [%s] %s = %q, %v, want %q", name, test.section, test.key, got, ok, test.want)
			}
		}
		if want := []string{"name", "FPS"}; !cmp.Equal(f.Section("camera").Keys(), want) {
			t.Errorf("%s: unexpected keys\ngot :%v\nwant:%v", name, f.Section("camera").Keys(), want)
		}
	}
}

func TestParseGlobalAndRepeats(t *testing.T) {
	const in = "top=1\r\n# comment\r\n[a]\r\nk=1\r\n[b]\r\nk=2\r\n[A]\r\nK=3\r\nj = x=y"
	f, err := Parse[byte](buffer.NewFixed([]byte(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := f.Section("").Get("top"); v != "1" {
		t.Errorf("unexpected global value: %q", v)
	}
	if f.Len() != 2 {
		t.Errorf("repeated section not merged: %v", f.Sections())
	}
	if v, _ := f.Section("a").Get("k"); v != "3" {
		t.Errorf("repeated key not replaced: %q", v)
	}
	if v, _ := f.Section("a").Get("j"); v != "x=y" {
		t.Errorf("value split at second '=': %q", v)
	}
	if f.Section("missing") != nil {
		t.Error("found section that does not exist")
	}
	if f.Pairs() != 4 {
		t.Errorf("unexpected pair count: %d", f.Pairs())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
		pos int64
	}{
		{in: "[open\n", err: buffer.ErrUnexpectedEOF, pos: 0},
		{in: "k=v\nnovalue\n", err: buffer.ErrUnexpectedToken, pos: 4},
		{in: "[]\n", err: buffer.ErrUnexpectedToken, pos: 0},
		{in: "[a] trailing\n", err: buffer.ErrUnexpectedToken, pos: 0},
		{in: "=v\n", err: buffer.ErrUnexpectedToken, pos: 0},
		{in: "a=1\nk=\"unterminated\n", err: buffer.ErrUnexpectedEOF, pos: 4},
		{in: "k=\"v\" extra\n", err: buffer.ErrUnexpectedToken, pos: 0},
	}
	for _, test := range tests {
		for name, parse := range parsers() {
			_, err := parse(test.in)
			if !errors.Is(err, test.err) {
				t.Errorf("%s: unexpected error for %q: got %v want %v", name, test.in, err, test.err)
				continue
			}
			var pe *buffer.ParseError
			if !errors.As(err, &pe) || pe.Pos != test.pos {
				t.Errorf("%s: unexpected error position for %q: %v", name, test.in, err)
			}
		}
	}
}
