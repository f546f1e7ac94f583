/*
NAME
  fixed_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package buffer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/readbuf/buffer"
)

func TestFixed(t *testing.T) {
	f, err := buffer.FromString("key=value")
	if err != nil {
		t.Fatalf("could not create fixed buffer: %v", err)
	}
	if !f.Final() {
		t.Error("fixed buffer is not final")
	}
	if ok, err := f.Refill(); ok || err != nil {
		t.Errorf("unexpected refill result: %v, %v", ok, err)
	}
	f.Consume(4)
	if got := string(f.Remaining()); got != "value" {
		t.Errorf("unexpected remaining: got %q want %q", got, "value")
	}
	if f.Consumed() != 4 {
		t.Errorf("unexpected consumed count: %d", f.Consumed())
	}
	mustPanic(t, func() { f.Consume(6) })
	f.Consume(5)
	if !f.EOF() {
		t.Error("expected EOF after consuming everything")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestOwnedReleasesOnce(t *testing.T) {
	var calls int
	f := buffer.Owned([]rune("abc"), func() error { calls++; return nil })
	f.Close()
	f.Close()
	if calls != 1 {
		t.Errorf("release called %d times, want 1", calls)
	}
	if len(f.Remaining()) != 0 {
		t.Errorf("closed buffer still exposes data: %q", string(f.Remaining()))
	}
}

func TestMap(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{name: "empty.txt", data: ""},
		{name: "small.txt", data: "a,b,c\n1,2,3\n"},
	}
	for _, test := range tests {
		path := filepath.Join(dir, test.name)
		err := os.WriteFile(path, []byte(test.data), 0644)
		if err != nil {
			t.Fatalf("could not write test file: %v", err)
		}

		f, err := buffer.Map(path)
		if err != nil {
			t.Fatalf("could not map %s: %v", test.name, err)
		}
		if got := string(f.Remaining()); got != test.data {
			t.Errorf("unexpected contents for %s:\ngot :%q\nwant:%q", test.name, got, test.data)
		}
		if f.EOF() != (test.data == "") {
			t.Errorf("unexpected EOF for %s: %v", test.name, f.EOF())
		}
		if err := f.Close(); err != nil {
			t.Errorf("could not close %s: %v", test.name, err)
		}
	}

	if _, err := buffer.Map(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error mapping missing file")
	}
}
