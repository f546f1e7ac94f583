/*
NAME
  pool_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package pool

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRentLengthAndClass(t *testing.T) {
	tests := []struct {
		n       int
		wantCap int
	}{
		{n: 0, wantCap: 16},
		{n: 1, wantCap: 16},
		{n: 16, wantCap: 16},
		{n: 17, wantCap: 32},
		{n: 1000, wantCap: 1024},
		{n: 4096, wantCap: 4096},
	}
	p := New[byte](0)
	for _, test := range tests {
		b, err := p.Rent(test.n)
		if err != nil {
			t.Fatalf("unexpected error renting %d: %v", test.n, err)
		}
		if len(b) != test.n {
			t.Errorf("unexpected length for n=%d: got %d", test.n, len(b))
		}
		if cap(b) != test.wantCap {
			t.Errorf("unexpected capacity for n=%d:\ngot :%d\nwant:%d", test.n, cap(b), test.wantCap)
		}
	}
}

func TestReturnIsReusedAndCleared(t *testing.T) {
	p := New[byte](0)
	b, _ := p.Rent(100)
	for i := range b {
		b[i] = 0xff
	}
	p.Return(b)

	c, _ := p.Rent(120)
	if &c[:1][0] != &b[:1][0] {
		t.Error("expected returned array to be reused")
	}
	for i, v := range c[:cap(c)] {
		if v != 0 {
			t.Fatalf("reused array not cleared at %d: %#x", i, v)
		}
	}

	s := p.Stats()
	if s.Rented != 2 || s.Returned != 1 || s.Allocated != 1 || s.InUse() != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestRentBeyondLimit(t *testing.T) {
	p := New[rune](50)
	if _, err := p.Rent(51); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// Requests whose class exceeds the limit are served exactly and not kept.
	b, err := p.Rent(40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cap(b) != 40 {
		t.Errorf("unexpected capacity: got %d want 40", cap(b))
	}
	p.Return(b)
	if s := p.Stats(); s.Dropped != 1 {
		t.Errorf("expected foreign array to be dropped, stats: %+v", s)
	}
}

func TestDefault(t *testing.T) {
	if Default[byte]() != Bytes {
		t.Error("Default[byte] is not the shared byte pool")
	}
	if Default[rune]() != Runes {
		t.Error("Default[rune] is not the shared rune pool")
	}
	type word uint16
	if Default[word]() != Default[word]() {
		t.Error("Default does not return a stable pool for other types")
	}
}

func TestCollector(t *testing.T) {
	p := New[byte](0)
	b, _ := p.Rent(8)
	p.Rent(8)
	p.Return(b)

	c := NewCollector("test", p)
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("could not register collector: %v", err)
	}

	const want = `
# HELP readbuf_pool_in_use Arrays currently rented.
# TYPE readbuf_pool_in_use gauge
readbuf_pool_in_use{pool="test"} 1
# HELP readbuf_pool_rented_total Arrays rented from the pool.
# TYPE readbuf_pool_rented_total counter
readbuf_pool_rented_total{pool="test"} 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want), "readbuf_pool_in_use", "readbuf_pool_rented_total")
	if err != nil {
		t.Error(err)
	}
}
