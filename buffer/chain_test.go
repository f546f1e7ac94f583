/*
NAME
  chain_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package buffer_test

import (
	"context"
	"testing"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/pool"
	"github.com/ausocean/readbuf/source"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"pgregory.net/rapid"
)

// chunkLens refills c until final and returns the length of every chunk
// appended, consuming nothing.
func chunkLens(t *testing.T, c *buffer.Chain[byte]) []int {
	t.Helper()
	for !c.Final() {
		if _, err := c.Refill(); err != nil {
			t.Fatalf("unexpected refill error: %v", err)
		}
	}
	var lens []int
	for ch := c.Head(); ch != nil; ch = ch.Next() {
		lens = append(lens, len(ch.Data()))
	}
	return lens
}

func TestChainGrowth(t *testing.T) {
	data := make([]byte, 100)
	tests := []struct {
		growth buffer.Growth
		want   []int
	}{
		{growth: buffer.GrowthNone, want: []int{16, 16, 16, 16, 16, 16, 4}},
		{growth: buffer.GrowthLinear, want: []int{16, 32, 48, 4}},
		{growth: buffer.GrowthExponential, want: []int{16, 32, 52}},
	}
	for _, test := range tests {
		c := buffer.NewChain(source.Slice(data), buffer.Options[byte]{Size: 16, Growth: test.growth, Logger: (*testLogger)(t)})
		got := chunkLens(t, c)
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected chunk lengths for %v:\ngot :%v\nwant:%v", test.growth, got, test.want)
		}
		if c.Chunks() != len(test.want) {
			t.Errorf("unexpected chunk count for %v: got %d want %d", test.growth, c.Chunks(), len(test.want))
		}
		c.Close()
	}
}

func TestChainRunningIndex(t *testing.T) {
	c := buffer.NewChain(source.Slice(lorem), buffer.Options[byte]{Size: 10, Growth: buffer.GrowthLinear})
	defer c.Close()
	chunkLens(t, c)

	var want int64
	for ch := c.Head(); ch != nil; ch = ch.Next() {
		if ch.RunningIndex() != want {
			t.Errorf("unexpected running index: got %d want %d", ch.RunningIndex(), want)
		}
		if string(ch.Data()) != string(lorem[want:want+int64(len(ch.Data()))]) {
			t.Errorf("chunk at %d does not match source", want)
		}
		want += int64(len(ch.Data()))
	}
	if want != int64(len(lorem)) {
		t.Errorf("chunks hold %d units, want %d", want, len(lorem))
	}
}

func TestChainPeekAndConsume(t *testing.T) {
	p := pool.New[byte](0)
	c := buffer.NewChain(source.Chunks(source.Slice(lorem), 5), buffer.Options[byte]{Size: 8, Pool: p})

	seq, err := c.Peek(30)
	if err != nil {
		t.Fatalf("unexpected peek error: %v", err)
	}
	if seq.Len() != 30 || seq.Single() {
		t.Fatalf("unexpected peek: len %d single %v", seq.Len(), seq.Single())
	}
	if !seq.Equal(lorem[:30]) {
		t.Errorf("unexpected peek contents: %q", seq.String())
	}
	if seq.At(17) != lorem[17] {
		t.Errorf("unexpected unit at 17: %q", seq.At(17))
	}
	if got := seq.Slice(8, 20).String(); got != string(lorem[8:20]) {
		t.Errorf("unexpected slice: got %q want %q", got, lorem[8:20])
	}
	if s := seq.Slice(8, 20); s.Start() != 8 || len(s.First()) != 8 {
		t.Errorf("slice at chunk boundary starts at %d with first segment %q", s.Start(), s.First())
	}

	// Consume across chunk boundaries. Fully consumed chunks go back to
	// the pool.
	c.Consume(21)
	if c.Consumed() != 21 {
		t.Errorf("unexpected consumed count: %d", c.Consumed())
	}
	if got, want := c.Current(), lorem[21:24]; string(got) != string(want) {
		t.Errorf("unexpected current chunk: got %q want %q", got, want)
	}
	if c.Head().RunningIndex() != 16 {
		t.Errorf("unexpected head running index: %d", c.Head().RunningIndex())
	}
	if s := p.Stats(); s.Returned != 2 {
		t.Errorf("expected two chunks returned, got %+v", s)
	}
	mustPanic(t, func() { c.Consume(c.Buffered() + 1) })

	seq, err = c.Peek(1000)
	if err != nil {
		t.Fatalf("unexpected peek error: %v", err)
	}
	if !c.Final() || seq.Len() != len(lorem)-21 {
		t.Errorf("peek past end: final %v len %d", c.Final(), seq.Len())
	}
	if got := string(seq.AppendTo(nil)); got != string(lorem[21:]) {
		t.Errorf("unexpected tail:\ngot :%q\nwant:%q", got, lorem[21:])
	}
	c.Consume(seq.Len())
	if !c.EOF() {
		t.Error("expected EOF")
	}

	c.Close()
	c.Close()
	if s := p.Stats(); s.InUse() != 0 {
		t.Errorf("chunks still rented after close: %+v", s)
	}
}

func TestChainNextChunk(t *testing.T) {
	c := buffer.NewChain(source.Slice([]rune("añb✓cdefgh")), buffer.Options[rune]{Size: 4})
	defer c.Close()

	var got []rune
	ch, err := c.NextChunk(nil)
	for ; ch != nil && err == nil; ch, err = c.NextChunk(ch) {
		got = append(got, ch.Remaining()...)
	}
	if err != nil {
		t.Fatalf("unexpected error walking chunks: %v", err)
	}
	if string(got) != "añb✓cdefgh" {
		t.Errorf("unexpected walk result: %q", string(got))
	}
	if c.Chunks() != 3 {
		t.Errorf("unexpected chunk count: %d", c.Chunks())
	}
}

func TestChainBindWalker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := buffer.NewChain(source.Slice(lorem), buffer.Options[byte]{Size: 8})
	defer c.Close()
	w := buffer.BindWalker[byte](ctx, c)

	if _, err := w.Peek(4); err != nil {
		t.Fatalf("unexpected peek error: %v", err)
	}
	cancel()
	_, err := w.Peek(20)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancelled peek, got %v", err)
	}
	if _, err := w.NextChunk(w.Head()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancelled walk, got %v", err)
	}
}

func TestChainClampsToPoolLimit(t *testing.T) {
	c := buffer.NewChain(source.Slice(lorem), buffer.Options[byte]{Size: 8, Growth: buffer.GrowthExponential, Pool: pool.New[byte](4)})
	defer c.Close()
	for _, l := range chunkLens(t, c) {
		if l > 4 {
			t.Fatalf("chunk of %d units exceeds pool limit", l)
		}
	}
}

// TestChainContents checks that the chain's buffered view always equals the
// unconsumed part of the source, whatever the chunking.
func TestChainContents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 400).Draw(rt, "data")
		size := rapid.IntRange(1, 40).Draw(rt, "size")
		growth := rapid.SampledFrom([]buffer.Growth{buffer.GrowthNone, buffer.GrowthLinear, buffer.GrowthExponential}).Draw(rt, "growth")
		chunk := rapid.IntRange(1, 50).Draw(rt, "chunk")

		c := buffer.NewChain(source.Chunks(source.Slice(data), chunk), buffer.Options[byte]{Size: size, Growth: growth})
		defer c.Close()
		for !c.EOF() {
			if _, err := c.Refill(); err != nil {
				rt.Fatalf("unexpected refill error: %v", err)
			}
			off := int(c.Consumed())
			if !c.Remaining().Equal(data[off : off+c.Buffered()]) {
				rt.Fatalf("chain does not match source at %d", off)
			}
			if c.Remaining().Start() != int64(off) && c.Buffered() > 0 {
				rt.Fatalf("sequence starts at %d, want %d", c.Remaining().Start(), off)
			}
			n := c.Buffered()
			if !c.Final() && n > 0 {
				n = rapid.IntRange(0, n).Draw(rt, "consume")
			}
			c.Consume(n)
		}
	})
}
