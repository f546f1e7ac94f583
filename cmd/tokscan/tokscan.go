/*
DESCRIPTION
  tokscan.go builds the configured buffer over the input and drives the
  configured grammar over it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ausocean/readbuf/buffer"
	"github.com/ausocean/readbuf/codec/codecutil"
	"github.com/ausocean/readbuf/codec/csv"
	"github.com/ausocean/readbuf/codec/hexcolor"
	"github.com/ausocean/readbuf/codec/ini"
	"github.com/ausocean/readbuf/config"
	"github.com/ausocean/readbuf/driver"
	"github.com/ausocean/readbuf/pool"
	"github.com/ausocean/readbuf/scan"
	"github.com/ausocean/readbuf/source"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// scanner holds the state of one tokscan run.
type scanner struct {
	cfg   config.Config
	log   logging.Logger
	bytes *pool.Pool[byte]
	runes *pool.Pool[rune]

	consumed int64 // Units consumed by the last run.
}

// newScanner returns a scanner for a validated config.
func newScanner(cfg config.Config) *scanner {
	limit := int(cfg.MaxBufferSize)
	return &scanner{
		cfg:   cfg,
		log:   cfg.Logger,
		bytes: pool.New[byte](limit),
		runes: pool.New[rune](limit),
	}
}

// run tokenises the configured input file, or stdin if there is none, and
// writes one line per token to out.
func (s *scanner) run(ctx context.Context, stdin io.Reader, out io.Writer) error {
	if s.cfg.BufferModel == config.ModelChain && (s.cfg.Grammar == codecutil.CSV || s.cfg.Grammar == codecutil.INI) {
		s.log.Warning("grammar needs a contiguous buffer, using window", "grammar", s.cfg.Grammar)
		s.cfg.BufferModel = config.ModelWindow
	}

	utf8 := isUTF8(s.cfg.Encoding)
	if s.cfg.BufferModel == config.ModelMapped {
		if utf8 {
			m, err := buffer.Map(s.cfg.InputPath)
			if err != nil {
				return err
			}
			s.log.Debug("mapped input", "path", s.cfg.InputPath, "size", m.Len())
			return tokenize[byte](ctx, s, m, out)
		}
		s.log.Warning("cannot map encoded input, using fixed", "encoding", s.cfg.Encoding)
		s.cfg.BufferModel = config.ModelFixed
	}

	var in io.Reader = stdin
	if s.cfg.InputPath != "" {
		f, err := source.Open(s.cfg.InputPath, s.log)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	if utf8 {
		return runUnits[byte](ctx, s, in, s.bytes, out)
	}
	enc, err := source.Encoding(s.cfg.Encoding)
	if err != nil {
		return err
	}
	return runUnits(ctx, s, source.Decode(in, enc), s.runes, out)
}

// runUnits builds the configured buffer model over src and tokenises it.
func runUnits[T buffer.Unit](ctx context.Context, s *scanner, src buffer.Source[T], p *pool.Pool[T], out io.Writer) error {
	opts := buffer.Options[T]{
		Size:   int(s.cfg.InitialChunkSize),
		Growth: s.cfg.GrowthPolicy,
		Pool:   p,
		Logger: s.log,
	}

	switch s.cfg.BufferModel {
	case config.ModelChain:
		return tokenizeSeq(ctx, s, buffer.NewChain(src, opts), out)
	case config.ModelFixed:
		w, err := buffer.NewWindow(src, opts)
		if err != nil {
			return err
		}
		for !w.Final() {
			if _, err := w.RefillContext(ctx); err != nil {
				w.Close()
				return err
			}
		}
		s.log.Debug("read whole input", "units", len(w.Remaining()), "grows", w.Grows())
		return tokenize[T](ctx, s, buffer.Owned(w.Remaining(), w.Close), out)
	default:
		w, err := buffer.NewWindow(src, opts)
		if err != nil {
			return err
		}
		return tokenize[T](ctx, s, w, out)
	}
}

// tokenize drives the configured grammar over b and closes b.
func tokenize[T buffer.Unit](ctx context.Context, s *scanner, b buffer.Buffer[T], out io.Writer) error {
	defer b.Close()
	defer func() { s.consumed = b.Consumed() }()

	var open func(b buffer.Buffer[T]) driver.Next[string]
	switch s.cfg.Grammar {
	case codecutil.CSV:
		open = func(b buffer.Buffer[T]) driver.Next[string] { return csvRecords(s, b) }
	case codecutil.INI:
		open = iniPairs[T]
	case codecutil.HexColor:
		open = colours[T]
	default:
		open = lines[T]
	}

	if s.cfg.UsesAsync {
		return emit(out, driver.Start[T, string](ctx, b, open))
	}
	next := open(buffer.Bind(ctx, b))
	for {
		v, ok, err := next()
		if err != nil || !ok {
			return err
		}
		if _, err := fmt.Fprintln(out, v); err != nil {
			return errors.Wrap(err, "could not write token")
		}
	}
}

// tokenizeSeq drives the configured grammar over the chain c and closes c.
func tokenizeSeq[T buffer.Unit](ctx context.Context, s *scanner, c *buffer.Chain[T], out io.Writer) error {
	defer c.Close()
	defer func() {
		s.consumed = c.Consumed()
		s.log.Debug("chain done", "chunks", c.Chunks())
	}()

	open := linesSeq[T]
	if s.cfg.Grammar == codecutil.HexColor {
		open = coloursSeq[T]
	}

	if s.cfg.UsesAsync {
		return emit(out, driver.StartSeq[T, string](ctx, c, open))
	}
	next := open(buffer.BindWalker[T](ctx, c))
	for {
		v, ok, err := next()
		if err != nil || !ok {
			return err
		}
		if _, err := fmt.Fprintln(out, v); err != nil {
			return errors.Wrap(err, "could not write token")
		}
	}
}

// emit writes every value of st to out.
func emit(out io.Writer, st *driver.Stream[string]) error {
	for v := range st.C {
		if _, err := fmt.Fprintln(out, v); err != nil {
			st.Stop()
			for range st.C {
			}
			st.Wait()
			return errors.Wrap(err, "could not write token")
		}
	}
	return st.Wait()
}

func csvRecords[T buffer.Unit](s *scanner, b buffer.Buffer[T]) driver.Next[string] {
	opts := []csv.Option{csv.Comma(s.cfg.Delimiter), csv.Logger(s.log)}
	if s.cfg.Header {
		opts = append(opts, csv.Header())
	}
	r, err := csv.NewReader[T](b, opts...)
	if err != nil {
		return func() (string, bool, error) { return "", false, err }
	}
	return func() (string, bool, error) {
		rec, ok, err := r.Next()
		if !ok || err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%q", rec), true, nil
	}
}

func iniPairs[T buffer.Unit](b buffer.Buffer[T]) driver.Next[string] {
	var pairs []string
	parsed := false
	return func() (string, bool, error) {
		if !parsed {
			f, err := ini.Parse(b)
			if err != nil {
				return "", false, err
			}
			parsed = true
			for _, name := range append([]string{""}, f.Sections()...) {
				sec := f.Section(name)
				for _, k := range sec.Keys() {
					v, _ := sec.Get(k)
					pairs = append(pairs, fmt.Sprintf("[%s] %s=%q", name, k, v))
				}
			}
		}
		if len(pairs) == 0 {
			return "", false, nil
		}
		p := pairs[0]
		pairs = pairs[1:]
		return p, true, nil
	}
}

func colours[T buffer.Unit](b buffer.Buffer[T]) driver.Next[string] {
	return func() (string, bool, error) {
		for {
			ok, err := scan.SkipCRLF(b)
			if err != nil {
				return "", false, err
			}
			if !ok {
				break
			}
		}
		if rem, _ := scan.Need(b, 1); len(rem) == 0 {
			return "", false, nil
		}
		c, err := hexcolor.Decode(b)
		if err != nil {
			return "", false, err
		}
		if rem, _ := scan.Need(b, 1); len(rem) > 0 && rem[0] != '\r' && rem[0] != '\n' {
			return "", false, buffer.Errorf(b.Consumed(), buffer.ErrUnexpectedToken, "text after colour")
		}
		return formatColour(c), true, nil
	}
}

func coloursSeq[T buffer.Unit](w buffer.Walker[T]) driver.Next[string] {
	return func() (string, bool, error) {
		for {
			ok, err := scan.SkipCRLFSeq(w)
			if err != nil {
				return "", false, err
			}
			if !ok {
				break
			}
		}
		if seq, err := w.Peek(1); err != nil || seq.Len() == 0 {
			return "", false, err
		}
		c, err := hexcolor.DecodeSeq(w)
		if err != nil {
			return "", false, err
		}
		seq, err := w.Peek(1)
		if err != nil {
			return "", false, err
		}
		if seq.Len() > 0 && seq.At(0) != '\r' && seq.At(0) != '\n' {
			return "", false, buffer.Errorf(w.Consumed(), buffer.ErrUnexpectedToken, "text after colour")
		}
		return formatColour(c), true, nil
	}
}

func formatColour(c hexcolor.Color) string {
	return fmt.Sprintf("%v %d %d %d", c, c.R, c.G, c.B)
}

func lines[T buffer.Unit](b buffer.Buffer[T]) driver.Next[string] {
	n := 0
	return func() (string, bool, error) {
		line, ok, err := scan.Line(b)
		if !ok || err != nil {
			return "", false, err
		}
		n++
		return fmt.Sprintf("%d\t%s", n, buffer.String(line)), true, nil
	}
}

func linesSeq[T buffer.Unit](w buffer.Walker[T]) driver.Next[string] {
	n := 0
	return func() (string, bool, error) {
		line, adv, ok, err := scan.LineSeq(w)
		if !ok || err != nil {
			return "", false, err
		}
		n++
		v := fmt.Sprintf("%d\t%s", n, line.String())
		w.Consume(adv)
		return v, true, nil
	}
}

// isUTF8 reports whether name is an encoding the input can be read in
// directly as bytes.
func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
