// Copyright 2024 the act-common-src-com-port authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package telemetry wraps github.com/joeycumines/logiface, writing
// through github.com/joeycumines/stumpy, into the small surface the
// channel pool actually needs: leveled, structured diagnostic logging
// of channel registration and pool closure.
package telemetry

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the subset of *logiface.Logger[*stumpy.Event] the engine
// calls. Keeping it as an interface rather than exporting the
// concrete logiface type lets callers supply a no-op implementation
// without pulling in stumpy at all.
type Logger interface {
	Info() Builder
	Err() Builder
	Debug() Builder
}

// Builder is the subset of *logiface.Builder[*stumpy.Event] used for a
// single log entry.
type Builder interface {
	Str(key, val string) Builder
	Int(key string, val int) Builder
	Err(err error) Builder
	Log(msg string)
}

// stumpyLogger adapts *logiface.Logger[*stumpy.Event] to Logger.
type stumpyLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

// New returns a Logger writing newline-delimited JSON to w via stumpy.
func New(w io.Writer) Logger {
	return &stumpyLogger{
		l: stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		),
	}
}

// Discard returns a Logger that drops every entry, for callers (and
// tests) that do not want diagnostic output.
func Discard() Logger {
	return discardLogger{}
}

func (s *stumpyLogger) Info() Builder  { return stumpyBuilder{b: s.l.Info()} }
func (s *stumpyLogger) Err() Builder   { return stumpyBuilder{b: s.l.Err()} }
func (s *stumpyLogger) Debug() Builder { return stumpyBuilder{b: s.l.Debug()} }

type stumpyBuilder struct {
	b *logiface.Builder[*stumpy.Event]
}

func (s stumpyBuilder) Str(key, val string) Builder {
	s.b.Str(key, val)
	return s
}

func (s stumpyBuilder) Int(key string, val int) Builder {
	s.b.Int(key, val)
	return s
}

func (s stumpyBuilder) Err(err error) Builder {
	s.b.Err(err)
	return s
}

func (s stumpyBuilder) Log(msg string) {
	s.b.Log(msg)
}

type discardLogger struct{}

func (discardLogger) Info() Builder  { return discardBuilder{} }
func (discardLogger) Err() Builder   { return discardBuilder{} }
func (discardLogger) Debug() Builder { return discardBuilder{} }

type discardBuilder struct{}

func (discardBuilder) Str(string, string) Builder { return discardBuilder{} }
func (discardBuilder) Int(string, int) Builder    { return discardBuilder{} }
func (discardBuilder) Err(error) Builder          { return discardBuilder{} }
func (discardBuilder) Log(string)                 {}
