// Package pointio reads and writes batches of points.
//
// Input is either a JSON array of objects or newline-delimited JSON objects,
// optionally gzip or zstd compressed. Output is newline-delimited JSON.
package pointio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"

	"github.com/roach88/pointflow/internal/errs"
	"github.com/roach88/pointflow/internal/point"
)

// Open opens path for reading, decompressing by extension: .gz is gzip and
// .zst is zstd.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	r, err := Decompress(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Decompress wraps rc according to a file extension. Unknown extensions pass
// through. Closing the result closes rc.
func Decompress(rc io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".gz":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, rc}}, nil
	default:
		return rc, nil
	}
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstd.Decoder.Close returns nothing.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

// Decoder parses point batches. It reuses one fastjson parser and is not
// safe for concurrent use.
type Decoder struct {
	cat    *errs.Catalog
	parser fastjson.Parser
}

// NewDecoder returns a Decoder building errors from cat (nil means the
// default catalog).
func NewDecoder(cat *errs.Catalog) *Decoder {
	if cat == nil {
		cat = errs.DefaultCatalog()
	}
	return &Decoder{cat: cat}
}

// Decode reads every point from r. A leading '[' selects JSON-array input,
// anything else newline-delimited JSON; blank lines are skipped. Malformed
// input fails with an INPUT-INVALID runtime error naming the line.
func (d *Decoder) Decode(r io.Reader) ([]*point.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return d.decodeArray(trimmed)
	}
	return d.decodeLines(data)
}

func (d *Decoder) decodeArray(data []byte) ([]*point.Point, error) {
	v, err := d.parser.ParseBytes(data)
	if err != nil {
		return nil, d.invalid(1, err.Error())
	}
	elems, err := v.Array()
	if err != nil {
		return nil, d.invalid(1, err.Error())
	}
	points := make([]*point.Point, 0, len(elems))
	for i, elem := range elems {
		p, err := point.FromJSONValue(elem)
		if err != nil {
			return nil, d.invalid(1, fmt.Sprintf("element %d: %v", i, err))
		}
		points = append(points, p)
	}
	return points, nil
}

func (d *Decoder) decodeLines(data []byte) ([]*point.Point, error) {
	var points []*point.Point
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := d.parser.ParseBytes(text)
		if err != nil {
			return nil, d.invalid(line, err.Error())
		}
		p, err := point.FromJSONValue(v)
		if err != nil {
			return nil, d.invalid(line, err.Error())
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, d.invalid(line+1, err.Error())
	}
	return points, nil
}

func (d *Decoder) invalid(line int, detail string) *errs.Error {
	return d.cat.Runtime(errs.CodeInputInvalid, errs.Info{"line": line, "detail": detail})
}

// WriteJSONLines writes each point as one line of JSON. Points should already
// be in external form (see point.Denormalize).
func WriteJSONLines(w io.Writer, points iter.Seq[*point.Point]) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for p := range points {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to write point: %w", err)
		}
	}
	return bw.Flush()
}
