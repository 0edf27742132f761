// Package vartab streams rows from a merged variant table: a delimited text
// file whose header carries five fixed site columns (CHROM, POS, ID, REF,
// ALT) followed by one column per sample. Plain and gzipped files are
// supported, and the field delimiter is sniffed from the file when not set
// explicitly, since the upstream toolchain emits tab-separated tables while
// the tabular-transform stage emits comma-separated ones.
package vartab

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/csimplestring/go-csv/detector"

	"github.com/variantkit/vcf2sqlite/internal/genotype"
)

// Reader reads one data row at a time from a merged variant table.
type Reader struct {
	csv        *csv.Reader
	file       *os.File
	gzipReader *gzip.Reader
	delimiter  rune
	header     []string
	sampleIDs  []string
	rows       int64
}

// Open opens the table at path. Use "-" for stdin. Gzipped files are
// detected by their magic bytes. A zero delimiter means sniff it from the
// file's leading bytes.
func Open(path string, delimiter rune) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin, delimiter)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	// Check for gzip magic bytes, then seek back
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read input file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek input file: %w", err)
	}

	r := &Reader{file: file}
	var src io.Reader = file
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		src = r.gzipReader
	}

	if err := r.init(src, delimiter); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// NewReader creates a Reader from an io.Reader (e.g. stdin). The stream must
// be uncompressed.
func NewReader(src io.Reader, delimiter rune) (*Reader, error) {
	r := &Reader{}
	if err := r.init(src, delimiter); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) init(src io.Reader, delimiter rune) error {
	br := bufio.NewReader(src)
	if delimiter == 0 {
		delimiter = detectDelimiter(br)
	}
	r.delimiter = delimiter

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1 // short rows are expected; lengths are checked downstream
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	r.csv = cr

	return r.readHeader()
}

// detectDelimiter sniffs the delimiter from the stream's leading bytes
// without consuming them, falling back to a comma.
func detectDelimiter(br *bufio.Reader) rune {
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ','
	}

	d := detector.New()
	if delimiters := d.DetectDelimiter(bytes.NewReader(sample), '"'); len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}
	return ','
}

func (r *Reader) readHeader() error {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return errors.New("input has no header line")
		}
		return fmt.Errorf("read header: %w", err)
	}
	if len(record) < genotype.FixedFields {
		return fmt.Errorf("header has %d columns, need at least %d", len(record), genotype.FixedFields)
	}

	r.header = append([]string(nil), record...)
	r.sampleIDs = r.header[genotype.FixedFields:]
	return nil
}

// Next returns the next data row, or nil, nil after the last row. Blank
// lines are skipped. A *csv.ParseError marks a single undecodable row;
// callers may skip it and keep reading.
func (r *Reader) Next() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	r.rows++
	return record, nil
}

// Header returns all column names from the header line.
func (r *Reader) Header() []string {
	return r.header
}

// SampleIDs returns the column names after the fixed site columns, in
// header order. The list is captured once at open time and stays fixed for
// the lifetime of the reader.
func (r *Reader) SampleIDs() []string {
	return r.sampleIDs
}

// Rows returns the number of data rows read so far.
func (r *Reader) Rows() int64 {
	return r.rows
}

// Delimiter returns the delimiter in use, after any sniffing.
func (r *Reader) Delimiter() rune {
	return r.delimiter
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
