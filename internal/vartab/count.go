package vartab

import (
	"bytes"
	"io"
	"os"
)

// CountLines counts the data lines (excluding the header) of a plain
// uncompressed file, the cheap equivalent of `wc -l`. ok is false when no
// cheap count is possible: stdin, gzipped input, or an unreadable file.
// The count only feeds progress percentages, so a miss is harmless.
func CountLines(path string) (total int64, ok bool) {
	if path == "-" {
		return 0, false
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return 0, false
	}
	if n >= 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		return 0, false // gzipped; counting would mean decompressing twice
	}

	var lines int64
	last := byte('\n')
	for {
		if n > 0 {
			lines += int64(bytes.Count(buf[:n], []byte{'\n'}))
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
		n, err = f.Read(buf)
	}
	if last != '\n' {
		lines++ // final line without a trailing newline
	}

	if lines > 0 {
		lines-- // header
	}
	return lines, true
}
