package metadata

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dotsctl/dotsctl/pkg/errors"
	"github.com/dotsctl/dotsctl/pkg/logging"
)

// maxLineBytes bounds a single line; anything longer is not a text
// file we care about.
const maxLineBytes = 1 << 20

// Scan looks for a metadata block in the file at path. The marker must
// appear within the first headerLines lines. Files without a marker,
// and files that are not text, report found=false without error.
func Scan(path string, headerLines int) (*Metadata, bool, error) {
	logger := logging.GetLogger("metadata")

	f, err := os.Open(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", path)
	}
	defer func() { _ = f.Close() }()

	block, found, err := extractBlock(f, headerLines)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.GetErrorCode(err), "scanning %s", path)
	}
	if !found {
		return nil, false, nil
	}

	logger.Debug().Str("path", path).Msg("Found metadata block")

	meta, err := Parse([]byte(block))
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.GetErrorCode(err), "invalid metadata in %s", path)
	}
	if meta == nil {
		// Marker with an empty block carries no instructions
		return nil, false, nil
	}

	return meta, true, nil
}

// extractBlock runs the line-window state machine: find the marker in
// the leading lines, record its column as the block indent, then
// collect indent-stripped lines until the sentinel. The block text is
// returned without the sentinel line.
func extractBlock(r io.Reader, headerLines int) (string, bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	indent := -1
	lineNr := 0
	for lineNr < headerLines && scanner.Scan() {
		lineNr++
		line := scanner.Bytes()
		if !isText(line) {
			return "", false, nil
		}
		if idx := bytes.Index(line, []byte(Marker)); idx >= 0 {
			indent = idx
			break
		}
	}
	if err := scanner.Err(); err != nil {
		if stderrors.Is(err, bufio.ErrTooLong) {
			// Not a text file
			return "", false, nil
		}
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "read failed while scanning header")
	}
	if indent < 0 {
		return "", false, nil
	}

	var block []string
	terminated := false
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) > indent {
			line = line[indent:]
		} else {
			line = ""
		}
		line = strings.TrimRight(line, " \t\r")
		if line == Sentinel {
			terminated = true
			break
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "read failed while collecting metadata block")
	}
	if !terminated {
		return "", false, errors.Newf(errors.ErrMetadataTruncated,
			"metadata block not terminated by %q before end of file", Sentinel)
	}

	return strings.Join(block, "\n"), true, nil
}

// isText reports whether a header line looks like text. NUL bytes or
// invalid UTF-8 mark the whole file as binary.
func isText(line []byte) bool {
	if bytes.IndexByte(line, 0) >= 0 {
		return false
	}
	return utf8.Valid(line)
}
