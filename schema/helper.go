package schema

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// binary codec helpers shared by the schema binary marshalers.
// Every slice is length prefixed with a little endian int32.

func writeLen(buf *bytes.Buffer, n int, what string) error {
	if err := binary.Write(buf, binary.LittleEndian, int32(n)); err != nil {
		return fmt.Errorf("failed to write %s length: %w", what, err)
	}
	return nil
}

// readLen reads a length prefix and checks it against the bytes left in reader
func readLen(reader *bytes.Reader, what string) (int, error) {
	var n int32
	if err := binary.Read(reader, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("failed to read %s length: %w", what, err)
	}
	if n < 0 || int64(n) > int64(reader.Len()) {
		return 0, fmt.Errorf("invalid %s length %d", what, n)
	}
	return int(n), nil
}

// writeStringSlice writes a slice of strings to the buffer.
// Format: int32 (count) + for each string: (int32 (length) + bytes)
func writeStringSlice(buf *bytes.Buffer, sl []string) error {
	if err := writeLen(buf, len(sl), "slice"); err != nil {
		return err
	}
	for _, s := range sl {
		if err := writeLen(buf, len(s), "string"); err != nil {
			return err
		}
		if _, err := buf.WriteString(s); err != nil {
			return fmt.Errorf("failed to write string bytes: %w", err)
		}
	}
	return nil
}

// readStringSlice reads a slice of strings from the reader.
func readStringSlice(reader *bytes.Reader) ([]string, error) {
	count, err := readLen(reader, "slice")
	if err != nil {
		return nil, err
	}
	sl := make([]string, count)
	for i := range count {
		bs, err := readBytes(reader, i)
		if err != nil {
			return nil, err
		}
		sl[i] = string(bs)
	}
	return sl, nil
}

// writeBytesSliceSlice writes a slice of byte slices to the buffer.
// Format: int32 (outer slice count) + for each inner []byte: (int32 (length) + bytes)
func writeBytesSliceSlice(buf *bytes.Buffer, sl [][]byte) error {
	if err := writeLen(buf, len(sl), "outer slice"); err != nil {
		return err
	}
	for _, bSlice := range sl {
		if err := writeLen(buf, len(bSlice), "inner slice"); err != nil {
			return err
		}
		if _, err := buf.Write(bSlice); err != nil {
			return fmt.Errorf("failed to write inner slice bytes: %w", err)
		}
	}
	return nil
}

// readBytesSliceSlice reads a slice of byte slices from the reader.
func readBytesSliceSlice(reader *bytes.Reader) ([][]byte, error) {
	count, err := readLen(reader, "outer slice")
	if err != nil {
		return nil, err
	}
	sl := make([][]byte, count)
	for i := range count {
		if sl[i], err = readBytes(reader, i); err != nil {
			return nil, err
		}
	}
	return sl, nil
}

func readBytes(reader *bytes.Reader, idx int) ([]byte, error) {
	n, err := readLen(reader, fmt.Sprintf("element %d", idx))
	if err != nil {
		return nil, err
	}
	bs := make([]byte, n)
	if _, err := io.ReadFull(reader, bs); err != nil {
		return nil, fmt.Errorf("failed to read bytes for element %d: %w", idx, err)
	}
	return bs, nil
}
