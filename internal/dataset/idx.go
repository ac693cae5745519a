package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// IDX format:
// [2 bytes: zero]
// [1 byte: dtype code (0x08 = uint8)]
// [1 byte: dimension count]
// [4 bytes big-endian per dimension: size]
// [row-major payload]
//
// MNIST-style corpora ship images as a 3-D uint8 tensor (count, rows, cols)
// and labels as a 1-D uint8 vector. Files ending in .gz are decompressed
// transparently.

const (
	idxDTypeUint8 = 0x08

	// maxIDXPayload bounds the declared payload size. Header dimensions are
	// untrusted input; without a cap a 16-byte file can demand a
	// multi-gigabyte allocation. 1 GiB covers every real corpus (full MNIST
	// is ~45 MB).
	maxIDXPayload = 1 << 30
)

// LoadIDXImages reads an IDX image file into a [count, rows*cols] matrix.
//
// Pixel values are scaled from [0, 255] to [0, 1].
func LoadIDXImages(path string) (*mat.Dense, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	dims, payload, err := readIDX(r, 3)
	if err != nil {
		return nil, fmt.Errorf("idx images %s: %w", path, err)
	}

	count, rows, cols := dims[0], dims[1], dims[2]
	data := make([]float64, len(payload))
	for i, b := range payload {
		data[i] = float64(b) / 255.0
	}
	return mat.NewDense(count, rows*cols, data), nil
}

// LoadIDXLabels reads an IDX label file into a class index slice.
func LoadIDXLabels(path string) ([]int, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	_, payload, err := readIDX(r, 1)
	if err != nil {
		return nil, fmt.Errorf("idx labels %s: %w", path, err)
	}

	labels := make([]int, len(payload))
	for i, b := range payload {
		labels[i] = int(b)
	}
	return labels, nil
}

// LoadIDXPair reads matching image and label files into a dataset.
func LoadIDXPair(imagesPath, labelsPath string) (*Dataset, error) {
	x, err := LoadIDXImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := LoadIDXLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	return New(x, labels)
}

func openMaybeGzip(path string) (io.Reader, func(), error) {
	//nolint:gosec // G304: dataset paths come from the caller by design
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, func() { f.Close() }, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return gz, func() { gz.Close(); f.Close() }, nil
}

// readIDX parses an IDX header with the expected dimension count and reads
// the full uint8 payload.
func readIDX(r io.Reader, wantDims int) ([]int, []byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != 0 || header[1] != 0 {
		return nil, nil, fmt.Errorf("invalid magic bytes % x", header[:2])
	}
	if header[2] != idxDTypeUint8 {
		return nil, nil, fmt.Errorf("unsupported dtype code 0x%02x (only uint8 supported)", header[2])
	}
	if int(header[3]) != wantDims {
		return nil, nil, fmt.Errorf("expected %d dimensions, got %d", wantDims, header[3])
	}

	dims := make([]int, wantDims)
	total := uint64(1)
	for i := range dims {
		var size uint32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, nil, fmt.Errorf("failed to read dimension %d: %w", i, err)
		}
		dims[i] = int(size)
		// Checking after every multiply keeps total under 2^62, so the
		// product cannot overflow.
		total *= uint64(size)
		if total > maxIDXPayload {
			return nil, nil, fmt.Errorf("declared payload of %d bytes exceeds %d byte limit", total, maxIDXPayload)
		}
	}

	payload := make([]byte, total)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return dims, payload, nil
}
