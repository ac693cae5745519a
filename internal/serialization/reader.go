package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/percept-ml/percept/internal/tensor"
)

// Reader reads .pcpt files.
//
// NewReader parses and validates the whole file eagerly: magic and version,
// header JSON, tensor metadata, and the data-section checksum. ReadStateDict
// then decodes payloads from the validated in-memory copy.
type Reader struct {
	header Header
	data   []byte // data section
}

// NewReader opens and parses a .pcpt file.
func NewReader(path string) (*Reader, error) {
	//nolint:gosec // G304: checkpoint paths come from the caller by design
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewReaderFromBytes(raw)
}

// NewReaderFromBytes parses a .pcpt record held in memory.
func NewReaderFromBytes(raw []byte) (*Reader, error) {
	if len(raw) < FixedHeaderSize {
		return nil, ErrTruncatedFile
	}
	fixed := raw[:FixedHeaderSize]

	if !bytes.Equal(fixed[0:4], []byte(MagicBytes)) {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerStart := uint64(FixedHeaderSize)
	headerEnd := headerStart + headerSize
	if uint64(len(raw)) < headerEnd {
		return nil, ErrTruncatedFile
	}

	var header Header
	if err := json.Unmarshal(raw[headerStart:headerEnd], &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	dataStart := headerEnd
	if rem := dataStart % HeaderAlignment; rem != 0 {
		dataStart += HeaderAlignment - rem
	}
	// dataSize is attacker-controlled; bound it before any arithmetic so
	// dataStart+dataSize cannot wrap around.
	if dataSize > uint64(len(raw)) {
		return nil, ErrTruncatedFile
	}
	dataEnd := dataStart + dataSize
	if uint64(len(raw)) < dataEnd {
		return nil, ErrTruncatedFile
	}
	data := raw[dataStart:dataEnd]

	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, err
	}
	if err := ValidateTensors(header.Tensors, int64(len(data))); err != nil {
		return nil, err
	}

	return &Reader{header: header, data: data}, nil
}

// Header returns the parsed JSON header.
func (r *Reader) Header() Header {
	return r.header
}

// ReadStateDict decodes every tensor payload into a state dictionary.
func (r *Reader) ReadStateDict() (map[string]*tensor.RawTensor, error) {
	stateDict := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		if meta.DType != DTypeFloat64 {
			return nil, fmt.Errorf("%w: tensor %q has dtype %q", ErrUnsupportedDType, meta.Name, meta.DType)
		}

		payload := r.data[meta.Offset : meta.Offset+meta.Size]
		values := make([]float64, len(payload)/8)
		for i := range values {
			bits := binary.LittleEndian.Uint64(payload[i*8 : (i+1)*8])
			values[i] = math.Float64frombits(bits)
		}

		raw, err := tensor.FromSlice(values, tensor.Shape(meta.Shape))
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", meta.Name, err)
		}
		stateDict[meta.Name] = raw
	}
	return stateDict, nil
}
