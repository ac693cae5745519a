package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/percept-ml/percept/internal/tensor"
)

const perceptVersion = "0.1.0"

// Save writes a state dictionary with the given header to path.
//
// The write is atomic: the record is assembled in a temporary file in the
// same directory and renamed over the target only after a successful sync,
// so readers never observe a partially written checkpoint.
func Save(path string, stateDict map[string]*tensor.RawTensor, header Header) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteTo(tmp, stateDict, header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WriteTo writes a state dictionary with the given header to an io.Writer.
//
// Tensors are laid out in lexicographic name order so identical state
// produces identical bytes.
func WriteTo(w io.Writer, stateDict map[string]*tensor.RawTensor, header Header) error {
	header.FormatVersion = FormatVersion
	header.PerceptVersion = perceptVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	// Assemble the data section and per-tensor metadata.
	var data bytes.Buffer
	header.Tensors = make([]TensorMeta, 0, len(names))
	for _, name := range names {
		raw := stateDict[name]
		offset := int64(data.Len())
		size := int64(raw.NumElements() * 8)

		buf := make([]byte, 8)
		for _, v := range raw.Data() {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  []int(raw.Shape().Clone()),
			Offset: offset,
			Size:   size,
		})
	}

	checksum := ComputeChecksum(data.Bytes())

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	// Fixed header.
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	for _, name := range names {
		if strings.HasPrefix(name, "optimizer.") {
			flags |= FlagHasOptimizer
			break
		}
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	// fixed[12:16] reserved, zero
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(data.Len()))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Pad so the data section starts on a 64-byte boundary.
	pos := int64(FixedHeaderSize) + int64(len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}
