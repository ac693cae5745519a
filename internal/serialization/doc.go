// Package serialization implements the .pcpt checkpoint container format.
//
// A .pcpt file is a single self-describing record:
//
//	[0x00] 64-byte fixed header
//	       magic "PCPT" | format version | flags | reserved |
//	       JSON header size | data size | SHA-256 checksum of the data section
//	[0x40] JSON header (architecture, tensor metadata, training metadata)
//	[....] zero padding up to a 64-byte boundary
//	[....] data section: tensor payloads, little-endian float64
//
// The checksum covers the data section, so corrupted parameter values are
// detected before a model is reconstructed from them. Writes go through a
// temporary file and a rename, so a crash mid-save never leaves a truncated
// checkpoint at the target path.
package serialization
