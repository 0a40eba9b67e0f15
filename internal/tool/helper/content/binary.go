// Package content classifies payloads as text or binary. Classification is
// two-stage: a known-binary extension list short-circuits, otherwise a
// density heuristic over a leading sample decides.
package content

import (
	"path/filepath"
	"strings"
)

const (
	// binarySampleSize is the number of leading bytes inspected by the
	// density heuristic.
	binarySampleSize = 1000
	// nullDensityThreshold: more than 1% null bytes in the sample means binary.
	nullDensityThreshold = 0.01
	// nonPrintableDensityThreshold: more than 5% non-printable bytes means binary.
	nonPrintableDensityThreshold = 0.05
)

// Detector classifies content using a configured known-binary extension set
// plus byte-sampling heuristics.
type Detector struct {
	binaryExts map[string]struct{}
}

// NewDetector creates a Detector. Extensions are given without the leading
// dot and matched case-insensitively.
func NewDetector(binaryExtensions []string) *Detector {
	exts := make(map[string]struct{}, len(binaryExtensions))
	for _, ext := range binaryExtensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Detector{binaryExts: exts}
}

// IsBinaryExt reports whether the path's extension is on the known-binary list.
func (d *Detector) IsBinaryExt(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := d.binaryExts[ext]
	return ok
}

// IsBinary classifies a payload destined for path: the extension list wins,
// otherwise the content sample decides.
func (d *Detector) IsBinary(path string, data []byte) bool {
	if d.IsBinaryExt(path) {
		return true
	}
	return IsBinaryContent(data)
}

// IsBinaryContent classifies bytes alone, ignoring the extension list.
func (d *Detector) IsBinaryContent(data []byte) bool {
	return IsBinaryContent(data)
}

// IsBinaryContent checks whether content bytes look like binary data by
// sampling the first binarySampleSize bytes and measuring null-byte and
// non-printable densities. UTF-16 and UTF-32 BOMs are treated as text to
// avoid false positives on wide encodings.
func IsBinaryContent(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	// Check for common text file BOMs (UTF-16, UTF-32)
	if len(data) >= 4 {
		if (data[0] == 0xFF && data[1] == 0xFE && data[2] == 0x00 && data[3] == 0x00) ||
			(data[0] == 0x00 && data[1] == 0x00 && data[2] == 0xFE && data[3] == 0xFF) {
			return false // UTF-32 BOM
		}
	}
	if len(data) >= 2 {
		if (data[0] == 0xFF && data[1] == 0xFE) ||
			(data[0] == 0xFE && data[1] == 0xFF) {
			return false // UTF-16 BOM
		}
	}

	sample := data
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}

	var nulls, nonPrintable int
	for _, b := range sample {
		switch {
		case b == 0:
			nulls++
			nonPrintable++
		case b < 0x09, b > 0x0D && b < 0x20, b == 0x7F:
			nonPrintable++
		}
	}

	n := float64(len(sample))
	if float64(nulls)/n > nullDensityThreshold {
		return true
	}
	return float64(nonPrintable)/n > nonPrintableDensityThreshold
}

// SplitLines splits text into lines, handling both \n and \r\n endings.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
