// Package encoding detects a byte stream's character encoding and decodes
// it to UTF-8 (spec §4.3). BOM sniffing is hand-rolled; everything else is
// delegated to github.com/gogs/chardet (a statistical byte-frequency
// classifier, pulled from the corpus's ryepollen-turnip manifest) and
// golang.org/x/text's encoding tables for the actual byte transcoding —
// the teacher has no encoding-detection code of its own, so this package
// is grounded on the corpus at large rather than on angelospk-opensubtitles-go.
package encoding

import (
	"bytes"
	"fmt"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Result is the outcome of a detection attempt.
type Result struct {
	Charset    string
	Confidence float64
}

type bom struct {
	bytes   []byte
	charset string
}

// bomTable is checked in order; UTF-32 BOMs share a prefix with UTF-16LE so
// the 4-byte entries are tried first.
var bomTable = []bom{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "UTF-32BE"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "UTF-32LE"},
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8"},
	{[]byte{0xFE, 0xFF}, "UTF-16BE"},
	{[]byte{0xFF, 0xFE}, "UTF-16LE"},
}

// Detect returns the detected charset and a confidence in [0,1]. A BOM
// match always returns confidence 1.0. Absent a BOM, the statistical
// classifier is consulted; if its confidence is below threshold, Detect
// falls back to defaultCharset with confidence 0.0 (spec §4.3).
func Detect(data []byte, confidenceThreshold float64, defaultCharset string) Result {
	for _, b := range bomTable {
		if bytes.HasPrefix(data, b.bytes) {
			return Result{Charset: b.charset, Confidence: 1.0}
		}
	}

	detector := chardet.NewTextDetector()
	best, err := detector.DetectBest(data)
	if err == nil && best != nil {
		confidence := float64(best.Confidence) / 100.0
		if confidence >= confidenceThreshold {
			return Result{Charset: best.Charset, Confidence: confidence}
		}
	}

	return Result{Charset: defaultCharset, Confidence: 0.0}
}

// Decode transcodes data from charset to a UTF-8 string. Unknown charset
// names fall back to treating the bytes as already being UTF-8, since most
// inputs encountered in practice (SRT/ASS/VTT/SUB files) are UTF-8 or a
// BOM-tagged UTF-16/32 variant that Detect already resolves precisely.
func Decode(data []byte, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("encoding: decode as %s: %w", charset, err)
	}
	return string(out), nil
}
