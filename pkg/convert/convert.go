// Package convert implements the convert() entry point (spec §6.1): the
// single-file format conversion pipeline C3 (detect encoding) → C4 (parse)
// → C5 (transform) → C4 (serialize) → C9 (write). It is the non-matching
// half of the engine's public surface, sitting next to pkg/match the way
// the teacher's root Client groups auth/discover/subtitles/features into
// one cohesive API over shared collaborators.
package convert

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/core/encoding"
	"github.com/subx-cli/subx/pkg/formats"
	"github.com/subx-cli/subx/pkg/formats/ass"
	"github.com/subx-cli/subx/pkg/formats/srt"
	"github.com/subx-cli/subx/pkg/formats/sub"
	"github.com/subx-cli/subx/pkg/formats/vtt"
	"github.com/subx-cli/subx/pkg/transform"
)

// Options configures one Convert call.
type Options struct {
	PreserveStyling bool

	// OutputPath is where the converted file is written. Empty means
	// "do not write to disk" — the caller only wants Report.Output.
	OutputPath string

	DefaultCharset              string
	EncodingDetectionConfidence float64
}

// Report is the outcome of one Convert call (spec §6.1 ConvertReport).
type Report struct {
	SourceFormat    formats.Format
	TargetFormat    formats.Format
	DetectedCharset string
	Output          string // serialized text of the converted subtitle
	OutputPath      string // where it was written, if anywhere
	Warnings        []string
}

// defaultRegistry is the fixed four-codec registry every Convert call uses.
// The codecs are stateless, so one shared instance is safe across calls.
var defaultRegistry = formats.NewRegistry(ass.New(), vtt.New(), srt.New(), sub.New())

// Converter runs convert operations with injected defaults (charset,
// logger). The zero value is ready to use.
type Converter struct {
	logger *logrus.Logger
}

// NewConverter builds a Converter. If logger is nil, the package-default
// logrus logger is used.
func NewConverter(logger *logrus.Logger) *Converter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Converter{logger: logger}
}

// ConvertFile reads inputPath, detects its encoding and format, transforms
// it to target, and (if opts.OutputPath is set) writes the result.
func (c *Converter) ConvertFile(inputPath string, target formats.Format, opts Options) (*Report, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, &coreerrors.FileOperationError{Op: "read", Path: inputPath, Cause: err}
	}
	return c.Convert(data, target, opts)
}

// Convert runs the C3→C4→C5→C4 pipeline over in-memory data. It is the
// part of ConvertFile that reads no file, split out so callers that already
// hold file bytes can reuse it. It still writes the result when
// opts.OutputPath is set.
func (c *Converter) Convert(data []byte, target formats.Format, opts Options) (*Report, error) {
	detected := encoding.Detect(data, opts.EncodingDetectionConfidence, opts.DefaultCharset)
	text, err := encoding.Decode(data, detected.Charset)
	if err != nil {
		return nil, &coreerrors.SubtitleFormatError{Format: "unknown", Reason: fmt.Sprintf("decoding %s: %v", detected.Charset, err)}
	}

	parsed, parseWarnings, err := defaultRegistry.ParseAuto(text)
	if err != nil {
		return nil, err
	}

	transformed, transformWarnings, err := transform.Transform(parsed, target, transform.Options{PreserveStyling: opts.PreserveStyling})
	if err != nil {
		return nil, err
	}

	codec, ok := defaultRegistry.Get(target)
	if !ok {
		return nil, &coreerrors.SubtitleFormatError{Format: string(target), Reason: "no codec registered for target format"}
	}
	output, err := codec.Serialize(transformed)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SourceFormat:    parsed.SourceFormat,
		TargetFormat:    target,
		DetectedCharset: detected.Charset,
		Output:          output,
	}
	report.Warnings = append(report.Warnings, parseWarnings...)
	report.Warnings = append(report.Warnings, transformWarnings...)

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(output), 0644); err != nil {
			return report, &coreerrors.FileOperationError{Op: "write", Path: opts.OutputPath, Cause: err}
		}
		report.OutputPath = opts.OutputPath
	}

	return report, nil
}
