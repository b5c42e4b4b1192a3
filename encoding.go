package subx

import (
	"os"

	"github.com/subx-cli/subx/pkg/core/encoding"
	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
)

// EncodingReport is the outcome of one DetectEncoding call (spec §6.1:
// detect_encoding -> EncodingReport).
type EncodingReport struct {
	Charset    string
	Confidence float64
}

// DetectEncoding sniffs inputPath's character encoding (spec §6.1). A
// confidence of 0 and defaultCharset means the statistical detector could
// not clear threshold and the caller's default was used (spec §4.3).
func (c *Client) DetectEncoding(inputPath string, threshold float64, defaultCharset string) (*EncodingReport, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, c.errorf("detect_encoding: %w", &coreerrors.FileOperationError{Op: "read", Path: inputPath, Cause: err})
	}

	result := encoding.Detect(data, threshold, defaultCharset)
	return &EncodingReport{Charset: result.Charset, Confidence: result.Confidence}, nil
}
