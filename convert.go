package subx

import (
	"github.com/subx-cli/subx/pkg/convert"
	"github.com/subx-cli/subx/pkg/formats"
)

// Convert runs one file conversion (spec §6.1: convert). outputPath may be
// empty to skip writing the result to disk.
func (c *Client) Convert(inputPath string, targetFormat formats.Format, preserveStyling bool, outputPath string) (*convert.Report, error) {
	report, err := c.converter.ConvertFile(inputPath, targetFormat, convert.Options{
		PreserveStyling:             preserveStyling,
		OutputPath:                  outputPath,
		DefaultCharset:              c.config.DefaultCharset,
		EncodingDetectionConfidence: c.config.EncodingDetectionConfidence,
	})
	if err != nil {
		return nil, c.errorf("convert: %w", err)
	}
	return report, nil
}
