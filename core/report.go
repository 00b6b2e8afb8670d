package core

import (
	"bytes"
	"encoding/json"
)

// EncodeReport serializes a report to JSON with a stable field layout.
// Encoding the same report twice yields identical bytes, which callers rely
// on for logging and comparison in tests.
func EncodeReport(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeReport deserializes a report produced by EncodeReport.
func DecodeReport(data []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
