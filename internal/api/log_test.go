package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-30T06:50:46.074+01:00 level=INFO msg="Project saved" path=city.openmap bytes=1613 longparam=thisvalueiswaytoolongforthestatusbar`
	expected := "06:50:46 Project saved (bytes=1613, path=city.openmap)"

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFormatLogLinePassthrough(t *testing.T) {
	input := "plain text without structure"
	if result := formatLogLine(input); result != input {
		t.Errorf("Expected passthrough, got '%s'", result)
	}
}
