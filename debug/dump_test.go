package debug

import (
	"bytes"
	"strings"
	"testing"
)

type fakeStringer string

func (s fakeStringer) String() string { return string(s) }

func TestFdumpPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	Fdump(&buf, "value", fakeStringer(`{age: 30}`))
	got := buf.String()
	if got != "value: {age: 30}\n" {
		t.Fatalf("Fdump wrote %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("non-terminal writer got ANSI escapes: %q", got)
	}
}
