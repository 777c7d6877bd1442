package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestUpdatePhaseLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Update("pulling manifest", 0, 0)
	p.Update("pulling manifest", 0, 0)
	p.Update("verifying sha256 digest", 0, 0)
	p.Finish()

	out := buf.String()
	if strings.Count(out, "pulling manifest") != 1 {
		t.Errorf("repeated phase should print once:\n%s", out)
	}
	if !strings.Contains(out, "verifying sha256 digest") {
		t.Errorf("missing phase line:\n%s", out)
	}
}

func TestUpdateByteProgressRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Update("downloading", 1000, 250)
	p.Update("downloading", 1000, 1000)
	p.Finish()

	out := buf.String()
	if strings.Count(out, "\r") != 2 {
		t.Errorf("byte updates should redraw with carriage returns:\n%q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should end the bar with a newline")
	}
}

func TestFailClosesBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	p.Update("downloading", 1000, 500)
	p.Fail(errors.New("connection reset"))

	out := buf.String()
	if !strings.Contains(out, "error: connection reset") {
		t.Errorf("missing error line:\n%s", out)
	}
}
