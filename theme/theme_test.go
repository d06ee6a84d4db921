package theme

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	if got := Hex(color.NRGBA{0x28, 0x0a, 0xff, 0x80}); got != "#280aff80" {
		t.Errorf("Hex = %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		p    float64
		want Severity
	}{
		{10, SeverityNormal},
		{70, SeverityWarn},
		{89.9, SeverityWarn},
		{90, SeverityDanger},
	}
	for _, tc := range tests {
		if got := Classify(tc.p, 70, 90); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestColorFor(t *testing.T) {
	if _, ok := ColorFor(SeverityNormal); ok {
		t.Error("normal severity should not override the foreground")
	}
	if c, ok := ColorFor(SeverityDanger); !ok || c != Current.Danger {
		t.Errorf("danger = %v, %v", c, ok)
	}
}
