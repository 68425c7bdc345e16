package styles

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"", Simple{}, false},
		{"simple", Simple{}, false},
		{"blueprint", Blueprint{}, false},
		{"handdrawn", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ByName(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got := Names(); !slices.Equal(got, []string{"blueprint", "simple"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		name string
		n    Node
		want float64
	}{
		{"TinyNodeClampsToMin", Node{Label: "1", R: 2}, fontSizeMin},
		{"HugeNodeClampsToMax", Node{Label: "1", R: 200}, fontSizeMax},
		{"LongLabelShrinks", Node{Label: "123456789", R: 20}, fontSizeMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FontSize(tt.n); got != tt.want {
				t.Errorf("FontSize() = %.2f, want %.2f", got, tt.want)
			}
		})
	}

	short := FontSize(Node{Label: "7", R: 16})
	long := FontSize(Node{Label: "7777", R: 16})
	if long >= short {
		t.Errorf("longer label should get a smaller font: %.2f >= %.2f", long, short)
	}
}

func TestStylesEscapeLabels(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, _ := ByName(name)
			var buf bytes.Buffer
			s.RenderText(&buf, Node{Label: "<&>", CX: 10, CY: 10, R: 10})
			s.RenderCaption(&buf, "a<b", 10, 10)
			out := buf.String()
			if strings.Contains(out, "<&>") || strings.Contains(out, "a<b") {
				t.Errorf("unescaped text in %s", out)
			}
			if !strings.Contains(out, "&lt;&amp;&gt;") {
				t.Errorf("escaped label missing in %s", out)
			}
		})
	}
}

func TestRenderNode(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderNode(&buf, Node{ID: 3, CX: 10, CY: 20, R: 5})
	if !strings.Contains(buf.String(), `id="node-3"`) || !strings.Contains(buf.String(), `r="5.0"`) {
		t.Errorf("RenderNode = %s", buf.String())
	}

	buf.Reset()
	Blueprint{}.RenderDefs(&buf, 100, 50)
	if !strings.Contains(buf.String(), `<pattern id="grid"`) {
		t.Error("Blueprint defs missing grid pattern")
	}
}
