package atomizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "html double quotes",
			text: `<div class="p(4) bg(red)">`,
			want: []string{"p(4)", "bg(red)"},
		},
		{
			name: "single quotes",
			text: `<span class='c(#fff) bold'></span>`,
			want: []string{"c(#fff)", "bold"},
		},
		{
			name: "jsx className in braces",
			text: "<a className={`m(2) hover:c(blue)`}>",
			want: []string{"m(2)", "hover:c(blue)"},
		},
		{
			name: "jsx string in braces",
			text: `<a className={"w(100%)"}>`,
			want: []string{"w(100%)"},
		},
		{
			name: "svelte directive",
			text: `<div class:flex={open} class:none={!open}>`,
			want: []string{"flex", "none"},
		},
		{
			name: "order of appearance across patterns",
			text: "<a class='m(1)'></a>\n<b class=\"m(2)\"></b>\n<i class='m(3)'></i>",
			want: []string{"m(1)", "m(2)", "m(3)"},
		},
		{
			name: "duplicates are kept",
			text: `<a class="p(4)"></a><b class="p(4) m(2)"></b>`,
			want: []string{"p(4)", "p(4)", "m(2)"},
		},
		{
			name: "interpolations are skipped",
			text: "<a class=\"p(4) {extra}\"></a><b className={`m(2) ${x}`}></b>",
			want: []string{"p(4)", "m(2)"},
		},
		{
			name: "no class attributes",
			text: `<p>hello</p>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseAtoms(tt.text))
		})
	}
}

func TestRule(t *testing.T) {
	tests := []struct {
		name   string
		atom   string
		want   string
		wantOK bool
	}{
		{name: "padding number", atom: "p(4)", want: `.p\(4\){padding:4px}`, wantOK: true},
		{name: "padding shorthand", atom: "p(4/8)", want: `.p\(4\/8\){padding:4px 8px}`, wantOK: true},
		{name: "zero stays unitless", atom: "m(0)", want: `.m\(0\){margin:0}`, wantOK: true},
		{name: "unit passes through", atom: "w(50%)", want: `.w\(50\%\){width:50%}`, wantOK: true},
		{name: "pair", atom: "px(2)", want: `.px\(2\){padding-left:2px;padding-right:2px}`, wantOK: true},
		{name: "color", atom: "bg(#fff)", want: `.bg\(\#fff\){background-color:#fff}`, wantOK: true},
		{name: "keyword", atom: "flex", want: `.flex{display:flex}`, wantOK: true},
		{name: "hover prefix", atom: "hover:c(red)", want: `.hover\:c\(red\):hover{color:red}`, wantOK: true},
		{name: "important", atom: "bold!", want: `.bold\!{font-weight:bold!important}`, wantOK: true},
		{name: "unknown name", atom: "foo(1)", wantOK: false},
		{name: "unknown prefix", atom: "print:flex", wantOK: false},
		{name: "empty args", atom: "p()", wantOK: false},
		{name: "unbalanced", atom: "p(4", wantOK: false},
		{name: "too many values", atom: "w(1/2)", wantOK: false},
		{name: "plain word", atom: "container", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Rule(tt.atom)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateCSS_SkipsUnknownAndKeepsOrder(t *testing.T) {
	got := GenerateCSS([]string{"m(2)", "nope", "p(4)"})
	require.Equal(t, []string{`.m\(2\){margin:2px}`, `.p\(4\){padding:4px}`}, got)
}

func TestEscapeSelector(t *testing.T) {
	assert.Equal(t, `hover\:bg\(red\.5\)`, EscapeSelector("hover:bg(red.5)"))
	assert.Equal(t, "max-w_1", EscapeSelector("max-w_1"))
}
