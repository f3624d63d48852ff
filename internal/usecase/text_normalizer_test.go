package usecase

import (
	"reflect"
	"testing"
)

func TestNewTextNormalizer(t *testing.T) {
	testCases := []struct {
		name      string
		separator string
		want      string
	}{
		{name: "space", separator: " ", want: SeparatorSpace},
		{name: "underscore", separator: "_", want: SeparatorUnderscore},
		{name: "empty falls back to space", separator: "", want: SeparatorSpace},
		{name: "unsupported falls back to space", separator: "-", want: SeparatorSpace},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := NewTextNormalizer(tc.separator)
			if got := n.Separator(); got != tc.want {
				t.Errorf("Separator() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	space := NewTextNormalizer(SeparatorSpace)
	underscore := NewTextNormalizer(SeparatorUnderscore)

	testCases := []struct {
		name           string
		input          string
		wantSpace      string
		wantUnderscore string
	}{
		{name: "lowercases", input: "Milk", wantSpace: "milk", wantUnderscore: "milk"},
		{name: "strips punctuation", input: "Bread!!", wantSpace: "bread", wantUnderscore: "bread"},
		{name: "collapses whitespace", input: "  basmati \t  rice  ", wantSpace: "basmati rice", wantUnderscore: "basmati_rice"},
		{name: "underscore is a word break", input: "bay_leaf", wantSpace: "bay leaf", wantUnderscore: "bay_leaf"},
		{name: "punctuation inside words is removed", input: "Coca-Cola", wantSpace: "cocacola", wantUnderscore: "cocacola"},
		{name: "keeps digits", input: "Maggi 2 Minute", wantSpace: "maggi 2 minute", wantUnderscore: "maggi_2_minute"},
		{name: "keeps non latin letters", input: "दूध", wantSpace: "दूध", wantUnderscore: "दूध"},
		{name: "only punctuation", input: "!!!", wantSpace: "", wantUnderscore: ""},
		{name: "empty", input: "", wantSpace: "", wantUnderscore: ""},
		{name: "whitespace only", input: " \n\t ", wantSpace: "", wantUnderscore: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := space.Normalize(tc.input); got != tc.wantSpace {
				t.Errorf("Normalize(%q) with space = %q, want %q", tc.input, got, tc.wantSpace)
			}
			if got := underscore.Normalize(tc.input); got != tc.wantUnderscore {
				t.Errorf("Normalize(%q) with underscore = %q, want %q", tc.input, got, tc.wantUnderscore)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Milk",
		"  Toor   Dal (1kg) ",
		"bay_leaf",
		"__leading_and_trailing__",
		"Café au lait",
		"ghee 500g",
		"a_ _b",
		"दूध, चीनी",
		"a.\u0301",
		"e-\u0301clair",
		"",
	}

	for _, sep := range []string{SeparatorSpace, SeparatorUnderscore} {
		n := NewTextNormalizer(sep)
		for _, s := range inputs {
			once := n.Normalize(s)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("separator %q: Normalize(Normalize(%q)) = %q, want %q", sep, s, twice, once)
			}
		}
	}
}

func TestNormalizeComposesUnicode(t *testing.T) {
	n := NewTextNormalizer(SeparatorSpace)

	decomposed := "cafe\u0301"
	composed := "caf\u00e9"
	if !n.Equal(decomposed, composed) {
		t.Errorf("Equal(%q, %q) = false, want true", decomposed, composed)
	}

	// punctuation between a letter and its combining mark is dropped before composing
	if got := n.Normalize("e-\u0301clair"); got != "\u00e9clair" {
		t.Errorf("Normalize(%q) = %q, want %q", "e-\u0301clair", got, "\u00e9clair")
	}
}

func TestEqual(t *testing.T) {
	n := NewTextNormalizer(SeparatorSpace)

	testCases := []struct {
		a, b string
		want bool
	}{
		{a: "Milk", b: "milk", want: true},
		{a: "Brown  Bread", b: "brown bread", want: true},
		{a: "brown_bread", b: "Brown Bread", want: true},
		{a: "milk", b: "milks", want: false},
		{a: "bread", b: "brown bread", want: false},
	}

	for _, tc := range testCases {
		if got := n.Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "newline separated",
			text: "Milk\nBread\nEggs",
			want: []string{"Milk", "Bread", "Eggs"},
		},
		{
			name: "comma separated",
			text: "milk, bread,eggs",
			want: []string{"milk", "bread", "eggs"},
		},
		{
			name: "mixed with blanks and CRLF",
			text: "Milk,\r\n\r\n  Basmati Rice ,, \nSugar\n",
			want: []string{"Milk", "Basmati Rice", "Sugar"},
		},
		{
			name: "keeps duplicates",
			text: "milk\nmilk",
			want: []string{"milk", "milk"},
		},
		{
			name: "spaces do not split",
			text: "toor dal",
			want: []string{"toor dal"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestCleanOCRText(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "strips noise and keeps lines",
			text: "* Milk (2L)\n- Bread.\n",
			want: "Milk 2L\nBread\n",
		},
		{
			name: "keeps commas",
			text: "milk, bread; eggs",
			want: "milk, bread eggs",
		},
		{
			name: "collapses runs of spaces",
			text: "toor    dal\t\tbrand",
			want: "toor dal brand",
		},
		{
			name: "normalizes CRLF",
			text: "a\r\nb",
			want: "a\nb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanOCRText(tc.text); got != tc.want {
				t.Errorf("CleanOCRText(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
