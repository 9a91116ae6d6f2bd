package mustache_test

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/cbroglie/mustache"
)

type renderTest struct {
	name     string
	tmpl     string
	data     string // JSON
	expected string
}

func runRenderTests(t *testing.T, tests []renderTest) {
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var sb strings.Builder
			data := gjson.Parse(test.data)
			if err := mustache.Render(test.tmpl, data, &sb, "", nil); err != nil {
				t.Fatalf("Render: %s", err)
			}
			if sb.String() != test.expected {
				t.Errorf("got %q, want %q", sb.String(), test.expected)
			}
		})
	}
}

func TestBasicFlat(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "basic flat",
			tmpl:     "A\n\n{{ foo }}\n\n{{bar}}\n\nB\n",
			data:     `{"foo":"one","bar":42}`,
			expected: "A\n\none\n\n42\n\nB\n",
		},
	})
}

func TestArrayIteration(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name: "array iteration",
			tmpl: `{{#items}}
    <li><a href="{{url}}">{{name}}</a></li>
{{/items}}`,
			data:     `{"items":[{"name":"red","url":"#Red"},{"name":"green","url":"#Green"},{"name":"blue","url":"#Blue"}]}`,
			expected: "    <li><a href=\"#Red\">red</a></li>\n    <li><a href=\"#Green\">green</a></li>\n    <li><a href=\"#Blue\">blue</a></li>\n",
		},
	})
}

func TestHTMLEscape(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "html escape",
			tmpl:     "These characters should be HTML escaped: {{forbidden}}\n",
			data:     `{"forbidden":"& \" < >"}`,
			expected: "These characters should be HTML escaped: &amp; &quot; &lt; &gt;\n",
		},
		{
			name:     "single quote is not escaped",
			tmpl:     "{{value}}",
			data:     `{"value":"it's"}`,
			expected: "it's",
		},
	})
}

func TestDelimiterChange(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "delimiter change",
			tmpl:     "{{=<% %>=}}(<%text%>)",
			data:     `{"text":"Hey!"}`,
			expected: "(Hey!)",
		},
		{
			name:     "after a delimiter change the old delimiters are plain text",
			tmpl:     "{{=<% %>=}}<%greeting%> {{literal}}",
			data:     `{"greeting":"hi","literal":"{{literal}}"}`,
			expected: "hi {{literal}}",
		},
	})
}

func TestStandaloneComment(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "standalone comment",
			tmpl:     "Begin.\n{{! Comment Block! }}\nEnd.\n",
			data:     `{}`,
			expected: "Begin.\nEnd.\n",
		},
	})
}

func TestInvertedSection(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "inverted section on falsey",
			tmpl:     `"{{^boolean}}This should be rendered.{{/boolean}}"`,
			data:     `{"boolean":false}`,
			expected: `"This should be rendered."`,
		},
		{
			name:     "inverted section on truthy is skipped",
			tmpl:     `"{{^boolean}}This should not be rendered.{{/boolean}}"`,
			data:     `{"boolean":true}`,
			expected: `""`,
		},
	})
}

func TestDottedNameArbitraryDepth(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "dotted name arbitrary depth",
			tmpl:     `"{{a.b.c.d.e.name}}" == "Phil"`,
			data:     `{"a":{"b":{"c":{"d":{"e":{"name":"Phil"}}}}}}`,
			expected: `"Phil" == "Phil"`,
		},
		{
			name:     "dotted name broken chain misses even if a shallower match exists",
			tmpl:     `[{{a.b.c}}]`,
			data:     `{"a":{"x":1},"a.b.c":"wrong"}`,
			expected: `[]`,
		},
	})
}

func TestPartialStandaloneIndentation(t *testing.T) {
	var sb strings.Builder
	data := gjson.Parse(`{"content":"<\n->"}`)
	loader := &mustache.StaticLoader{Partials: map[string]string{
		"partial7": "|\n{{{content}}}\n|\n",
	}}
	tmpl := "\\\n {{>partial7}}\n/\n"
	if err := mustache.Render(tmpl, data, &sb, "", loader); err != nil {
		t.Fatalf("Render: %s", err)
	}
	want := "\\\n |\n <\n->\n |\n/\n"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestNoTagsRoundTrip(t *testing.T) {
	tmpl := "plain text with no mustache tags at all\nsecond line\n"
	var sb strings.Builder
	if err := mustache.Render(tmpl, gjson.Parse(`{}`), &sb, "", nil); err != nil {
		t.Fatalf("Render: %s", err)
	}
	if sb.String() != tmpl {
		t.Errorf("got %q, want %q", sb.String(), tmpl)
	}
}

func TestEmptyDataSectionInvariant(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "truthy section on empty data is skipped",
			tmpl:     "[{{#missing}}body{{/missing}}]",
			data:     `{}`,
			expected: "[]",
		},
		{
			name:     "inverted section on empty data renders once",
			tmpl:     "[{{^missing}}body{{/missing}}]",
			data:     `{}`,
			expected: "[body]",
		},
		{
			name:     "interpolation on empty data is the empty string",
			tmpl:     "[{{missing}}]",
			data:     `{}`,
			expected: "[]",
		},
	})
}

func TestLiteralNameExtension(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "literal name interpolates a key starting with a sigil character",
			tmpl:     "{{:#weird}}",
			data:     `{"#weird":"<ok>"}`,
			expected: "&lt;ok&gt;",
		},
	})
}

func TestRawJSONExtension(t *testing.T) {
	runRenderTests(t, []renderTest{
		{
			name:     "raw JSON strips quotes from a string value",
			tmpl:     `{{$name}}`,
			data:     `{"name":"Phil"}`,
			expected: `Phil`,
		},
		{
			name:     "raw JSON escapes embedded quotes",
			tmpl:     `{{$name}}`,
			data:     `{"name":"say \"hi\""}`,
			expected: `say \"hi\"`,
		},
		{
			name:     "raw JSON on a value with an escaped slash in its source",
			tmpl:     `{{$path}}`,
			data:     `{"path":"a\/b"}`,
			expected: `a/b`,
		},
		{
			name:     "raw JSON passes a literal backslash through",
			tmpl:     `{{$path}}`,
			data:     `{"path":"C:\\Users"}`,
			expected: `C:\Users`,
		},
		{
			name:     "raw JSON on a non-string value emits its literal JSON text",
			tmpl:     `{{$count}}`,
			data:     `{"count":42}`,
			expected: `42`,
		},
		{
			name:     "raw JSON on an object emits its source JSON text",
			tmpl:     `{{$obj}}`,
			data:     `{"obj":{"a":1}}`,
			expected: `{"a":1}`,
		},
	})
}

func TestArbitraryNestingDepth(t *testing.T) {
	var tmpl strings.Builder
	for i := 0; i < 200; i++ {
		tmpl.WriteString("{{#list}}")
	}
	tmpl.WriteString("x")
	for i := 0; i < 200; i++ {
		tmpl.WriteString("{{/list}}")
	}

	data := gjson.Parse(buildNestedList(200))
	var sb strings.Builder
	if err := mustache.Render(tmpl.String(), data, &sb, "", nil); err != nil {
		t.Fatalf("Render: %s", err)
	}
	if sb.String() != "x" {
		t.Errorf("got %q, want %q", sb.String(), "x")
	}
}

func buildNestedList(depth int) string {
	js := "1"
	for i := 0; i < depth; i++ {
		js = `{"list":[` + js + `]}`
	}
	return js
}
