package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/dhamidi/themis/java/parser"
	"github.com/dhamidi/themis/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeterSource = `package demo;

public class Greeter extends Base {
    private String name;

    public void greet(String who) {
        if (who == null) {
            return;
        }
    }
}
`

func parseGreeter(t *testing.T, post bool) *parser.File {
	t.Helper()
	f, err := parser.ParseFile([]byte(greeterSource), parser.WithFile("Greeter.java"))
	require.NoError(t, err)
	if post {
		require.NoError(t, parser.PostProcess(f))
	}
	return f
}

func TestTreeLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeLineEncoder(&buf).Encode(parseGreeter(t, false)))
	out := buf.String()

	assert.Contains(t, out, "File 1-11 Greeter.java\n")
	assert.Contains(t, out, "  Package 1-1 demo\n")
	assert.Contains(t, out, "  Class 3-11 [public] demo.Greeter extends Base\n")
	assert.Contains(t, out, "    Field 4-4 [private] String name\n")
	assert.Contains(t, out, "    Method 6-10 [public] greet(String who) (deferred)\n")

	buf.Reset()
	require.NoError(t, NewTreeLineEncoder(&buf).Encode(parseGreeter(t, true)))
	assert.Contains(t, buf.String(), "    Method 6-10 [public] greet(String who)\n")
	assert.Contains(t, buf.String(), "      If 7-9 who == null\n")
}

func TestTreeJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeJSONEncoder(&buf).Encode(parseGreeter(t, true)))

	var root treeJSONNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &root))
	assert.Equal(t, "File", root.Kind)
	assert.Equal(t, &treeJSONSpan{First: 1, Last: 11}, root.Span)

	var class *treeJSONNode
	for _, c := range root.Children {
		if c.Kind == "Class" {
			class = c
		}
	}
	require.NotNil(t, class)
	assert.Equal(t, "demo.Greeter", class.Name)
	assert.Equal(t, []string{"public"}, class.Modifiers)
	require.Len(t, class.Types, 1)
	assert.Equal(t, treeJSONType{Role: "extends", Name: "Base", Binding: "Unknown"}, class.Types[0])
}

func TestNewTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewTreeEncoder("json", &buf)
	require.NoError(t, err)
	assert.IsType(t, &TreeJSONEncoder{}, enc)

	_, err = NewTreeEncoder("yaml", &buf)
	assert.Error(t, err)
	_, err = NewReportEncoder("yaml", &buf)
	assert.Error(t, err)
}

func testReport() *project.Report {
	return &project.Report{
		Root:    "/src",
		Files:   2,
		Classes: 3,
		Lines:   40,
		Diagnostics: []project.Diagnostic{
			{File: "A.java", Line: 4, Message: "unbalanced braces", Fatal: true},
		},
		Unresolved: []datamap.Unresolved{
			{Name: "Widget", Sites: []datamap.Site{{File: "B.java", Line: 7}, {File: "B.java", Line: 9}}},
		},
	}
}

func TestReportLineEncoder(t *testing.T) {
	text, err := NewReportLineEncoder(nil).MarshalText(testReport())
	require.NoError(t, err)
	assert.Equal(t, "summary\t2\t3\t40\t1\n"+
		"diagnostic\tA.java:4\tfatal\tunbalanced braces\n"+
		"unresolved\tWidget\tB.java:7\n"+
		"unresolved\tWidget\tB.java:9\n", string(text))
}

func TestReportJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportJSONEncoder(&buf).Encode(testReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/src", decoded["root"])
	assert.Equal(t, 3.0, decoded["classes"])
	unresolved := decoded["unresolved"].([]any)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "Widget", unresolved[0].(map[string]any)["name"])
	assert.NotContains(t, decoded, "Parsed")
}
