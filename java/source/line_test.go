package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineStripsCommentsAndWhitespace(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		comment bool
	}{
		{"   int x = 1;   ", "int x = 1;", false},
		{"int x = 1; // trailing", "int x = 1;", true},
		{"// only a comment", "", true},
		{`String s = "http://example"; // note`, `String s = "http://example";`, true},
		{`char c = '/'; int y;`, `char c = '/'; int y;`, false},
		{"int z; /* block */", "int z;", true},
		{"/* whole // line */", "/* whole // line */", false},
		{"\t\t", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLineFromString(tt.input, 1)
			assert.Equal(t, tt.want, l.String())
			assert.Equal(t, tt.comment, l.commented)
		})
	}
}

func TestCommentAndBlankLines(t *testing.T) {
	comment := NewLineFromString("   // hello", 3)
	assert.True(t, comment.IsComment())
	assert.False(t, comment.IsBlank())
	assert.Equal(t, "hello", comment.Comment())

	blank := NewLineFromString("    ", 4)
	assert.True(t, blank.IsBlank())
	assert.False(t, blank.IsComment())
}

func TestNewLineStripsModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
		mods  Modifiers
	}{
		{"public static final int X = 1;", "int X = 1;", Modifiers{ModifierPublic, ModifierStatic, ModifierFinal}},
		{"private class Inner {", "class Inner {", Modifiers{ModifierPrivate}},
		{"static {", "{", Modifiers{ModifierStatic}},
		{"public <T> T get() {", "<T> T get() {", Modifiers{ModifierPublic}},
		{"synchronized (lock) {", "synchronized (lock) {", nil},
		{"default:", "default:", nil},
		{"default -> x;", "default -> x;", nil},
		{"default void run() {", "void run() {", Modifiers{ModifierDefault}},
		{"public non-sealed class Leaf {", "class Leaf {", Modifiers{ModifierPublic, ModifierNonSealed}},
		{"finalValue = 3;", "finalValue = 3;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLineFromString(tt.input, 1)
			assert.Equal(t, tt.want, l.String())
			assert.Equal(t, tt.mods, l.Modifiers())
		})
	}
}

func TestStripModifiersIsIdempotent(t *testing.T) {
	inputs := []string{
		"public static void main(String[] args) {",
		"int x;",
		"protected abstract class Base<T> {",
		"synchronized (this) {",
	}
	for _, input := range inputs {
		l := NewLineFromString(input, 1)
		text, mods := l.String(), append(Modifiers(nil), l.Modifiers()...)
		l.StripModifiers()
		assert.Equal(t, text, l.String(), input)
		assert.Equal(t, mods, l.Modifiers(), input)
	}
}

func TestStripStartSequenceRoundTrip(t *testing.T) {
	l := NewLineFromString("class Foo extends Bar {", 1)
	require.True(t, l.StripStartSequence("class"))
	assert.False(t, l.StartsWithSequence("class"))
	assert.Equal(t, "Foo extends Bar {", l.String())

	before := l.String()
	assert.False(t, l.StripStartSequence("interface"))
	assert.Equal(t, before, l.String())
}

func TestStripEndSequence(t *testing.T) {
	l := NewLineFromString("x -> {", 1)
	require.True(t, l.StripEndSequence("{"))
	assert.Equal(t, "x ->", l.String())
	assert.False(t, l.StripEndSequence("{"))
	require.True(t, l.StripEndSequence("->"))
	assert.Equal(t, "x", l.String())
}

func TestEndsWithSequenceIsAnchored(t *testing.T) {
	l := NewLineFromString("foo(x -> { bar(); })", 1)
	assert.False(t, l.EndsWithSequence("-> {"))
	assert.Equal(t, 6, l.EndWindowOf("-> {"))
	assert.True(t, l.EndsWithSequence("})"))
	assert.Equal(t, -1, l.EndWindowOf("=>"))

	short := NewLineFromString("{", 1)
	assert.False(t, short.EndsWithSequence("-> {"))
	assert.Equal(t, -1, short.EndWindowOf("-> {"))
}

func TestPeekAndStripNextToken(t *testing.T) {
	l := NewLineFromString("List<String> names = new ArrayList<>();", 1)
	assert.Equal(t, "List", l.PeekNextToken())
	assert.Equal(t, "List", l.StripNextToken())
	assert.Equal(t, "<String> names = new ArrayList<>();", l.String())

	whole := NewLineFromString("identifier", 1)
	assert.Equal(t, "identifier", whole.StripNextToken())
	assert.True(t, whole.IsEmpty())

	call := NewLineFromString("foo.bar(1);", 1)
	assert.Equal(t, "foo.bar", call.PeekNextToken())
}

func TestFindEndOfNestedSequence(t *testing.T) {
	l := NewLineFromString(`if (a(b) && c(")")) {`, 1)
	open := 3
	assert.Equal(t, 18, l.FindEndOfNestedSequence(open, 0, ParenClose, ParenOpen))

	unfinished := NewLineFromString("foo(a, b,", 1)
	assert.Equal(t, -1, unfinished.FindEndOfNestedSequence(3, 0, ParenClose, ParenOpen))

	generic := NewLineFromString("Map<String, List<Integer>> m;", 1)
	assert.Equal(t, 25, generic.FindEndOfNestedSequence(3, 0, GenericClose, GenericOpen))
}

func TestFindEndOfQuotedSequence(t *testing.T) {
	l := NewLineFromString(`x = "a\"b" + 'c';`, 1)
	assert.Equal(t, 9, l.FindEndOfQuotedSequence(4))
	assert.Equal(t, 15, l.FindEndOfQuotedSequence(13))

	open := NewLineFromString(`"unterminated`, 1)
	assert.Equal(t, -1, open.FindEndOfQuotedSequence(0))
}

func TestFindTopLevel(t *testing.T) {
	l := NewLineFromString(`for (int i = 0; i < n; i++) { x = ";"; }`, 1)
	assert.Equal(t, -1, l.FindTopLevel(Semicolon))
	assert.Equal(t, 28, l.FindTopLevel(BraceOpen))

	stmt := NewLineFromString("foo(); bar();", 1)
	assert.Equal(t, 5, stmt.FindTopLevel(Semicolon))
}

func TestMarkReset(t *testing.T) {
	l := NewLineFromString("case A: stmt();", 1)
	l.Mark()
	l.StripNextToken()
	l.StripNextToken()
	assert.Equal(t, ": stmt();", l.String())
	l.Reset()
	assert.Equal(t, "case A: stmt();", l.String())
}

func TestSplitAtAndJoin(t *testing.T) {
	l := NewLineFromString("@Override public void run() {", 7)
	head, tail := l.SplitAt(9)
	assert.Equal(t, "@Override", head.String())
	assert.Equal(t, "void run() {", tail.String())
	assert.Equal(t, Modifiers{ModifierPublic}, tail.Modifiers())
	assert.Equal(t, 7, tail.Number())

	joined := Join([]*Line{
		NewLineFromString("void foo(int a,", 1),
		NewLineFromString("final String b) {", 2),
	})
	assert.Equal(t, "void foo(int a, final String b) {", joined.String())
	assert.Equal(t, 1, joined.Number())
}

func TestSplit(t *testing.T) {
	lines, err := Split([]byte("package a;\r\n\r\nclass B {}\n"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "package a;", lines[0].String())
	assert.True(t, lines[1].IsBlank())
	assert.Equal(t, 3, lines[2].Number())

	_, err = Split([]byte("class A {\x00}"))
	assert.True(t, errors.Is(err, ErrCorruptSource))
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t,
		[]string{"Map<String, Integer> m", "int[] a", `String s = "x,y"`},
		SplitTopLevel(`Map<String, Integer> m, int[] a, String s = "x,y"`, Comma, true))
	assert.Equal(t,
		[]string{"a < b", "c > d"},
		SplitTopLevel("a < b, c > d", Comma, false))
	assert.Equal(t,
		[]string{"(a, b) -> a", "c"},
		SplitTopLevel("(a, b) -> a, c", Comma, true))
}

func TestIsQualifiedIdentifier(t *testing.T) {
	assert.True(t, IsQualifiedIdentifier("java.util.List"))
	assert.True(t, IsQualifiedIdentifier("Foo"))
	assert.False(t, IsQualifiedIdentifier("java..List"))
	assert.False(t, IsQualifiedIdentifier("a.b*"))
}
