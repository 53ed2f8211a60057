package parser

import (
	"errors"
	"slices"
	"testing"

	"github.com/dhamidi/themis/java/datamap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseFile([]byte(src), WithFile("Test.java"))
	require.NoError(t, err)
	require.NoError(t, PostProcess(f))
	return f
}

func collect[T Element](root Element) []T {
	var out []T
	Walk(root, func(e Element) bool {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}

const greeter = `package com.example;

import java.util.List;

/**
 * Says hello.
 */
public class Greeter extends Base implements Runnable {
    private final List<String> names = new ArrayList<>();

    public Greeter(String first) {
        names.add(first);
    }

    @Override
    public void run() {
        for (String n : names) {
            System.out.println(n);
        }
    }
}
`

func TestParseClassStructure(t *testing.T) {
	f, err := ParseFile([]byte(greeter), WithFile("Greeter.java"))
	require.NoError(t, err)

	assert.Equal(t, "com.example", f.Package)
	require.Len(t, f.Imports, 1)
	assert.Equal(t, "java.util.List", f.Imports[0].Name)
	assert.Equal(t, 21, f.Lines)

	classes := f.Classes()
	require.Len(t, classes, 1)
	c := classes[0]
	assert.Equal(t, KindClass, c.Kind())
	assert.Equal(t, "Greeter", c.Name())
	assert.Equal(t, "com.example.Greeter", c.FullName())
	assert.True(t, c.IsTopLevel())
	assert.Equal(t, Span{First: 8, Last: 21}, c.Span())
	require.Len(t, c.Extends, 1)
	assert.Equal(t, "Base", c.Extends[0].Name)
	require.Len(t, c.Implements, 1)
	assert.Equal(t, "Runnable", c.Implements[0].Name)

	fields := c.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"names"}, fields[0].Names)
	assert.Equal(t, "List", fields[0].Type.Name)
	assert.Equal(t, "new ArrayList<>()", fields[0].Initializer)

	methods := c.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, KindConstructor, methods[0].Kind())
	assert.Equal(t, "Greeter", methods[0].Name)
	require.Len(t, methods[0].Parameters, 1)
	assert.Equal(t, []string{"first"}, methods[0].Parameters[0].Names)

	run := methods[1]
	assert.Equal(t, KindMethod, run.Kind())
	assert.Equal(t, "run", run.Name)
	assert.Equal(t, "void", run.Returns.Name)
	assert.Equal(t, Span{First: 16, Last: 20}, run.Span())
	assert.True(t, run.IsDeferred())
	assert.Empty(t, run.Contents())

	require.NoError(t, PostProcess(f))
	assert.False(t, run.IsDeferred())
	require.Len(t, run.Contents(), 1)
	loop, ok := run.Contents()[0].(*For)
	require.True(t, ok)
	assert.True(t, loop.Enhanced)
	require.Len(t, loop.Variables, 1)
	assert.Equal(t, []string{"n"}, loop.Variables[0].Names)
	assert.Equal(t, "String", loop.Variables[0].Type.Name)
}

func TestElseChain(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        if (a) {
            x();
        } else if (b) {
            y();
        } else {
            z();
        }
    }
}
`)
	ifs := collect[*If](f)
	require.Len(t, ifs, 1)
	assert.Equal(t, []string{"a", "b", ""}, slices.Collect(ifs[0].Conditions()))

	elses := collect[*Else](f)
	require.Len(t, elses, 2)
	assert.False(t, elses[0].NullParameters())
	assert.True(t, elses[1].NullParameters())
	assert.Len(t, elses[1].Contents(), 1)
}

func TestSwitchAbsorbsLabels(t *testing.T) {
	f := parse(t, `class S {
    void f(int x) {
        switch (x) {
            case 1:
            case 2:
                a();
                break;
            case 3: b(); break;
            default:
                c();
        }
    }
}
`)
	switches := collect[*Switch](f)
	require.Len(t, switches, 1)
	assert.Equal(t, "x", switches[0].Selector)

	cases := switches[0].Cases()
	require.Len(t, cases, 3)
	assert.Equal(t, []string{"1", "2"}, cases[0].Labels)
	assert.Len(t, cases[0].Contents(), 2)
	assert.Equal(t, []string{"3"}, cases[1].Labels)
	assert.Len(t, cases[1].Contents(), 2)
	assert.True(t, cases[2].Default)
	assert.Empty(t, cases[2].Labels)
	assert.Len(t, cases[2].Contents(), 1)
}

func TestArrowSwitch(t *testing.T) {
	f := parse(t, `class S {
    void f(int x) {
        switch (x) {
            case 1, 2 -> a();
            case 3 -> {
                b();
            }
            default -> c();
        }
    }
}
`)
	cases := collect[*Case](f)
	require.Len(t, cases, 3)
	assert.Equal(t, []string{"1", "2"}, cases[0].Labels)
	assert.True(t, cases[0].Arrow)
	assert.Len(t, cases[1].Contents(), 1)
	assert.True(t, cases[2].Default)
}

func TestAnonymousClassesAreNumbered(t *testing.T) {
	reg := datamap.NewRegistry()
	f, err := ParseFile([]byte(`package p;

class Outer {
    Runnable r = new Runnable() {
        public void run() {
        }
    };
    Runnable q = new Runnable() {
        public void run() {
        }
    };
}
`), WithFile("Outer.java"), WithRegistry(reg))
	require.NoError(t, err)

	var anon []*Class
	for _, c := range collect[*Class](f) {
		if c.Kind() == KindAnonymousClass {
			anon = append(anon, c)
		}
	}
	require.Len(t, anon, 2)
	assert.Equal(t, "p.Outer$1", anon[0].FullName())
	assert.Equal(t, "p.Outer$2", anon[1].FullName())
	for _, c := range anon {
		require.Len(t, c.Ancestors(), 1)
		assert.Equal(t, "Runnable", c.Ancestors()[0].Name)
		assert.False(t, c.IsTopLevel())
		_, ok := reg.LookupFull(c.FullName())
		assert.True(t, ok)
	}

	fields := f.Classes()[0].Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, []string{"r"}, fields[0].Names)
	require.NotNil(t, fields[0].Embedded)
	assert.Equal(t, "Runnable r =", fields[0].Embedded.Head)
	assert.Equal(t, ";", fields[0].Embedded.Trailer)
	assert.Empty(t, f.Classes()[0].Members())
}

func TestLocalAndAnonymousNamesInBodies(t *testing.T) {
	f := parse(t, `class Outer {
    void f() {
        class Helper {
        }
        Runnable r = new Runnable() {
            public void run() {
            }
        };
    }
}
`)
	names := map[Kind][]string{}
	for _, c := range collect[*Class](f) {
		names[c.Kind()] = append(names[c.Kind()], c.FullName())
	}
	assert.Equal(t, []string{"Outer$1Helper"}, names[KindLocalClass])
	assert.Equal(t, []string{"Outer$1"}, names[KindAnonymousClass])

	fields := collect[*Field](f)
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"r"}, fields[0].Names)
	assert.NotNil(t, fields[0].Embedded)
}

func TestEnumConstants(t *testing.T) {
	f := parse(t, `enum Color {
    RED("r"),
    GREEN("g") {
        String code() { return "G"; }
    },
    BLUE;

    private final String code;

    Color(String code) {
        this.code = code;
    }
}
`)
	enum := f.Classes()[0]
	assert.Equal(t, KindEnum, enum.Kind())
	require.Len(t, enum.Constants, 3)
	assert.Equal(t, "RED", enum.Constants[0].Name)
	assert.Equal(t, `"r"`, enum.Constants[0].Arguments)
	assert.Equal(t, "BLUE", enum.Constants[2].Name)

	body := enum.Constants[1].Body
	require.NotNil(t, body)
	assert.Equal(t, "Color$1", body.FullName())
	assert.Equal(t, "Color", body.Extends[0].Name)
	require.Len(t, body.Methods(), 1)
	assert.Len(t, body.Methods()[0].Contents(), 1)

	assert.Len(t, enum.Fields(), 1)
	require.Len(t, enum.Methods(), 1)
	assert.Equal(t, KindConstructor, enum.Methods()[0].Kind())
}

func TestRecordDeclaration(t *testing.T) {
	f := parse(t, `record Point<T extends Number>(T x, T y) implements Shape {
    Point {
        check(x);
    }
}
`)
	r := f.Classes()[0]
	assert.Equal(t, KindRecord, r.Kind())
	require.Len(t, r.Generics, 1)
	assert.Equal(t, "T", r.Generics[0].Name())
	require.Len(t, r.Components, 2)
	assert.Equal(t, "T", r.Components[1].Type.Name)
	assert.Equal(t, datamap.KindGeneric, r.Components[1].Type.Type.TypeKind())
	require.Len(t, r.Methods(), 1)
	assert.Equal(t, KindConstructor, r.Methods()[0].Kind())
	assert.Equal(t, "Point", r.Methods()[0].Name)
}

func TestTryCatchFinally(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        try (var in = open(); Reader r = wrap(in)) {
            read(in);
        } catch (IOException | RuntimeException e) {
            log(e);
        } finally {
            close();
        }
    }
}
`)
	tries := collect[*Try](f)
	require.Len(t, tries, 1)
	try := tries[0]
	require.Len(t, try.Resources, 2)
	assert.Equal(t, []string{"in"}, try.Resources[0].Names)
	assert.Equal(t, []string{"r"}, try.Resources[1].Names)
	require.Len(t, try.Catches, 1)
	assert.Equal(t, "e", try.Catches[0].Name)
	require.Len(t, try.Catches[0].Types, 2)
	assert.Equal(t, "IOException", try.Catches[0].Types[0].Name)
	assert.Equal(t, "RuntimeException", try.Catches[0].Types[1].Name)
	require.NotNil(t, try.Finally)
	assert.Len(t, try.Finally.Contents(), 1)
}

func TestStatementsOnOneLineAreSplit(t *testing.T) {
	f := parse(t, `class A {
    int f() {
        a(); b();
        return 1;
    }
}
`)
	stmts := collect[*Statement](f)
	require.Len(t, stmts, 3)
	assert.Equal(t, "a();", stmts[0].Text)
	assert.Equal(t, "b();", stmts[1].Text)
	assert.Equal(t, KeywordReturn, stmts[2].Keyword)
	assert.Equal(t, 3, stmts[1].Span().First)
}

func TestDoWhile(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        do {
            x();
        } while (more());
    }
}
`)
	loops := collect[*DoWhile](f)
	require.Len(t, loops, 1)
	assert.Equal(t, "more()", loops[0].Condition)
	assert.Equal(t, Span{First: 3, Last: 5}, loops[0].Span())
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{
			name: "unbalanced class body",
			src:  "class A {\n    void f() {\n}\n",
			want: ErrUnbalanced,
			line: 1,
		},
		{
			name: "unrecognised top level",
			src:  "package p;\nfoo bar;\n",
			want: ErrUnrecognised,
			line: 2,
		},
		{
			name: "malformed do-while",
			src:  "class A {\n    void f() {\n        do {\n            x();\n        }\n    }\n}\n",
			want: ErrMalformedDoWhile,
			line: 3,
		},
		{
			name: "embedded followed by a statement",
			src:  "class A {\n    void f() {\n        exec.submit(() -> {\n            go();\n        })\n        g();\n    }\n}\n",
			want: ErrInvalidEmbedded,
			line: 3,
		},
		{
			name: "embedded without terminator",
			src:  "class A {\n    void f() {\n        run(() -> {\n            x();\n        })\n    }\n}\n",
			want: ErrInvalidEmbedded,
			line: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFile([]byte(tt.src), WithFile("A.java"))
			if err == nil {
				err = PostProcess(f)
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, "A.java", pe.File)
		})
	}
}

func TestMultiStatementConditionIsAProblem(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        while (i++, j) {
        }
    }
}
`)
	require.Len(t, f.Problems, 1)
	var ms *MultiStatementError
	require.True(t, errors.As(f.Problems[0], &ms))
	assert.Equal(t, KindWhile, ms.Construct)
	assert.Equal(t, 3, ms.Line)
	assert.Len(t, collect[*While](f), 1)
}

func TestDuplicateTopLevelClass(t *testing.T) {
	reg := datamap.NewRegistry()
	_, err := ParseFile([]byte("package a;\npublic class Dup {\n}\n"), WithFile("a/Dup.java"), WithRegistry(reg))
	require.NoError(t, err)
	_, err = ParseFile([]byte("package b;\npublic class Dup {\n}\n"), WithFile("b/Dup.java"), WithRegistry(reg))
	var dup *datamap.DuplicateClassError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a.Dup", dup.Existing)
	assert.Equal(t, "b.Dup", dup.Conflict)
}

func TestLabeledLoop(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        outer:
        for (int i = 0, j = 1; i < n; i++) {
            continue outer;
        }
    }
}
`)
	labels := collect[*Labeled](f)
	require.Len(t, labels, 1)
	assert.Equal(t, "outer", labels[0].Label)
	loops := collect[*For](f)
	require.Len(t, loops, 1)
	assert.False(t, loops[0].Enhanced)
	require.Len(t, loops[0].Variables, 1)
	assert.Equal(t, []string{"i", "j"}, loops[0].Variables[0].Names)
}

func TestInlineMethodBody(t *testing.T) {
	f := parse(t, `interface Shape {
    double area();
    default String label() { return "shape"; }
}
`)
	methods := f.Classes()[0].Methods()
	require.Len(t, methods, 2)
	assert.False(t, methods[0].HasBody)
	assert.True(t, methods[1].HasBody)
	assert.Equal(t, Span{First: 3, Last: 3}, methods[1].Span())
	stmts := collect[*Statement](methods[1])
	require.Len(t, stmts, 1)
	assert.Equal(t, KeywordReturn, stmts[0].Keyword)
}

func TestAnonymousClassAsArgument(t *testing.T) {
	f := parse(t, `class S {
    void f(Executor exec) {
        exec.submit(new Runnable() {
            public void run() {
            }
        });
        exec.submit(new Runnable() {
            public void run() {
            }
        });
    }
}
`)
	var anon []*Class
	for _, c := range collect[*Class](f) {
		if c.Kind() == KindAnonymousClass {
			anon = append(anon, c)
		}
	}
	require.Len(t, anon, 2)
	assert.Equal(t, "S$1", anon[0].FullName())
	assert.Equal(t, "S$2", anon[1].FullName())
	for _, c := range anon {
		require.Len(t, c.Ancestors(), 1)
		assert.Equal(t, "Runnable", c.Ancestors()[0].Name)
		assert.Equal(t, KindEmbedded, c.Parent().Kind())
	}

	embedded := collect[*Embedded](f)
	require.Len(t, embedded, 2)
	assert.Equal(t, "exec.submit(", embedded[0].Head)
	assert.Equal(t, ");", embedded[0].Trailer)
}

func TestEmbeddedTrailerContinuesOnLaterLines(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        long n = list.stream().filter(x -> {
            return x.ok();
        })
            .count();
        g();
    }
}
`)
	fields := collect[*Field](f)
	require.Len(t, fields, 1)
	assert.Equal(t, []string{"n"}, fields[0].Names)
	require.NotNil(t, fields[0].Embedded)
	assert.Equal(t, ") .count();", fields[0].Embedded.Trailer)

	var texts []string
	for _, s := range collect[*Statement](f) {
		texts = append(texts, s.Text)
	}
	assert.Contains(t, texts, "g();")
}

func TestCommentsBeforeContinuations(t *testing.T) {
	f := parse(t, `class A {
    void f() {
        if (a) {
            x();
        }
        // otherwise
        else {
            y();
        }
        try {
            z();
        }

        catch (Exception e) {
        }
        // cleanup
        finally {
        }
        if (b) {
        }
        // not an else
        w();
    }
}
`)
	ifs := collect[*If](f)
	require.Len(t, ifs, 2)
	require.NotNil(t, ifs[0].Else)
	assert.Nil(t, ifs[1].Else)

	tries := collect[*Try](f)
	require.Len(t, tries, 1)
	assert.Len(t, tries[0].Catches, 1)
	assert.NotNil(t, tries[0].Finally)

	var texts []string
	for _, s := range collect[*Statement](f) {
		texts = append(texts, s.Text)
	}
	assert.Contains(t, texts, "w();")
	assert.NotEmpty(t, collect[*Comment](f))
}

func TestCastTargets(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "(CastOnly) field", want: []string{"CastOnly"}},
		{in: "((List<String>) raw).size()", want: []string{"List<String>"}},
		{in: "return (java.util.Map) m", want: []string{"java.util.Map"}},
		{in: "(String[]) values", want: []string{"String[]"}},
		{in: "ok ? (Left) a : (Right) b", want: []string{"Left", "Right"}},
		{in: "(a + b) * c"},
		{in: "(int) x"},
		{in: "call(arg) + other"},
		{in: "(x) -> x"},
		{in: "(o) instanceof Foo"},
		{in: `"(Quoted) s" + t`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, castTargets(tt.in))
		})
	}
}

func TestCastsBecomeReferences(t *testing.T) {
	f := parse(t, `class A {
    Object f(Object field) {
        Object o = (CastOnly) field;
        if (((Checked) o).ok()) {
        }
        return (Other) o;
    }
}
`)
	fields := collect[*Field](f)
	require.Len(t, fields, 1)
	require.Len(t, fields[0].Casts, 1)
	assert.Equal(t, "CastOnly", fields[0].Casts[0].Name)
	assert.Equal(t, 3, fields[0].Casts[0].Line)

	var ret *Statement
	for _, s := range collect[*Statement](f) {
		if s.Keyword == KeywordReturn {
			ret = s
		}
	}
	require.NotNil(t, ret)
	require.Len(t, ret.Casts, 1)
	assert.Equal(t, "Other", ret.Casts[0].Name)

	var names []string
	for _, ref := range f.FileScope().References() {
		names = append(names, ref.Name)
	}
	assert.Subset(t, names, []string{"CastOnly", "Checked", "Other"})
}
