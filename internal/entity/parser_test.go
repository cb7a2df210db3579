package entity_test

import (
	"testing"

	"doclens/internal/entity"
	"doclens/internal/grammar"
	"doclens/internal/scanner"
	"doclens/internal/source"
)

func parseText(t *testing.T, lang, name, input string) *entity.Entity {
	t.Helper()
	reg := grammar.NewRegistry()
	gram, ok := reg.ByName(lang)
	if !ok {
		t.Fatalf("no grammar for %s", lang)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(input))
	file := fs.Get(id)
	toks := scanner.New(file, gram, scanner.Options{}).Scan()
	root := entity.Parse(file, toks, gram)
	checkTree(t, root)
	return root
}

// checkTree проверяет инварианты дерева: ребёнок внутри родителя,
// соседи упорядочены и не пересекаются.
func checkTree(t *testing.T, root *entity.Entity) {
	t.Helper()
	root.Walk(func(e *entity.Entity) bool {
		var prevEnd uint32
		for _, child := range e.Children {
			if !e.Span.Contains(child.Span) {
				t.Errorf("%s %q: child %s %q span %v escapes parent span %v",
					e.Kind, e.Name, child.Kind, child.Name, child.Span, e.Span)
			}
			if child.Span.Start < prevEnd {
				t.Errorf("%s %q: child %q overlaps previous sibling", e.Kind, e.Name, child.Name)
			}
			prevEnd = child.Span.End
		}
		return true
	})
}

func child(t *testing.T, e *entity.Entity, name string) *entity.Entity {
	t.Helper()
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("%s %q has no child named %q (children: %v)", e.Kind, e.Name, name, childNames(e))
	return nil
}

func childNames(e *entity.Entity) []string {
	out := make([]string, 0, len(e.Children))
	for _, c := range e.Children {
		out = append(out, c.Name)
	}
	return out
}

func expectKind(t *testing.T, e *entity.Entity, want entity.Kind) {
	t.Helper()
	if e.Kind != want {
		t.Errorf("%q: kind = %s, want %s", e.Name, e.Kind, want)
	}
}

func TestParseRustDecls(t *testing.T) {
	src := `/// A user.
pub struct User {
    pub name: String,
    age: u32,
}

impl User {
    pub fn new(name: String) -> Self {
        User { name, age: 0 }
    }

    pub fn validate(&self) -> bool {
        !self.name.is_empty()
    }
}

pub const MAX_RETRIES: u32 = 3;

mod tests {
    #[test]
    fn check_validate() {
        assert!(true);
    }
}
`
	root := parseText(t, "rust", "user.rs", src)
	expectKind(t, root, entity.Module)
	if root.Name != "user" {
		t.Errorf("root name = %q, want %q", root.Name, "user")
	}
	if root.Span.Start != 0 || root.Span.End != uint32(len(src)) {
		t.Errorf("root span %v does not cover the file", root.Span)
	}
	if len(root.Children) != 4 {
		t.Fatalf("top-level children = %v, want 4", childNames(root))
	}

	user := child(t, root, "User")
	expectKind(t, user, entity.Struct)
	expectKind(t, child(t, user, "name"), entity.Field)
	expectKind(t, child(t, user, "age"), entity.Field)

	impl := root.Children[1]
	expectKind(t, impl, entity.Impl)
	if impl.Name != "User" {
		t.Errorf("impl name = %q, want %q", impl.Name, "User")
	}
	expectKind(t, child(t, impl, "new"), entity.Function)
	expectKind(t, child(t, impl, "validate"), entity.Function)

	expectKind(t, child(t, root, "MAX_RETRIES"), entity.Const)

	mod := child(t, root, "tests")
	expectKind(t, mod, entity.Unknown)
	expectKind(t, child(t, mod, "check_validate"), entity.Test)
}

func TestParseGoDecls(t *testing.T) {
	src := `package mathx

const MaxRetries = 3

type Point struct {
	X int
	Y int
}

type Reader interface {
	Read(p []byte) (n int, err error)
}

func Add(a, b int) int {
	return a + b
}

func (p *Point) Norm() int {
	return p.X * p.X
}

func TestAdd(t *testing.T) {
	_ = Add(1, 2)
}
`
	root := parseText(t, "go", "mathx.go", src)

	expectKind(t, child(t, root, "MaxRetries"), entity.Const)

	point := child(t, root, "Point")
	expectKind(t, point, entity.Struct)
	expectKind(t, child(t, point, "X"), entity.Field)
	expectKind(t, child(t, point, "Y"), entity.Field)

	reader := child(t, root, "Reader")
	expectKind(t, reader, entity.Trait)
	expectKind(t, child(t, reader, "Read"), entity.Function)

	expectKind(t, child(t, root, "Add"), entity.Function)
	expectKind(t, child(t, root, "Norm"), entity.Function)
	expectKind(t, child(t, root, "TestAdd"), entity.Test)
}

func TestParseGoSignature(t *testing.T) {
	root := parseText(t, "go", "sig.go", "func (p *Point) Norm() int {\n\treturn 0\n}\n")
	norm := child(t, root, "Norm")
	if norm.Signature != "func (p *Point) Norm() int" {
		t.Errorf("signature = %q", norm.Signature)
	}
}

func TestParsePythonIndent(t *testing.T) {
	src := `import os

class Calculator:
    """Simple accumulator."""

    def __init__(self):
        self.result = 0

    def add(self, value):
        self.result += value
        return self

def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)

def test_fib():
    assert fib(10) == 55
`
	root := parseText(t, "python", "calc.py", src)
	if len(root.Children) != 3 {
		t.Fatalf("top-level children = %v, want 3", childNames(root))
	}

	calc := child(t, root, "Calculator")
	expectKind(t, calc, entity.Struct)
	init := child(t, calc, "__init__")
	expectKind(t, init, entity.Function)
	add := child(t, calc, "add")
	expectKind(t, add, entity.Function)

	fib := child(t, root, "fib")
	expectKind(t, fib, entity.Function)
	if fib.Span.Start < calc.Span.End {
		t.Errorf("fib starts at %d inside Calculator (ends %d)", fib.Span.Start, calc.Span.End)
	}
	if fib.Signature != "def fib(n)" {
		t.Errorf("fib signature = %q", fib.Signature)
	}

	expectKind(t, child(t, root, "test_fib"), entity.Test)
}

func TestParseJavaMembers(t *testing.T) {
	src := `public class User {
    private String name;

    /** Makes a user. */
    public User(String name) {
        this.name = name;
    }

    public boolean validate() {
        return !name.isEmpty();
    }

    @Test
    public void validatesEmpty() {
        assert validate();
    }
}
`
	root := parseText(t, "java", "User.java", src)
	user := child(t, root, "User")
	expectKind(t, user, entity.Struct)

	expectKind(t, child(t, user, "name"), entity.Field)
	expectKind(t, child(t, user, "User"), entity.Function)
	expectKind(t, child(t, user, "validate"), entity.Function)
	expectKind(t, child(t, user, "validatesEmpty"), entity.Test)
}

func TestParseCKeywordless(t *testing.T) {
	src := `static int counter = 0;

int add(int a, int b) {
    return a + b;
}

void reset(void);
`
	root := parseText(t, "c", "ops.c", src)

	counter := child(t, root, "counter")
	expectKind(t, counter, entity.Unknown)

	add := child(t, root, "add")
	expectKind(t, add, entity.Function)
	if add.Signature != "int add(int a, int b)" {
		t.Errorf("add signature = %q", add.Signature)
	}

	reset := child(t, root, "reset")
	expectKind(t, reset, entity.Function)
	if got := src[reset.Span.Start:reset.Span.End]; got != "void reset(void);" {
		t.Errorf("prototype span = %q", got)
	}
}

func TestParseImplForNamesType(t *testing.T) {
	src := `impl Display for User {
    fn fmt(&self) -> String {
        String::new()
    }
}
`
	root := parseText(t, "rust", "fmt.rs", src)
	impl := child(t, root, "User")
	expectKind(t, impl, entity.Impl)
	expectKind(t, child(t, impl, "fmt"), entity.Function)
}

func TestParseLiteralsNeverConfuse(t *testing.T) {
	// фигурные скобки и ключевые слова внутри строк не влияют на границы
	src := "func Greet() string {\n\treturn \"} func Fake() {\"\n}\n\nfunc Next() {}\n"
	root := parseText(t, "go", "greet.go", src)
	if len(root.Children) != 2 {
		t.Fatalf("children = %v, want Greet and Next", childNames(root))
	}
	greet := child(t, root, "Greet")
	if got := src[greet.Span.Start:greet.Span.End]; got[len(got)-1] != '}' {
		t.Errorf("Greet span %q does not end at its closing brace", got)
	}
	child(t, root, "Next")
}

func TestParseUnterminatedBodyExtendsToEOF(t *testing.T) {
	src := "pub fn broken() {\n    let x = 1;\n"
	root := parseText(t, "rust", "broken.rs", src)
	broken := child(t, root, "broken")
	if broken.Span.End != uint32(len(src)) {
		t.Errorf("unterminated body ends at %d, want %d", broken.Span.End, len(src))
	}
}

func TestEnclosingFindsDeepest(t *testing.T) {
	src := `pub struct User {
    pub name: String,
}
`
	root := parseText(t, "rust", "user.rs", src)
	name := child(t, child(t, root, "User"), "name")
	got := root.Enclosing(name.Span)
	if got != name {
		t.Errorf("Enclosing(%v) = %s %q, want the field itself", name.Span, got.Kind, got.Name)
	}
}
