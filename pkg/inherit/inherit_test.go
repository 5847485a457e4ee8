package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
	"github.com/gnana997/semindex/pkg/project"
)

func indexInto(t *testing.T, proj *project.Index, path location.FilePath, language string, source string) *index.SingleFileIndex {
	t.Helper()
	pm := parser.NewParserManager(nil)
	qm := queries.NewQueryManager(pm, nil)
	fi, err := fileindexer.IndexFile(pm, qm, string(path), []byte(source))
	require.NoError(t, err)
	require.Equal(t, language, fi.Language)
	proj.UpdateFile(path, fi)
	return fi
}

func methodId(t *testing.T, fi *index.SingleFileIndex, className, methodName string) location.SymbolId {
	t.Helper()
	for _, c := range fi.Classes {
		if string(c.Name) != className {
			continue
		}
		for _, m := range c.Methods {
			if string(m.Name) == methodName {
				return m.SymbolId
			}
		}
	}
	for _, i := range fi.Interfaces {
		if string(i.Name) != className {
			continue
		}
		for _, m := range i.Methods {
			if string(m.Name) == methodName {
				return m.SymbolId
			}
		}
	}
	t.Fatalf("no method %s.%s found", className, methodName)
	return ""
}

func TestRun_TSClassOverride(t *testing.T) {
	proj := project.New("/repo", project.DefaultConfig(), nil)
	fi := indexInto(t, proj, "animal.ts", "typescript", `
class Animal { speak() {} }
class Dog extends Animal { speak() {} }
`)

	tr := Run(proj)

	dogSpeak := methodId(t, fi, "Dog", "speak")
	animalSpeak := methodId(t, fi, "Animal", "speak")

	base, ok := tr.FindOverriddenMethod(dogSpeak)
	require.True(t, ok)
	assert.Equal(t, animalSpeak, base)
	assert.Contains(t, tr.FindOverridingMethods(animalSpeak), dogSpeak)
}

func TestRun_OverrideChainMonotonicity(t *testing.T) {
	proj := project.New("/repo", project.DefaultConfig(), nil)
	fi := indexInto(t, proj, "chain.ts", "typescript", `
class A { m() {} }
class B extends A { m() {} }
class C extends B { m() {} }
`)

	tr := Run(proj)

	aM := methodId(t, fi, "A", "m")
	bM := methodId(t, fi, "B", "m")
	cM := methodId(t, fi, "C", "m")

	assert.Equal(t, []location.SymbolId{aM, bM, cM}, tr.GetOverrideChain(cM))
}

func TestRun_RustTraitImpl(t *testing.T) {
	proj := project.New("/repo", project.DefaultConfig(), nil)
	fi := indexInto(t, proj, "display.rs", "rust", `
trait Display {
    fn fmt(&self) -> String;
}
struct P {}
impl Display for P {
    fn fmt(&self) -> String { String::new() }
}
`)

	tr := Run(proj)

	pFmt := methodId(t, fi, "P", "fmt")
	displayFmt := methodId(t, fi, "Display", "fmt")

	base, ok := tr.FindOverriddenMethod(pFmt)
	require.True(t, ok)
	assert.Equal(t, displayFmt, base)
}

func TestRun_PythonSkipsMagicMethodsExceptInit(t *testing.T) {
	proj := project.New("/repo", project.DefaultConfig(), nil)
	fi := indexInto(t, proj, "animals.py", "python", `
class Base:
    def __init__(self):
        pass
    def __str__(self):
        return ""
    def greet(self):
        return "hi"

class Child(Base):
    def __init__(self):
        pass
    def __str__(self):
        return ""
    def greet(self):
        return "hi"
`)

	tr := Run(proj)

	childInit := methodId(t, fi, "Child", "__init__")
	childGreet := methodId(t, fi, "Child", "greet")
	childStr := methodId(t, fi, "Child", "__str__")

	_, initOverridden := tr.FindOverriddenMethod(childInit)
	_, greetOverridden := tr.FindOverriddenMethod(childGreet)
	_, strOverridden := tr.FindOverriddenMethod(childStr)

	assert.True(t, initOverridden)
	assert.True(t, greetOverridden)
	assert.False(t, strOverridden)
}

func TestRun_TSImplementsDoesNotCreateOverrideEdge(t *testing.T) {
	proj := project.New("/repo", project.DefaultConfig(), nil)
	fi := indexInto(t, proj, "shape.ts", "typescript", `
interface Shape { area(): number; }
class Circle implements Shape { area() { return 0; } }
`)

	tr := Run(proj)

	circleArea := methodId(t, fi, "Circle", "area")
	_, ok := tr.FindOverriddenMethod(circleArea)
	assert.False(t, ok)
}
