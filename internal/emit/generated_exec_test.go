package emit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compatgen/internal/browser"
	"compatgen/internal/targets"
)

// targetCases covers both sides of every interval and minimum in
// fixtureInput.
func targetCases() []targets.Browsers {
	b := func(pairs ...string) targets.Browsers {
		out := targets.Browsers{}
		for i := 0; i < len(pairs); i += 2 {
			out[browser.Browser(pairs[i])] = v(pairs[i+1])
		}
		return out
	}
	return []targets.Browsers{
		b(),
		b("chrome", "3"),
		b("chrome", "4"),
		b("chrome", "20"),
		b("chrome", "21"),
		b("chrome", "57"),
		b("chrome", "79", "firefox", "75"),
		b("chrome", "80", "firefox", "3.6"),
		b("firefox", "4"),
		b("safari", "3.2"),
		b("safari", "7"),
		b("safari", "10.1", "ios_saf", "10.3"),
		b("safari", "13.1"),
		b("ios_saf", "12"),
		b("chrome", "79", "firefox", "75", "safari", "13.1", "ios_saf", "10.3"),
	}
}

// driverSource prints every lookup for every case, one line each.
func driverSource(in Input, cases []targets.Browsers) string {
	var sb strings.Builder
	sb.WriteString("package main\n\nimport \"fmt\"\n\nfunc u(v uint32) *uint32 { return &v }\n\nfunc main() {\n")
	for i, c := range cases {
		fmt.Fprintf(&sb, "\tb%d := Browsers{", i)
		for _, br := range c.Sorted() {
			fmt.Fprintf(&sb, "%s: u(%d), ", br.Ident(), uint32(c[br]))
		}
		sb.WriteString("}\n")
		for _, g := range in.Prefixes.Groups {
			for _, n := range g.Names {
				id := "Prefix" + Enumify(n)
				fmt.Fprintf(&sb, "\tfmt.Printf(\"%d %s %%d\\n\", %s.PrefixesFor(b%d))\n", i, id, id, i)
			}
		}
		for _, g := range in.Compat.Groups {
			for _, n := range g.Names {
				id := "Feature" + Enumify(n)
				fmt.Fprintf(&sb, "\tfmt.Printf(\"%d %s %%t %%t\\n\", %s.IsCompatible(b%d), %s.IsPartiallyCompatible(b%d))\n", i, id, id, i, id, i)
			}
		}
		fmt.Fprintf(&sb, "\tfmt.Printf(\"%d flex2009 %%t\\n\", IsFlex2009(b%d))\n", i, i)
		fmt.Fprintf(&sb, "\tfmt.Printf(\"%d webkitGradient %%t\\n\", IsWebkitGradient(b%d))\n", i, i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// expectedLines evaluates the same cases with the in-process predicates.
func expectedLines(in Input, cases []targets.Browsers) string {
	var sb strings.Builder
	for i, c := range cases {
		for _, g := range in.Prefixes.Groups {
			for _, n := range g.Names {
				fmt.Fprintf(&sb, "%d Prefix%s %d\n", i, Enumify(n), g.Predicate.PrefixesFor(c))
			}
		}
		for _, g := range in.Compat.Groups {
			for _, n := range g.Names {
				fmt.Fprintf(&sb, "%d Feature%s %t %t\n", i, Enumify(n), g.Predicate.IsCompatible(c), g.Predicate.IsPartiallyCompatible(c))
			}
		}
		fmt.Fprintf(&sb, "%d flex2009 %t\n", i, in.Prefixes.Flex2009.Matches(c))
		fmt.Fprintf(&sb, "%d webkitGradient %t\n", i, in.Prefixes.OldGradient.Matches(c))
	}
	return sb.String()
}

func TestGeneratedLookupsMatchPredicates(t *testing.T) {
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	in := fixtureInput(t)
	in.Package = "main"
	files, err := Render(in)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module gencheck\n\ngo 1.21\n"), 0o644))
	for _, f := range files {
		if f.Go {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644))
		}
	}
	cases := targetCases()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(driverSource(in, cases)), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(ctx, goBin, "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "%s", out)

	assert.Equal(t, expectedLines(in, cases), string(out))
}
