package hwlib_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	gs "github.com/db47h/gatesim"
	hl "github.com/db47h/gatesim/hwlib"
	"github.com/db47h/gatesim/hwtest"
)

// index returns the row of in in a truth table where in[0] is the most
// significant bit.
func index(in []bool) int {
	i := 0
	for _, v := range in {
		i <<= 1
		if v {
			i |= 1
		}
	}
	return i
}

func testGate(t *testing.T, lib *gs.Library, name string, result [][]bool) {
	t.Helper()
	tmpl, ok := lib.Lookup(name)
	if !ok {
		t.Fatalf("gate type %s not found", name)
	}
	hwtest.TruthTable(t, lib, hl.GatePart(tmpl), func(in []bool) []bool {
		out := make([]bool, len(result))
		for o := range result {
			out[o] = result[o][index(in)]
		}
		return out
	})
}

func Test_gate_builtin(t *testing.T) {
	lib := hl.NewLibrary()
	td := []struct {
		name   string
		result [][]bool // i1=0 && i2=0, i1=0 && i2=1, i1=1 && i2=0, i1=1 && i2=1
	}{
		{"NOT", [][]bool{{true, false}}},
		{"BUF", [][]bool{{false, true}}},
		{"AND2", [][]bool{{false, false, false, true}}},
		{"NAND2", [][]bool{{true, true, true, false}}},
		{"OR2", [][]bool{{false, true, true, true}}},
		{"NOR2", [][]bool{{true, false, false, false}}},
		{"XOR2", [][]bool{{false, true, true, false}}},
		{"XNOR2", [][]bool{{true, false, false, true}}},
		{"AND3", [][]bool{{false, false, false, false, false, false, false, true}}},
		{"NAND3", [][]bool{{true, true, true, true, true, true, true, false}}},
		{"OR3", [][]bool{{false, true, true, true, true, true, true, true}}},
		{"NOR3", [][]bool{{true, false, false, false, false, false, false, false}}},
		{"MUX2", [][]bool{{false, false, false, true, true, false, true, true}}},
	}
	if len(td) != len(hl.Templates()) {
		t.Fatalf("%d built-in types, %d tested", len(hl.Templates()), len(td))
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, lib, d.name, d.result)
		})
	}
}

func TestLoad(t *testing.T) {
	lib, err := gs.LoadTemplates([]gs.TemplateRecord{
		{Name: "AND2", Inputs: 2, Expr: "i1 & i2", Delay: 42},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = hl.Load(lib, nil); err != nil {
		t.Fatal(err)
	}
	if lib.Len() != len(hl.Templates()) {
		t.Fatalf("expected %d types, got %d", len(hl.Templates()), lib.Len())
	}
	if and, _ := lib.Lookup("AND2"); and.Delay != 42 {
		t.Fatal("built-in types must not override user definitions")
	}
}

func TestLoad_log(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if err := hl.Load(gs.NewLibrary(), log); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "built-in gate type"); n != len(hl.Templates()) {
		t.Fatalf("expected %d log lines, got %d:\n%s", len(hl.Templates()), n, buf.String())
	}
	if gs.Logger(nil) == nil {
		t.Fatal("nil logger not replaced")
	}
	if gs.Logger(log) != log {
		t.Fatal("non nil logger replaced")
	}
}

func TestAnd3(t *testing.T) {
	lib := hl.NewLibrary()
	and3 := &hl.Part{
		Name:    "myAnd3",
		Inputs:  []string{"a", "b", "c"},
		Outputs: []string{"out"},
		Gates: []gs.InstanceRecord{
			{Name: "g1", Type: "AND2", Output: "ab", Inputs: []string{"a", "b"}},
			{Name: "g2", Type: "AND2", Output: "out", Inputs: []string{"ab", "c"}},
		},
	}
	tmpl, _ := lib.Lookup("AND3")
	hwtest.ComparePart(t, lib, hl.GatePart(tmpl), and3)
}

func TestPart_Instantiate(t *testing.T) {
	p := hl.HalfAdder()
	if _, err := p.Instantiate("h", map[string]string{"a": "x"}); err == nil {
		t.Fatal("expected error for unconnected input")
	}
	if _, err := p.Instantiate("h", map[string]string{"a": "x", "b": "y", "z": "z"}); err == nil {
		t.Fatal("expected error for unknown pin")
	}
	recs, err := p.Instantiate("h", map[string]string{"a": "x", "b": "y", "s": "sum"})
	if err != nil {
		t.Fatal(err)
	}
	exp := []gs.InstanceRecord{
		{Name: "h_x", Type: "XOR2", Output: "sum", Inputs: []string{"x", "y"}},
		{Name: "h_n", Type: "AND2", Output: "h_c", Inputs: []string{"x", "y"}},
	}
	for i := range exp {
		r := recs[i]
		if r.Name != exp[i].Name || r.Type != exp[i].Type || r.Output != exp[i].Output ||
			r.Inputs[0] != exp[i].Inputs[0] || r.Inputs[1] != exp[i].Inputs[1] {
			t.Fatalf("got %+v, expected %+v", r, exp[i])
		}
	}
}
