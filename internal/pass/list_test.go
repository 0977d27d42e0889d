package pass

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type testUnit struct {
	name   string
	trace  []string
	broken error
}

func (u *testUnit) Name() string {
	return u.name
}

func (u *testUnit) Trace(passName string) {
	u.trace = append(u.trace, passName)
}

func (u *testUnit) Verify() error {
	return u.broken
}

func (u *testUnit) Dump(banner string) string {
	return "  " + strings.Join(u.trace, ",") + "\n"
}

func TestListQueries(t *testing.T) {
	l := &List{}
	l.Add(Default.Instantiate(TypeBasedAliasAnalysis))
	l.Add(Default.Instantiate(BasicAliasAnalysis))
	l.Add(Default.Instantiate(TypeBasedAliasAnalysis))

	if l.Len() != 3 {
		t.Errorf("expected 3 passes, got %d", l.Len())
	}
	expectedNames := []string{"tbaa", "basicaa", "tbaa"}
	if !reflect.DeepEqual(l.Names(), expectedNames) {
		t.Errorf("expected %v, got %v", expectedNames, l.Names())
	}
	expectedIDs := []ID{TypeBasedAliasAnalysis, BasicAliasAnalysis, TypeBasedAliasAnalysis}
	if !reflect.DeepEqual(l.IDs(), expectedIDs) {
		t.Errorf("expected %v, got %v", expectedIDs, l.IDs())
	}
	if !l.Contains(BasicAliasAnalysis) || l.Contains(LoopStrengthReduce) {
		t.Errorf("unexpected Contains results")
	}
	if l.Index(TypeBasedAliasAnalysis) != 0 || l.Index(LoopStrengthReduce) != -1 {
		t.Errorf("unexpected Index results")
	}

	passes := l.Passes()
	passes[0] = nil
	if l.Passes()[0] == nil {
		t.Errorf("expected Passes to return a copy")
	}
}

func TestListRun(t *testing.T) {
	var out bytes.Buffer
	l := &List{}
	l.Add(Default.Instantiate(BasicAliasAnalysis))
	l.Add(NewMachinePrinter(&out, "After \"ISel\""))
	l.Add(NewMachineVerifier("After ISel"))
	l.Add(Default.Instantiate(PrologEpilogCodeInserter))

	u := &testUnit{name: "main"}
	if err := l.Run(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedTrace := []string{"basicaa", "print-machineinstrs", "machineverifier", "prologepilog"}
	if !reflect.DeepEqual(u.trace, expectedTrace) {
		t.Errorf("expected trace %v, got %v", expectedTrace, u.trace)
	}

	expectedOut := "# Machine code for main (After \\\"ISel\\\")\n  basicaa,print-machineinstrs\n"
	if out.String() != expectedOut {
		t.Errorf("expected output %q, got %q", expectedOut, out.String())
	}
}

func TestListRunVerifierFailure(t *testing.T) {
	broken := errors.New("dangling vreg")
	l := &List{}
	l.Add(Default.Instantiate(BasicAliasAnalysis))
	l.Add(NewMachineVerifier("After Register Allocation"))
	l.Add(Default.Instantiate(PrologEpilogCodeInserter))

	u := &testUnit{name: "f", broken: broken}
	err := l.Run(context.Background(), u)
	if !errors.Is(err, broken) {
		t.Fatalf("expected %v, got %v", broken, err)
	}
	expected := "pass #1 machineverifier: bad machine code in f (After Register Allocation): dangling vreg"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if len(u.trace) != 2 {
		t.Errorf("expected the pipeline to stop after the verifier, ran %v", u.trace)
	}
}

func TestListRunCancelled(t *testing.T) {
	l := &List{}
	l.Add(Default.Instantiate(BasicAliasAnalysis))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := &testUnit{name: "f"}
	if err := l.Run(ctx, u); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(u.trace) != 0 {
		t.Errorf("expected no passes to run, ran %v", u.trace)
	}
}

func TestPrinterFromRegistry(t *testing.T) {
	var out bytes.Buffer
	p := Default.Instantiate(GCInfoPrinter)
	s, ok := p.(OutputSetter)
	if !ok {
		t.Fatalf("expected the GC info printer to accept an output")
	}
	s.SetOutput(&out)

	if err := p.Run(context.Background(), &testUnit{name: "g"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "# GC roots for g\n") {
		t.Errorf("unexpected output %q", out.String())
	}
}
