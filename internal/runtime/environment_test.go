package runtime

import "testing"

func TestGetWalksParentChain(t *testing.T) {
	root := NewEnvironment()
	root.Define("x", Int(1))
	child := root.Child()
	v, ok := child.Get("x")
	if !ok || v.Int != 1 {
		t.Fatalf("child.Get(x) = %v, %v; want Int(1), true", v, ok)
	}
}

func TestAssignWritesLocalScopeOnly(t *testing.T) {
	root := NewEnvironment()
	root.Define("x", Int(1))
	child := root.Child()
	child.Assign("x", Int(2))

	rootX, _ := root.Get("x")
	if rootX.Int != 1 {
		t.Fatalf("outer x mutated by inner Assign: got %v, want Int(1)", rootX)
	}
	childX, _ := child.Get("x")
	if childX.Int != 2 {
		t.Fatalf("child x = %v, want Int(2)", childX)
	}
}

func TestGetUnboundReturnsFalse(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Get("missing"); ok {
		t.Fatal("expected Get on an unbound name to return ok=false")
	}
}

func TestChildShadowsParent(t *testing.T) {
	root := NewEnvironment()
	root.Define("x", Int(1))
	child := root.Child()
	child.Define("x", Int(2))

	v, _ := child.Get("x")
	if v.Int != 2 {
		t.Fatalf("child.Get(x) = %v, want Int(2) (shadowed)", v)
	}
	v, _ = root.Get("x")
	if v.Int != 1 {
		t.Fatalf("root.Get(x) = %v, want Int(1) (untouched)", v)
	}
}
