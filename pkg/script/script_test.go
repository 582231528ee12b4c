package script

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	if err := Check("return agent.x > 5"); err != nil {
		t.Errorf("valid script rejected: %v", err)
	}
	if err := Check("return agent.x >"); err == nil {
		t.Error("broken syntax should fail the check")
	}
}

func TestEvalCondition(t *testing.T) {
	globals := map[string]any{
		"agent": map[string]any{"x": 7.5, "y": 2.0},
	}

	got, err := Eval("return agent.x > 5", globals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !got {
		t.Error("condition should hold for x=7.5")
	}

	got, err = Eval("return agent.y > 5", globals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got {
		t.Error("condition should not hold for y=2")
	}
}

func TestEvalGlobalKinds(t *testing.T) {
	globals := map[string]any{
		"steps":   int(12),
		"name":    "agent-1",
		"done":    false,
		"targets": []any{"goal-1", "goal-2"},
	}
	got, err := Eval(`return steps >= 10 and name == "agent-1" and not done and targets[2] == "goal-2"`, globals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !got {
		t.Error("combined condition should hold")
	}
}

func TestEvalNonBooleanResult(t *testing.T) {
	if _, err := Eval("return 42", nil); !errors.Is(err, ErrNotBoolean) {
		t.Errorf("numeric result should fail with ErrNotBoolean, got %v", err)
	}
}

func TestEvalRuntimeError(t *testing.T) {
	if _, err := Eval("return missing.field > 1", nil); err == nil {
		t.Error("indexing a nil global should fail")
	}
}

func TestSandboxHasNoOSAccess(t *testing.T) {
	if _, err := Eval(`return os.time() > 0`, nil); err == nil {
		t.Error("sandbox should not expose the os library")
	}
}
