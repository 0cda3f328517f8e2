package rules

import (
	"math"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	data := []byte(`[
		{"name": "Smile", "func": "mouthSmileLeft * 100", "min": 0, "max": 100, "defaultValue": 0},
		{"name": "Blink", "func": "eyeBlinkLeft", "min": 0, "max": 1, "defaultValue": 1}
	]`)

	entries, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Decode() returned %d entries, want 2", len(entries))
	}

	if entries[0].Name != "Smile" || entries[0].Expression != "mouthSmileLeft * 100" {
		t.Errorf("entry 0 = %+v, want Smile/mouthSmileLeft * 100", entries[0])
	}

	if entries[1].Max != 1 || entries[1].DefaultValue != 1 {
		t.Errorf("entry 1 = %+v, want max 1, defaultValue 1", entries[1])
	}
}

func TestDecode_NullFuncNormalized(t *testing.T) {
	data := []byte(`[
		{"name": "NullFunc", "func": null, "min": 0, "max": 1, "defaultValue": 0},
		{"name": "AbsentFunc", "min": 0, "max": 1, "defaultValue": 0}
	]`)

	entries, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	for _, entry := range entries {
		if entry.Expression != "" {
			t.Errorf("entry %q expression = %q, want empty string", entry.Name, entry.Expression)
		}
	}
}

func TestDecode_NotAnArray(t *testing.T) {
	_, err := Decode([]byte(`{"name": "Smile"}`))
	if err == nil {
		t.Fatal("Decode(object) error = nil, want error")
	}

	if !strings.Contains(err.Error(), "failed to deserialize transformation rules") {
		t.Errorf("error = %q, want deserialization message", err.Error())
	}
}

func TestValidate_Valid(t *testing.T) {
	compiled, err := Validate(Rule{
		Name:         "Smile",
		Expression:   "eyeBlinkLeft * 100",
		Min:          0,
		Max:          100,
		DefaultValue: 0,
	})

	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	got := compiled.Evaluate(map[string]float64{"eyeBlinkLeft": 0.5})
	if got != 50 {
		t.Errorf("Evaluate(eyeBlinkLeft=0.5) = %v, want 50", got)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantMsg string
	}{
		{
			name:    "missing name",
			rule:    Rule{Name: "", Expression: "x", Min: 0, Max: 1},
			wantMsg: "rule name is missing",
		},
		{
			name:    "empty expression",
			rule:    Rule{Name: "Empty", Expression: "", Min: 0, Max: 1},
			wantMsg: "empty expression",
		},
		{
			name:    "whitespace expression",
			rule:    Rule{Name: "Blank", Expression: "   ", Min: 0, Max: 1},
			wantMsg: "empty expression",
		},
		{
			name:    "min greater than max",
			rule:    Rule{Name: "Range", Expression: "x", Min: 5, Max: 2},
			wantMsg: "min 5 is greater than max 2",
		},
		{
			name:    "syntax error",
			rule:    Rule{Name: "Broken", Expression: "(((x", Min: 0, Max: 1},
			wantMsg: "Syntax error in expression",
		},
		{
			name:    "parse error",
			rule:    Rule{Name: "Dangling", Expression: "x +", Min: 0, Max: 1},
			wantMsg: "Error parsing the expression:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.rule)
			if err == nil {
				t.Fatalf("Validate(%+v) error = nil, want error", tt.rule)
			}

			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateAll_Partition(t *testing.T) {
	entries := []Rule{
		{Name: "Good", Expression: "x * 2", Min: 0, Max: 10},
		{Name: "Bad", Expression: "", Min: 0, Max: 1},
		{Name: "AlsoGood", Expression: "y + 1", Min: 0, Max: 1},
		{Name: "BadRange", Expression: "z", Min: 3, Max: 1},
	}

	valid, invalid := ValidateAll(entries)

	if len(valid) != 2 {
		t.Errorf("len(valid) = %d, want 2", len(valid))
	}
	if len(invalid) != 2 {
		t.Errorf("len(invalid) = %d, want 2", len(invalid))
	}

	if invalid[0].Name != "Bad" || !strings.Contains(invalid[0].Err, "empty expression") {
		t.Errorf("invalid[0] = %+v, want Bad/empty expression", invalid[0])
	}
	if invalid[1].Name != "BadRange" {
		t.Errorf("invalid[1].Name = %q, want BadRange", invalid[1].Name)
	}
}

func TestValidateAll_DuplicateNameLastWins(t *testing.T) {
	entries := []Rule{
		{Name: "Dup", Expression: "1", Min: 0, Max: 10},
		{Name: "Dup", Expression: "2", Min: 0, Max: 10},
	}

	valid, invalid := ValidateAll(entries)

	if len(invalid) != 0 {
		t.Fatalf("len(invalid) = %d, want 0", len(invalid))
	}
	if len(valid) != 1 {
		t.Fatalf("len(valid) = %d, want 1", len(valid))
	}

	if got := valid[0].Evaluate(nil); got != 2 {
		t.Errorf("duplicate rule evaluates to %v, want 2 (last entry wins)", got)
	}
}

func TestCompiledRule_EvaluateClamps(t *testing.T) {
	compiled, err := Validate(Rule{
		Name:         "Clamped",
		Expression:   "x * 100",
		Min:          0,
		Max:          100,
		DefaultValue: 25,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	if got := compiled.Evaluate(map[string]float64{"x": 2}); got != 100 {
		t.Errorf("Evaluate(x=2) = %v, want clamp to 100", got)
	}

	if got := compiled.Evaluate(map[string]float64{"x": -1}); got != 0 {
		t.Errorf("Evaluate(x=-1) = %v, want clamp to 0", got)
	}
}

func TestCompiledRule_EvaluateNonFiniteUsesDefault(t *testing.T) {
	compiled, err := Validate(Rule{
		Name:         "DivZero",
		Expression:   "x / y",
		Min:          -100,
		Max:          100,
		DefaultValue: 7,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	// y unbound: 1/0 is +Inf, replaced by the default.
	if got := compiled.Evaluate(map[string]float64{"x": 1}); got != 7 {
		t.Errorf("Evaluate(1/0) = %v, want default 7", got)
	}

	// 0/0 is NaN, replaced by the default.
	if got := compiled.Evaluate(nil); got != 7 {
		t.Errorf("Evaluate(0/0) = %v, want default 7", got)
	}

	if math.IsNaN(compiled.Evaluate(map[string]float64{"x": 1, "y": 2})) {
		t.Error("finite evaluation unexpectedly NaN")
	}
}
