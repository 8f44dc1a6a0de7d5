package patient

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTriStateUnmarshal(t *testing.T) {
	tests := []struct {
		input   string
		want    TriState
		wantErr bool
	}{
		{`"yes"`, TriYes, false},
		{`"no"`, TriNo, false},
		{`"unknown"`, TriUnknown, false},
		{`"YES"`, TriYes, false},
		{`" no "`, TriNo, false},
		{`null`, TriUnknown, false},
		{`""`, TriUnknown, false},
		{`"maybe"`, "", true},
		{`true`, "", true},
		{`1`, "", true},
	}
	for _, tt := range tests {
		var got TriState
		err := json.Unmarshal([]byte(tt.input), &got)
		if (err != nil) != tt.wantErr {
			t.Errorf("unmarshal %s: error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("unmarshal %s = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestContextValidate(t *testing.T) {
	valid := Context{Age: 25, Sex: SexFemale, Pregnant: TriNo, PenicillinAllergy: TriNo}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid context rejected: %v", err)
	}

	tests := []struct {
		name string
		ctx  Context
	}{
		{"negative age", Context{Age: -1, Sex: SexFemale}},
		{"age over 120", Context{Age: 121, Sex: SexFemale}},
		{"missing sex", Context{Age: 30}},
		{"bad sex", Context{Age: 30, Sex: "unknown"}},
		{"bad pregnant", Context{Age: 30, Sex: SexFemale, Pregnant: "perhaps"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ctx.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestContextValidateNormalizesZeroTriStates(t *testing.T) {
	c := Context{Age: 40, Sex: SexMale}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if c.Pregnant != TriUnknown {
		t.Errorf("pregnant: got %q, want unknown", c.Pregnant)
	}
	if c.PenicillinAllergy != TriUnknown {
		t.Errorf("penicillin_allergy: got %q, want unknown", c.PenicillinAllergy)
	}
}

func TestRequestValidate(t *testing.T) {
	req := Request{
		Question: "Does this fit uncomplicated lower UTI?",
		Patient:  Context{Age: 25, Sex: SexFemale},
	}
	if err := req.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	req.Question = "   "
	if err := req.Validate(); err == nil {
		t.Error("expected error for blank question")
	}
}

func TestSummaryIncludesAllFields(t *testing.T) {
	egfr := 90.0
	c := Context{
		Age:               70,
		Sex:               SexFemale,
		Pregnant:          TriUnknown,
		PenicillinAllergy: TriYes,
		EGFR:              &egfr,
		Symptoms:          []string{"dysuria", "frequency"},
		RedFlags:          []string{"fever"},
	}
	s := c.Summary()
	for _, want := range []string{"age 70", "sex female", "pregnant unknown", "penicillin_allergy yes", "egfr 90.0", "dysuria", "fever"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q: %s", want, s)
		}
	}
}
