package review

import "testing"

func TestValidateCandidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Candidate
		wantErr bool
	}{
		{name: "ok", in: Candidate{Name: "Ada", ProjectTitle: "Compiler"}},
		{name: "ok_with_email", in: Candidate{Name: "Ada", ProjectTitle: "Compiler", Email: "ada@example.com"}},
		{name: "missing_title", in: Candidate{Name: "Ada"}, wantErr: true},
		{name: "bad_email", in: Candidate{Name: "Ada", ProjectTitle: "X", Email: "nope"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%+v) err=%v, wantErr=%v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestValidateEvaluationRange(t *testing.T) {
	if err := Validate(Evaluation{QuestionID: "q1", Score: 10}); err != nil {
		t.Fatalf("score 10 should be valid: %v", err)
	}
	if err := Validate(Evaluation{QuestionID: "q1", Score: 11}); err == nil {
		t.Fatalf("score 11 should be rejected")
	}
	if err := Validate(Question{ID: "q1", Level: "expert", Text: "?"}); err == nil {
		t.Fatalf("unknown level should be rejected")
	}
}

func TestDeltaEmpty(t *testing.T) {
	if !(Delta{}).Empty() {
		t.Fatalf("zero delta should be empty")
	}
	if (Delta{CurrentQuestion: ClearQuestion()}).Empty() {
		t.Fatalf("clearing the current question is a change")
	}
}
