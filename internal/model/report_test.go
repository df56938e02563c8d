package model

import "testing"

func TestCanTransitionToForwardOnly(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusOpen, StatusAcknowledged, true},
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusClosed, true},
		{StatusAcknowledged, StatusOpen, false},
		{StatusInProgress, StatusAcknowledged, false},
		{StatusClosed, StatusClosed, false},
		{StatusClosed, StatusOpen, false},
		{"bogus", StatusClosed, false},
		{StatusOpen, "bogus", false},
	}

	for _, tc := range cases {
		r := Report{Status: tc.from}
		if got := r.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidCommentType(t *testing.T) {
	for _, valid := range []string{CommentTypeComment, CommentTypeProgress, CommentTypeConfirmFix} {
		if !ValidCommentType(valid) {
			t.Errorf("%q should be valid", valid)
		}
	}
	if ValidCommentType("reaction") {
		t.Error("unknown comment type accepted")
	}
}
