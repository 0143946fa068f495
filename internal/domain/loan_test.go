package domain

import "testing"

func TestLoanStatusPredicates(t *testing.T) {
	tests := []struct {
		status   LoanStatus
		pending  bool
		approved bool
		terminal bool
	}{
		{LoanStatusPending, true, false, false},
		{LoanStatusApproved, false, true, false},
		{LoanStatusRejected, false, false, true},
		{LoanStatusClosed, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			l := &Loan{Status: tt.status}
			if l.IsPending() != tt.pending {
				t.Errorf("IsPending() = %v, want %v", l.IsPending(), tt.pending)
			}
			if l.IsApproved() != tt.approved {
				t.Errorf("IsApproved() = %v, want %v", l.IsApproved(), tt.approved)
			}
			if l.IsTerminal() != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", l.IsTerminal(), tt.terminal)
			}
		})
	}
}

func TestLoanAddRemarks(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		text     string
		want     string
	}{
		{"first remark", "", "approved by manager", "approved by manager"},
		{"appended remark", "approved by manager", "tenure extended", "approved by manager | tenure extended"},
		{"empty text is ignored", "approved by manager", "", "approved by manager"},
		{"chains preserve order", "A | B", "C", "A | B | C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{Remarks: tt.existing}
			l.AddRemarks(tt.text)
			if l.Remarks != tt.want {
				t.Errorf("Remarks = %q, want %q", l.Remarks, tt.want)
			}
		})
	}
}
