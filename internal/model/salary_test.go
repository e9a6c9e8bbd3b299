package model

import "testing"

func TestComputeNet(t *testing.T) {
	if got := ComputeNet(5000, 500, 750); got != 4750 {
		t.Errorf("ComputeNet = %.2f, want 4750", got)
	}
	if got := ComputeNet(3000, 0, 0); got != 3000 {
		t.Errorf("ComputeNet with no adjustments = %.2f, want 3000", got)
	}
}

func TestParseSalaryStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "PROCESSING", "PAID"} {
		if _, ok := ParseSalaryStatus(s); !ok {
			t.Errorf("%s rejected", s)
		}
	}
	if _, ok := ParseSalaryStatus("SETTLED"); ok {
		t.Error("unknown status accepted")
	}
}
