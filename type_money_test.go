package camsfolio

import "testing"

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{INR(1500), "₹1,500.00"},
		{INR(12.5), "₹12.50"},
		{INR(-300), "-₹300.00"},
		{INR(0.005), "₹0.01"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.m.Decimal(), got, tt.want)
		}
	}
}

func TestMoney_Ratio(t *testing.T) {
	if got := INR(300).Ratio(INR(1500)); !got.Equal(20) {
		t.Errorf("INR(300).Ratio(INR(1500)) = %v, want 20", got)
	}
	if got := INR(300).Ratio(INR(0)); got != 0 {
		t.Errorf("Ratio by zero = %v, want 0", got)
	}
}

func TestPercent_SignedString(t *testing.T) {
	tests := []struct {
		p    Percent
		want string
	}{
		{20, "+20.00%"},
		{-3.456, "-3.46%"},
		{0, "-"},
	}
	for _, tt := range tests {
		if got := tt.p.SignedString(); got != tt.want {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(tt.p), got, tt.want)
		}
	}
}
