package abi

import (
	"math"
	"testing"
)

func TestNumberToString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-42, "-42"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{123456789, "123456789"},
		{1e21, "1e+21"},
		{1.5e21, "1.5e+21"},
		{1e20, "100000000000000000000"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{2.5e-8, "2.5e-8"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := NumberToString(tt.in); got != tt.want {
			t.Errorf("NumberToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0.5, "0.5"},
		{-2, "(-2.0)"},
		{1e300, "1e+300"},
		{math.Copysign(0, -1), "(-0.0)"},
		{math.Inf(1), "INFINITY"},
	}
	for _, tt := range tests {
		if got := CDouble(tt.in); got != tt.want {
			t.Errorf("CDouble(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArrayIndex(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"42", true},
		{"042", false},
		{"", false},
		{"-1", false},
		{"4294967295", false},
		{"4294967294", true},
		{"1.5", false},
	}
	for _, tt := range tests {
		if _, ok := ArrayIndex(tt.in); ok != tt.ok {
			t.Errorf("ArrayIndex(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestWellKnownShapes(t *testing.T) {
	if LookupWellKnownShape([]string{"value", "done"}) == "" {
		t.Error("{value, done} should be well known")
	}
	if LookupWellKnownShape([]string{"done", "value"}) == "" {
		t.Error("{done, value} should be well known")
	}
	if LookupWellKnownShape([]string{"value"}) != "" {
		t.Error("{value} is not well known")
	}
}
