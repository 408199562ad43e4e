// Package topics is the fixed catalog of C revision topics and the
// reference notes sent to the question generator.
package topics

import (
	"fmt"
	"slices"
	"strings"
)

// Topic is one revision area of the catalog.
type Topic struct {
	// Name is the label used in questions, profiles and configs.
	Name string

	// Goal states what the student must be able to do.
	Goal string

	// Notes are the reference points the generator draws questions from.
	Notes []string
}

const (
	ArithmeticExpressions = "Arithmetic Expressions"
	DebuggingErrors       = "Debugging & Errors"
	CodeTracing           = "Code Tracing"
	AlgorithmsPseudocode  = "Algorithms & Pseudocode"
	CodeWriting           = "C Code Writing"
	Arrays                = "Arrays"
	Pointers              = "Pointers"
)

var catalog = []Topic{
	{
		Name: ArithmeticExpressions,
		Goal: "Evaluate mixed integer expressions by hand.",
		Notes: []string{
			"Precedence runs parentheses, unary (+ - ++ --), multiplicative (* / %), additive (+ -).",
			"Binary operators of equal precedence associate left to right.",
			"Integer division truncates: 24/5 is 4, so 24/5*5 is 20.",
			"Modulus keeps the remainder: 7 % 2 is 1, 3 % 8 is 3.",
			"Typical items: 5*8/2+(4-2)%3, 15-7%2+(5+2)*8, 2*9%11+3*4.",
		},
	},
	{
		Name: DebuggingErrors,
		Goal: "Find and name the syntax or logic error in a short program.",
		Notes: []string{
			"A stray semicolon after a loop header (while (n > 0);) leaves an empty body.",
			"scanf needs the address of a scalar: scanf(\"%d\", &n).",
			"Reading a variable before it is assigned gives an indeterminate value.",
			"Off-by-one loop bounds such as i <= size on an array of length size.",
			"printf specifiers must match their argument types (%d is not for double).",
			"Dereferencing an uninitialized pointer or indexing past an array end.",
		},
	},
	{
		Name: CodeTracing,
		Goal: "Predict the exact output of a program without running it.",
		Notes: []string{
			"Width and precision: %3.1f, %05.2f, %-3d, %10s, %.3s.",
			"Pre and post increment inside expressions, e.g. ++i * j++.",
			"Nested loops and loop conditions with side effects, e.g. while (x++ <= 20).",
			"Comma operators in for headers: for (a = 4, b = 8; a < b; a++, b--).",
			"Writes through pointers change the pointee: int x = 5, *p = &x; *p = 10;",
			"*p++ yields the value then advances p; (*p)++ increments the value.",
		},
	},
	{
		Name: AlgorithmsPseudocode,
		Goal: "Describe the steps of a small algorithm in pseudocode or C.",
		Notes: []string{
			"Parity test with num % 2 == 0.",
			"Average of a fixed number of inputs.",
			"Digit sum using % 10 and / 10 in a loop.",
			"Maximum and sum over an array.",
		},
	},
	{
		Name: CodeWriting,
		Goal: "Write a complete C fragment that solves a stated problem.",
		Notes: []string{
			"if/else chains, e.g. letter grades with A at 80 and above, B from 70 to 79.",
			"switch mapping 1..7 to weekday names.",
			"for printing multiples of 5; while summing 1..n; do-while validating input.",
			"break to stop on a sentinel such as 0; continue to skip negative values.",
		},
	},
	{
		Name: Arrays,
		Goal: "Trace array initialization and indexing.",
		Notes: []string{
			"Partial initializers zero the rest: int a[5] = {1, 2} leaves a[2..4] at 0.",
			"a[5] on an array of five elements is out of bounds and undefined behavior.",
			"In int m[2][3], m[1][0] is the first element of the second row.",
			"Strings are char arrays terminated by '\\0'.",
		},
	},
	{
		Name: Pointers,
		Goal: "Trace pointer operations, arithmetic and pass-by-reference.",
		Notes: []string{
			"& takes an address, * dereferences it.",
			"Functions modify caller variables through pointers, e.g. swap(&a, &b).",
			"p + 1 advances by the size of the pointee type.",
			"arr[i] and *(arr + i) are the same element.",
		},
	},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Topic {
	return slices.Clone(catalog)
}

// Names returns the topic labels in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, t := range catalog {
		names[i] = t.Name
	}
	return names
}

// IsKnown reports whether label names a catalog topic.
func IsKnown(label string) bool {
	return slices.ContainsFunc(catalog, func(t Topic) bool { return t.Name == label })
}

// Filter keeps only known labels, drops duplicates and returns them in
// catalog order.
func Filter(labels []string) []string {
	var out []string
	for _, t := range catalog {
		if slices.Contains(labels, t.Name) {
			out = append(out, t.Name)
		}
	}
	return out
}

// Material renders the reference notes for every topic as plain text.
func Material() string {
	var b strings.Builder
	for i, t := range catalog {
		fmt.Fprintf(&b, "TOPIC %d: %s\n", i+1, strings.ToUpper(t.Name))
		fmt.Fprintf(&b, "Goal: %s\n", t.Goal)
		for _, n := range t.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
