package model

import (
	"regexp"
	"testing"
)

func TestTimestampNumberFormat(t *testing.T) {
	cases := []struct {
		prefix string
		digits int
		want   string
	}{
		{"ORD", 3, `^ORD-\d{6}-\d{3}$`},
		{"EVAL", 3, `^EVAL-\d{6}-\d{3}$`},
		{"POL", 4, `^POL-\d{6}-\d{4}$`},
	}

	for _, tc := range cases {
		re := regexp.MustCompile(tc.want)
		for i := 0; i < 20; i++ {
			got := TimestampNumber(tc.prefix, tc.digits)
			if !re.MatchString(got) {
				t.Fatalf("TimestampNumber(%q, %d) = %q, want match for %s",
					tc.prefix, tc.digits, got, tc.want)
			}
		}
	}
}
