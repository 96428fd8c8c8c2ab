package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "heavy-duty vehicle emissions",
			want: "heavy-duty vehicle emissions",
		},
		{
			name: "whitespace runs collapse",
			in:   "a  b\t\tc\n\nd",
			want: "a b c d",
		},
		{
			name: "non-ascii stripped",
			in:   "café — résumé \U0001F600",
			want: "caf rsum",
		},
		{
			name: "leading and trailing whitespace trimmed",
			in:   "   padded   ",
			want: "padded",
		},
		{
			name: "smart quotes from scraped pdfs",
			in:   "the “final rule” applies",
			want: "the final rule applies",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "only non-ascii",
			in:   "世界",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
