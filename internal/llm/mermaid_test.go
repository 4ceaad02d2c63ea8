package llm

import "testing"

func TestStripMermaidFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "standard fenced block",
			in:   "```mermaid\ngraph TD\n  A --> B\n```",
			want: "graph TD\n  A --> B",
		},
		{
			name: "uppercase marker",
			in:   "```Mermaid\ngraph TD\n  A --> B\n```",
			want: "graph TD\n  A --> B",
		},
		{
			name: "anonymous fence",
			in:   "```\ngraph LR\n  X --> Y\n```",
			want: "graph LR\n  X --> Y",
		},
		{
			name: "surrounding blank lines",
			in:   "\n\n```mermaid\n\ngraph TD\n  A --> B\n\n```\n\n",
			want: "graph TD\n  A --> B",
		},
		{
			name: "no fence at all",
			in:   "graph TD\n  A --> B",
			want: "graph TD\n  A --> B",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripMermaidFence(tc.in)
			if got != tc.want {
				t.Fatalf("StripMermaidFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
			// Stripping must be idempotent.
			if again := StripMermaidFence(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}
