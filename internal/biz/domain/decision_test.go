package domain

import "testing"

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Decision
	}{
		{
			name: "full object",
			raw:  `{"allow": true, "reason": "x", "category": "y"}`,
			want: Decision{Allow: true, Reason: "x", Category: "y"},
		},
		{
			name: "block with reason",
			raw:  `{"allow": false, "reason": "off topic rant", "category": "off_topic"}`,
			want: Decision{Allow: false, Reason: "off topic rant", Category: "off_topic"},
		},
		{
			name: "empty object gets defaults",
			raw:  `{}`,
			want: Decision{Allow: false, Reason: ReasonNoReason, Category: ""},
		},
		{
			name: "missing category",
			raw:  `{"allow": true, "reason": "fine"}`,
			want: Decision{Allow: true, Reason: "fine", Category: ""},
		},
		{
			name: "not json fails closed",
			raw:  "not json",
			want: Decision{Allow: false, Reason: ReasonUnparseable, Category: CategoryParseError},
		},
		{
			name: "top-level array fails closed",
			raw:  `[true, "x"]`,
			want: Decision{Allow: false, Reason: ReasonUnparseable, Category: CategoryParseError},
		},
		{
			name: "top-level null fails closed",
			raw:  `null`,
			want: Decision{Allow: false, Reason: ReasonUnparseable, Category: CategoryParseError},
		},
		{
			name: "surrounding whitespace tolerated",
			raw:  "\n  {\"allow\": true, \"reason\": \"ok\", \"category\": \"scheduling\"}  \n",
			want: Decision{Allow: true, Reason: "ok", Category: "scheduling"},
		},
		{
			name: "markdown fencing is not extracted",
			raw:  "```json\n{\"allow\": true}\n```",
			want: Decision{Allow: false, Reason: ReasonUnparseable, Category: CategoryParseError},
		},
		{
			name: "wrong value types keep defaults",
			raw:  `{"allow": "yes", "reason": 42, "category": {}}`,
			want: Decision{Allow: false, Reason: ReasonNoReason, Category: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecision(tt.raw)
			if got != tt.want {
				t.Errorf("ParseDecision(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
