package callid

import "testing"

func TestArgsCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args Args
		want string
	}{
		{
			name: "empty",
			args: nil,
			want: "",
		},
		{
			name: "single",
			args: Args{{Name: "n", Value: 5}},
			want: "n=5",
		},
		{
			name: "ordered pairs",
			args: Args{{Name: "n", Value: 5}, {Name: "label", Value: "west"}},
			want: "n=5, label=west",
		},
		{
			name: "slice value",
			args: Args{{Name: "ids", Value: []int{3, 1, 2}}},
			want: "ids=[3 1 2]",
		},
		{
			name: "map value prints sorted",
			args: Args{{Name: "opts", Value: map[string]int{"b": 2, "a": 1}}},
			want: "opts=map[a:1 b:2]",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.args.Canonical(); got != tt.want {
				t.Errorf("Canonical() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityQualified(t *testing.T) {
	t.Parallel()

	id := Identity{Namespace: "analytics.reports", Name: "monthly"}
	if got := id.Qualified(); got != "analytics.reports.monthly" {
		t.Errorf("Qualified() = %q", got)
	}
}
