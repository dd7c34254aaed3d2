package document

import "testing"

func TestTotalItems(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		list *List
		want int
	}{
		{
			name: "empty list",
			list: &List{},
			want: 0,
		},
		{
			name: "flat list",
			list: &List{Items: []ListItem{
				{Content: []Span{&Text{Content: "a"}}},
				{Content: []Span{&Text{Content: "b"}}},
				{Content: []Span{&Text{Content: "c"}}},
			}},
			want: 3,
		},
		{
			name: "one level of nesting",
			list: &List{Items: []ListItem{
				{
					Content: []Span{&Text{Content: "a"}},
					Nested: &List{Items: []ListItem{
						{Content: []Span{&Text{Content: "a1"}}},
						{Content: []Span{&Text{Content: "a2"}}},
					}},
				},
				{Content: []Span{&Text{Content: "b"}}},
			}},
			want: 4,
		},
		{
			name: "deep nesting counts every level",
			list: &List{Items: []ListItem{
				{
					Content: []Span{&Text{Content: "a"}},
					Nested: &List{Items: []ListItem{
						{
							Content: []Span{&Text{Content: "a1"}},
							Nested: &List{Items: []ListItem{
								{Content: []Span{&Text{Content: "a1i"}}},
							}},
						},
					}},
				},
			}},
			want: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.list.TotalItems(); got != tt.want {
				t.Errorf("TotalItems() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		spans []Span
		want  string
	}{
		{
			name:  "nil spans",
			spans: nil,
			want:  "",
		},
		{
			name:  "plain text",
			spans: []Span{&Text{Content: "hello"}},
			want:  "hello",
		},
		{
			name: "formatting wrappers contribute inner text",
			spans: []Span{
				&Bold{Content: []Span{&Text{Content: "bold"}}},
				&Text{Content: " and "},
				&Italic{Content: []Span{&Text{Content: "italic"}}},
			},
			want: "bold and italic",
		},
		{
			name:  "code contributes its content",
			spans: []Span{&Code{Content: "x := 1"}},
			want:  "x := 1",
		},
		{
			name: "link contributes its label not its url",
			spans: []Span{&Link{
				URL:     "https://example.com",
				Content: []Span{&Text{Content: "example"}},
			}},
			want: "example",
		},
		{
			name: "line break becomes a space",
			spans: []Span{
				&Text{Content: "first"},
				&LineBreak{},
				&Text{Content: "second"},
			},
			want: "first second",
		},
		{
			name: "nested formatting",
			spans: []Span{
				&Bold{Content: []Span{
					&Italic{Content: []Span{&Text{Content: "both"}}},
				}},
			},
			want: "both",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PlainText(tt.spans); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}
