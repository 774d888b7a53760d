package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestToAttribute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  attribute.KeyValue
	}{
		{name: "string", value: "git-raw", want: attribute.String("k", "git-raw")},
		{name: "int", value: 3, want: attribute.Int("k", 3)},
		{name: "int64", value: int64(12), want: attribute.Int64("k", 12)},
		{name: "float64", value: 1.5, want: attribute.Float64("k", 1.5)},
		{name: "bool", value: true, want: attribute.Bool("k", true)},
		{name: "string slice", value: []string{"a", "b"}, want: attribute.StringSlice("k", []string{"a", "b"})},
		{name: "fallback", value: struct{ N int }{N: 7}, want: attribute.String("k", "{7}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, toAttribute("k", tt.value))
		})
	}
}

func TestToAttributesStableOrder(t *testing.T) {
	t.Parallel()

	got := toAttributes(map[string]any{"b": 1, "a": "x", "c": true})

	keys := make([]string, 0, len(got))
	for _, kv := range got {
		keys = append(keys, string(kv.Key))
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	assert.Nil(t, toAttributes(nil))
}
