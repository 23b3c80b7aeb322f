package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "review.yaml", "-a", "http://localhost:8000"},
			allowed: []string{"-c"},
			want:    []string{"-c", "review.yaml"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", "http://x"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "order preserved across forms",
			args:    []string{"-a=http://a", "-t", "5", "-x", "1"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a=http://a", "-t", "5"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next token is a flag, not a value",
			args:    []string{"-c", "-d", "data"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFlag([]string{"-a", "http://x", "-c", "a.json"}))
	assert.Equal(t, "b.yaml", ConfigFileFlag([]string{"-config", "b.yaml"}))
	assert.Equal(t, "c.yml", ConfigFileFlag([]string{"-config=c.yml", "-l", "debug"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-l", "debug"}))
}
