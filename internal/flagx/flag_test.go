package flagx

import (
	"os"
	"reflect"
	"testing"
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
			args:    []string{"-d", "dsn", "-x", "other"},
			allowed: []string{"-d"},
			want:    []string{"-d", "dsn"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-d=dsn", "-z=nope"},
			allowed: []string{"--config", "-d"},
			want:    []string{"--config=conf.json", "-d=dsn"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-d", "-s", "secret"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1", "-b", "2"},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs(%v, %v) = %v, want %v", tt.args, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"bicauth", "migrate", "-c", "conf.json"}
	if got := JsonConfigFlags(); got != "conf.json" {
		t.Fatalf("expected conf.json, got %q", got)
	}

	os.Args = []string{"bicauth", "migrate"}
	if got := JsonConfigFlags(); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}
