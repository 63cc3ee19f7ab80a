package main

import (
	"errors"
	"testing"

	"github.com/scott-cotton/cli"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		cfg  MainConfig
		want string
	}{
		{MainConfig{}, "{}"},
		{MainConfig{Test: true, Platform: "iosArm64"}, "{test, iosArm64}"},
		{MainConfig{Platform: "ios", Variant: "debug"}, "{ios, debug}"},
		{MainConfig{Free: true, Platform: "mars", Variant: "fast+small"}, "{mars, fast, small}"},
	}
	for _, tt := range tests {
		got, err := tt.cfg.target()
		if err != nil {
			t.Errorf("target(%+v): %v", tt.cfg, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("target(%+v) = %s, want %s", tt.cfg, got, tt.want)
		}
	}
}

func TestTargetErrors(t *testing.T) {
	tests := []MainConfig{
		{Platform: "mars"},
		{Platform: "debug"},
		{Variant: "ios"},
		{Variant: "debug+release"},
	}
	for _, cfg := range tests {
		if _, err := cfg.target(); !errors.Is(err, cli.ErrUsage) {
			t.Errorf("target(%+v) error = %v, want usage error", cfg, err)
		}
	}
}
