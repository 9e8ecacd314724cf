package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Tiliavir/gitlab-timelogs/internal/config"
	"github.com/Tiliavir/gitlab-timelogs/internal/timecalc"
)

func testViper(host, user, token string) *viper.Viper {
	v := viper.New()
	v.Set(config.KeyHost, host)
	v.Set(config.KeyUsername, user)
	v.Set(config.KeyToken, token)
	return v
}

func TestResolveParams(t *testing.T) {
	p, err := resolveParams(testViper("https://gitlab.example.com/", "jdoe", "t0k"), "2024-06-01", "2024-06-30", time.UTC)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if p.Host != "gitlab.example.com" {
		t.Errorf("Host = %q, want scheme and slash stripped", p.Host)
	}
	if p.After.String() != "2024-06-01" || p.Before.String() != "2024-06-30" {
		t.Errorf("range = %v..%v", p.After, p.Before)
	}
}

func TestResolveParamsDefaults(t *testing.T) {
	p, err := resolveParams(testViper("h", "u", "t"), "", "", time.UTC)
	if err != nil {
		t.Fatalf("resolveParams: %v", err)
	}
	if p.After.String() != defaultAfter {
		t.Errorf("After = %v, want %s", p.After, defaultAfter)
	}
	if p.Before != timecalc.Today(time.UTC) {
		t.Errorf("Before = %v, want today", p.Before)
	}
}

func TestResolveParamsErrors(t *testing.T) {
	tests := []struct {
		name          string
		v             *viper.Viper
		after, before string
		want          error
	}{
		{"missing host", testViper("", "u", "t"), "", "", ErrMissingParam},
		{"missing token", testViper("h", "u", " "), "", "", ErrMissingParam},
		{"after later than before", testViper("h", "u", "t"), "2024-06-02", "2024-06-01", ErrInvalidRange},
		{"bad date", testViper("h", "u", "t"), "June 1st", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveParams(tt.v, tt.after, tt.before, time.UTC)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolveParamsSameDay(t *testing.T) {
	if _, err := resolveParams(testViper("h", "u", "t"), "2024-06-01", "2024-06-01", time.UTC); err != nil {
		t.Errorf("single-day range rejected: %v", err)
	}
}

func TestFilterFlagsBuild(t *testing.T) {
	p := Params{
		After:  timecalc.Date{Year: 2024, Month: time.June, Day: 1},
		Before: timecalc.Date{Year: 2024, Month: time.June, Day: 30},
	}

	fs, err := filterFlags{epic: "E", group: "G", week: "2024-W23"}.build(p, time.UTC)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(fs) != 4 {
		t.Errorf("filters = %d, want window + epic + group + week", len(fs))
	}

	for _, bad := range []filterFlags{
		{epic: "E", noEpic: true},
		{group: "G", noGroup: true},
		{week: "23"},
	} {
		if _, err := bad.build(p, time.UTC); err == nil {
			t.Errorf("build(%+v): expected error", bad)
		}
	}
}
