package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", s.RedisAddr)
	}
	if s.DraftTTL != 2*time.Hour {
		t.Errorf("DraftTTL = %v", s.DraftTTL)
	}
	if s.MaxUploadBytes() != 10<<20 {
		t.Errorf("MaxUploadBytes = %d", s.MaxUploadBytes())
	}
	if s.CompanyName != "Diagnostics" || s.FormatNo != "XYZ-123" || s.SupersedesNo != "ABC-456" {
		t.Errorf("unexpected document numbers %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	s := FromEnv(lookupFrom(map[string]string{
		"FORMS_REDIS_ADDR":    "localhost:6379",
		"FORMS_DRAFT_TTL":     "45m",
		"FORMS_MAX_UPLOAD_MB": "25",
		"FORMS_COMPANY_NAME":  "Acme Diagnostics",
		"FORMS_FORMAT_NO":     "QA-01",
	}))

	if s.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", s.RedisAddr)
	}
	if s.DraftTTL != 45*time.Minute {
		t.Errorf("DraftTTL = %v", s.DraftTTL)
	}
	if s.MaxUploadMB != 25 {
		t.Errorf("MaxUploadMB = %d", s.MaxUploadMB)
	}
	if s.CompanyName != "Acme Diagnostics" || s.FormatNo != "QA-01" {
		t.Errorf("unexpected names %+v", s)
	}
	if s.SupersedesNo != "ABC-456" {
		t.Errorf("SupersedesNo = %q, want default", s.SupersedesNo)
	}
}

func TestFromEnv_IgnoresBadNumbers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unparsable", map[string]string{"FORMS_DRAFT_TTL": "soon", "FORMS_MAX_UPLOAD_MB": "lots"}},
		{"non-positive", map[string]string{"FORMS_DRAFT_TTL": "-5m", "FORMS_MAX_UPLOAD_MB": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromEnv(lookupFrom(tt.env))
			d := Defaults()
			if s.DraftTTL != d.DraftTTL || s.MaxUploadMB != d.MaxUploadMB {
				t.Errorf("expected defaults, got ttl=%v mb=%d", s.DraftTTL, s.MaxUploadMB)
			}
		})
	}
}

func TestRegister_FlagsOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	s := Register(fs)

	err := fs.Parse([]string{
		"--redis-addr=cache:6380",
		"--draft-ttl=90m",
		"--max-upload-mb=3",
		"--supersedes-no=OLD-9",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if s.RedisAddr != "cache:6380" {
		t.Errorf("RedisAddr = %q", s.RedisAddr)
	}
	if s.DraftTTL != 90*time.Minute {
		t.Errorf("DraftTTL = %v", s.DraftTTL)
	}
	if s.MaxUploadBytes() != 3<<20 {
		t.Errorf("MaxUploadBytes = %d", s.MaxUploadBytes())
	}
	if s.SupersedesNo != "OLD-9" {
		t.Errorf("SupersedesNo = %q", s.SupersedesNo)
	}
}

func TestValidate_AfterFlagParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"largest upload", []string{"--max-upload-mb=50"}, false},
		{"zero upload", []string{"--max-upload-mb=0"}, true},
		{"negative upload", []string{"--max-upload-mb=-5"}, true},
		{"upload above attachment field", []string{"--max-upload-mb=51"}, true},
		{"zero ttl", []string{"--draft-ttl=0s"}, true},
		{"negative ttl", []string{"--draft-ttl=-1m"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			s := Register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
