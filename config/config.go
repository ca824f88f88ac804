// Package config holds the application settings that sit next to
// PocketBase's own flags (--http, --dir, ...).
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"supplierforms/collections"
	"supplierforms/services"
)

// Settings are filled from flags, which default to FORMS_* environment variables.
type Settings struct {
	RedisAddr    string
	DraftTTL     time.Duration
	MaxUploadMB  int
	CompanyName  string
	FormatNo     string
	SupersedesNo string
}

// Defaults returns the settings used when neither flag nor env var is set.
func Defaults() Settings {
	return Settings{
		DraftTTL:     services.DefaultDraftTTL,
		MaxUploadMB:  10,
		CompanyName:  "Diagnostics",
		FormatNo:     "XYZ-123",
		SupersedesNo: "ABC-456",
	}
}

// FromEnv overlays FORMS_* environment variables on the defaults. Malformed
// numeric values are logged and ignored.
func FromEnv(lookup func(string) (string, bool)) Settings {
	s := Defaults()
	if v, ok := lookup("FORMS_REDIS_ADDR"); ok {
		s.RedisAddr = v
	}
	if v, ok := lookup("FORMS_DRAFT_TTL"); ok {
		if d, err := cast.ToDurationE(v); err == nil && d > 0 {
			s.DraftTTL = d
		} else {
			log.Printf("config: ignoring FORMS_DRAFT_TTL=%q", v)
		}
	}
	if v, ok := lookup("FORMS_MAX_UPLOAD_MB"); ok {
		if n, err := cast.ToIntE(v); err == nil && n > 0 {
			s.MaxUploadMB = n
		} else {
			log.Printf("config: ignoring FORMS_MAX_UPLOAD_MB=%q", v)
		}
	}
	if v, ok := lookup("FORMS_COMPANY_NAME"); ok {
		s.CompanyName = v
	}
	if v, ok := lookup("FORMS_FORMAT_NO"); ok {
		s.FormatNo = v
	}
	if v, ok := lookup("FORMS_SUPERSEDES_NO"); ok {
		s.SupersedesNo = v
	}
	return s
}

// Register binds the settings to fs, using the environment for defaults.
// Values are only final once the command line has been parsed.
func Register(fs *pflag.FlagSet) *Settings {
	s := FromEnv(os.LookupEnv)
	fs.StringVar(&s.RedisAddr, "redis-addr", s.RedisAddr, "Redis address for quotation drafts (empty keeps drafts in memory)")
	fs.DurationVar(&s.DraftTTL, "draft-ttl", s.DraftTTL, "how long an idle quotation page keeps its lists")
	fs.IntVar(&s.MaxUploadMB, "max-upload-mb", s.MaxUploadMB, "maximum size of one attachment in MB")
	fs.StringVar(&s.CompanyName, "company-name", s.CompanyName, "company name printed on forms")
	fs.StringVar(&s.FormatNo, "format-no", s.FormatNo, "controlled document format number")
	fs.StringVar(&s.SupersedesNo, "supersedes-no", s.SupersedesNo, "controlled document supersedes number")
	return &s
}

// MaxUploadBytes is the per-file upload limit.
func (s Settings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Validate rejects values that would make the forms unusable. Flags are not
// checked while parsing, so call it once the command line has been read.
func (s Settings) Validate() error {
	if s.DraftTTL <= 0 {
		return fmt.Errorf("config: --draft-ttl must be positive, got %v", s.DraftTTL)
	}
	if s.MaxUploadMB <= 0 {
		return fmt.Errorf("config: --max-upload-mb must be positive, got %d", s.MaxUploadMB)
	}
	if limit := collections.MaxAttachmentBytes >> 20; s.MaxUploadMB > limit {
		return fmt.Errorf("config: --max-upload-mb must be at most %d, got %d", limit, s.MaxUploadMB)
	}
	return nil
}
