package importer

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/forest6511/credvault/pkg/audit"
	"github.com/forest6511/credvault/pkg/vault"
)

func TestGetParser(t *testing.T) {
	for _, name := range ValidSources() {
		p, err := GetParser(Source(name))
		if err != nil {
			t.Fatalf("GetParser(%q) error = %v", name, err)
		}
		if p.Source() != Source(name) {
			t.Errorf("Source() = %q, want %q", p.Source(), name)
		}
	}

	if _, err := GetParser("keepass"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("GetParser(keepass) error = %v, want ErrUnsupportedSource", err)
	}
}

func TestFallbackName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.github.com/login", "github.com"},
		{"http://mail.ru:8080/", "mail.ru"},
		{"example.org", "example.org"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FallbackName(tt.url); got != tt.want {
			t.Errorf("FallbackName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDecodeHTMLEntities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a &amp; b", "a & b"},
		{"&lt;tag&gt;", "<tag>"},
		{"&quot;q&quot; &#39;s&apos;", `"q" 's'`},
		{"&amp;lt;", "&lt;"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := DecodeHTMLEntities(tt.in); got != tt.want {
			t.Errorf("DecodeHTMLEntities(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryFromNormalizesName(t *testing.T) {
	// "Cafe" followed by a combining acute accent composes to U+00E9.
	e, reason := entryFrom("Cafe\u0301 ", "", "u", "p", "")
	if reason != "" {
		t.Fatalf("unexpected skip reason %q", reason)
	}
	if e.Name != "Caf\u00e9" {
		t.Errorf("Name = %q, want %q", e.Name, "Caf\u00e9")
	}
}

func TestEntryFromKeepsCredentialsUntrimmed(t *testing.T) {
	e, reason := entryFrom("  mail.ru ", "", " user@x ", " p w ", "")
	if reason != "" {
		t.Fatalf("unexpected skip reason %q", reason)
	}
	if e.Name != "mail.ru" {
		t.Errorf("Name = %q, want %q", e.Name, "mail.ru")
	}
	if e.Login != " user@x " || e.Password != " p w " {
		t.Errorf("login/password changed: %q %q", e.Login, e.Password)
	}
	if e.Note != nil {
		t.Errorf("Note = %q, want nil", *e.Note)
	}
}

func TestEntryFromSkipReasons(t *testing.T) {
	tests := []struct {
		name, url, login, password string
		want                       string
	}{
		{"", "", "u", "p", "no name or URL"},
		{"site", "", "", "p", "no login"},
		{"site", "", "u", "", "no password"},
	}

	for _, tt := range tests {
		if _, reason := entryFrom(tt.name, tt.url, tt.login, tt.password, ""); reason != tt.want {
			t.Errorf("entryFrom(%q, %q, %q, %q) reason = %q, want %q",
				tt.name, tt.url, tt.login, tt.password, reason, tt.want)
		}
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	s := vault.New(filepath.Join(dir, "vault.sqlite3"), audit.NewLogger(filepath.Join(dir, "dbmanager.log"), time.UTC))
	if err := s.EnsureTable(); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}

	entries := []vault.Entry{
		{Name: "mail.ru", Login: "a@x", Password: "1"},
		{Name: "mail.ru", Login: "", Password: "2"},
		{Name: "github.com", Login: "b@x", Password: "3", Note: vault.StringPtr("work")},
	}

	sum, err := Import(s, entries)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(sum.IDs) != 3 || sum.IDs[0] != 1 || sum.IDs[2] != 3 {
		t.Errorf("IDs = %v, want [1 2 3]", sum.IDs)
	}

	// Entries built by hand reach the store as given, empty login included.
	mail, err := s.SelectByName("mail.ru")
	if err != nil {
		t.Fatalf("SelectByName() error = %v", err)
	}
	if len(mail) != 2 || mail[1].Login != "" {
		t.Errorf("unexpected mail.ru records %+v", mail)
	}

	records, err := s.SelectByName("github.com")
	if err != nil {
		t.Fatalf("SelectByName() error = %v", err)
	}
	if len(records) != 1 || records[0].Note == nil || *records[0].Note != "work" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestImportStopsOnBackingFault(t *testing.T) {
	dir := t.TempDir()
	s := vault.New(filepath.Join(dir, "vault.sqlite3"), audit.NewLogger(filepath.Join(dir, "dbmanager.log"), time.UTC))

	// No table yet.
	sum, err := Import(s, []vault.Entry{{Name: "mail.ru", Login: "a@x", Password: "1"}})
	if !errors.Is(err, vault.ErrBackingIO) {
		t.Fatalf("Import() error = %v, want ErrBackingIO", err)
	}
	if len(sum.IDs) != 0 {
		t.Errorf("IDs = %v, want none", sum.IDs)
	}
}
