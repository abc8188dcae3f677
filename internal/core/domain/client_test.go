package domain

import (
	"testing"

	"gorm.io/datatypes"
)

func str(s string) *string { return &s }

func TestBrandingPatch_Columns(t *testing.T) {
	cols := BrandingPatch{PrimaryColor: str("#fff"), LogoURL: str("")}.Columns()

	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %v", cols)
	}
	if cols["branding_primary_color"] != "#fff" {
		t.Fatalf("primary color column: %v", cols["branding_primary_color"])
	}
	if v, ok := cols["branding_logo_url"]; !ok || v != nil {
		t.Fatalf("empty string must clear the column, got %v (present=%v)", v, ok)
	}
	if _, ok := cols["branding_slogan"]; ok {
		t.Fatal("omitted fields must not be written")
	}
}

func TestBrandingPatch_ApplyLeavesUnsetFields(t *testing.T) {
	b := Branding{LogoURL: str("https://cdn/logo.png"), Slogan: str("We fix it")}

	BrandingPatch{PrimaryColor: str("#123456"), Slogan: str("")}.Apply(&b)

	if b.LogoURL == nil || *b.LogoURL != "https://cdn/logo.png" {
		t.Fatalf("logo must be unchanged, got %v", b.LogoURL)
	}
	if b.PrimaryColor == nil || *b.PrimaryColor != "#123456" {
		t.Fatalf("primary color not applied: %v", b.PrimaryColor)
	}
	if b.Slogan != nil {
		t.Fatalf("slogan must be cleared, got %q", *b.Slogan)
	}
}

func TestSettingsPatch_Apply(t *testing.T) {
	s := Settings{Timezone: "UTC", Currency: "USD", CustomFields: datatypes.JSONMap{"a": 1, "b": 2}}

	SettingsPatch{
		Currency:     str("EUR"),
		CustomFields: map[string]any{"b": nil, "c": "new"},
	}.Apply(&s)

	if s.Timezone != "UTC" || s.Currency != "EUR" {
		t.Fatalf("unexpected scalar settings: %+v", s)
	}
	if _, ok := s.CustomFields["b"]; ok {
		t.Fatal("nil value must delete the key")
	}
	if s.CustomFields["a"] != 1 || s.CustomFields["c"] != "new" {
		t.Fatalf("unexpected custom fields: %v", s.CustomFields)
	}
}

func TestSettingsPatch_ApplyInitialisesCustomFields(t *testing.T) {
	var s Settings
	SettingsPatch{CustomFields: map[string]any{"k": "v"}}.Apply(&s)
	if s.CustomFields["k"] != "v" {
		t.Fatalf("custom fields not initialised: %v", s.CustomFields)
	}
}
