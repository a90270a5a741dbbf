package domain

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestPOIID_AcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want POIID
	}{
		{`{"id": 12}`, "12"},
		{`{"id": 12.0}`, "12"},
		{`{"id": "A-7"}`, "A-7"},
		{`{"id": null}`, ""},
	}
	for _, tc := range cases {
		var p PointOfInterest
		if err := sonic.UnmarshalString(tc.raw, &p); err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if p.ID != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.raw, tc.want, p.ID)
		}
	}

	var p PointOfInterest
	if err := sonic.UnmarshalString(`{"id": true}`, &p); err == nil {
		t.Fatalf("expected error for boolean id")
	}
}

func TestNewSession_LegacyPageLabels(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"🏠 首頁 (我的旅程)", PageHome},
		{"4. 總覽與匯出", PageOverview},
		{"overview", PageOverview},
		{"nowhere", PageHome},
	}
	for _, tc := range cases {
		data := NewUserData(time.Now())
		data.CurrentPage = tc.label
		if got := NewSession("u", data, time.Now()).Data.CurrentPage; got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.label, tc.want, got)
		}
	}
}
