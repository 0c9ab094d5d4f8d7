package config

import (
	"testing"

	"github.com/John-Robertt/acmensa/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("内置目录解析失败：%v", err)
	}
	if c.DefaultMensa() != "ahornstrasse" {
		t.Fatalf("期望默认 ahornstrasse，实际 %q", c.DefaultMensa())
	}
	want := []string{"academica", "ahornstrasse", "bistro_templergraben", "bayernallee", "eupener_strasse", "kmac", "suedpark", "vita", "juelich"}
	got := c.Keys()
	if len(got) != len(want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("期望 %v，实际 %v", want, got)
		}
	}
	if _, ok := c.Lookup("Ahornstrasse"); ok {
		t.Fatalf("Lookup 应区分大小写")
	}
}

func TestBuildPath(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("内置目录解析失败：%v", err)
	}
	ep := c.Endpoint
	const prefix = "files/content/Downloads/Gastronomie/Speiseplaene/"
	cases := []struct {
		next bool
		loc  domain.Locale
		want string
	}{
		{false, domain.German, prefix + "speiseplan_mensa_academica_diese_woche.html"},
		{true, domain.German, prefix + "speiseplan_mensa_academica_naechste_woche.html"},
		{false, domain.English, prefix + "menu_mensa_academica_this_week.html"},
		{true, domain.English, prefix + "menu_mensa_academica_next_week.html"},
	}
	for _, tc := range cases {
		if got := ep.BuildPath("academica", tc.next, tc.loc); got != tc.want {
			t.Fatalf("BuildPath(next=%v, %v) 期望 %q，实际 %q", tc.next, tc.loc, tc.want, got)
		}
	}
}

func TestParseCatalog_Strict(t *testing.T) {
	_, err := parseCatalog([]byte(`
[endpoint]
host = "https://example.com"
hots = "typo"

[[mensa]]
key = "a"
default = true
`))
	if err == nil {
		t.Fatalf("未知字段期望报错")
	}

	_, err = parseCatalog([]byte(`
[endpoint]
host = "https://example.com"

[[mensa]]
key = "a"

[[mensa]]
key = "b"
`))
	if err == nil {
		t.Fatalf("没有默认 mensa 期望报错")
	}
}

func TestFillSuffix(t *testing.T) {
	if got := FillSuffix("{{name}}-{{week}}-{{name}}", "vita", "next"); got != "vita-next-vita" {
		t.Fatalf("期望替换全部占位符，实际 %q", got)
	}
}
