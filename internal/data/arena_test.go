package data

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArenaTable(t *testing.T) {
	tbl, err := ParseArenaTable([]byte(`
- name: classic
  length: 20
  height: 10
  ball_radius: 0.5
  paddle_width: 1
  paddle_height: 2
  paddle_inset: 1
- name: long
  length: 40
  height: 12
  ball_radius: 0.5
  paddle_width: 1
  paddle_height: 2.5
  paddle_inset: 2
`))
	if err != nil {
		t.Fatalf("ParseArenaTable: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("count = %d, want 2", tbl.Count())
	}
	p := tbl.Get("long")
	if p == nil || p.Length != 40 || p.PaddleHeight != 2.5 {
		t.Fatalf("long preset = %+v", p)
	}
	if tbl.Get("missing") != nil {
		t.Fatalf("unknown preset resolved")
	}
	if names := tbl.Names(); strings.Join(names, ",") != "classic,long" {
		t.Fatalf("names = %v", names)
	}
}

func TestParseArenaTableRejects(t *testing.T) {
	cases := map[string]string{
		"duplicate": "- {name: a, length: 20, height: 10, paddle_inset: 1}\n- {name: a, length: 20, height: 10, paddle_inset: 1}\n",
		"unnamed":   "- {length: 20, height: 10, paddle_inset: 1}\n",
		"inset":     "- {name: a, length: 20, height: 10, paddle_inset: 10}\n",
		"syntax":    "- name: [",
	}
	for name, body := range cases {
		if _, err := ParseArenaTable([]byte(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestShippedArenaList(t *testing.T) {
	tbl, err := LoadArenaTable(filepath.Join("..", "..", "data", "yaml", "arena_list.yaml"))
	if err != nil {
		t.Fatalf("LoadArenaTable: %v", err)
	}
	if tbl.Get("classic") == nil {
		t.Fatalf("shipped list has no classic preset")
	}
}
