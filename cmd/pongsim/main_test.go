package main

import "testing"

func TestRunShippedArenas(t *testing.T) {
	for _, arena := range []string{"classic", "wide", "sprint"} {
		err := run([]string{
			"-arenas", "../../data/yaml/arena_list.yaml",
			"-scripts", "../../scripts",
			"-arena", arena,
			"-frames", "1800",
		})
		if err != nil {
			t.Fatalf("%s: %v", arena, err)
		}
	}
}

func TestRunUnknownArena(t *testing.T) {
	err := run([]string{"-arenas", "../../data/yaml/arena_list.yaml", "-arena", "moon"})
	if err == nil {
		t.Fatal("unknown arena accepted")
	}
}
