package cmd

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"match", "convert", "detect-encoding"} {
		if !names[want] {
			t.Fatalf("expected %q subcommand to be registered, got %v", want, names)
		}
	}
}
