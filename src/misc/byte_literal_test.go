package misc

import "testing"

func TestParseByteLiteral(t *testing.T) {
	cases := []struct {
		literal string
		want    uint64
	}{
		{"0", 0},
		{"4096", 4096},
		{"1_048_576", 1 << 20},
		{"0x1000", 0x1000},
		{"0x1_0000_0000", 0x1_0000_0000},
		{"0X20_0000", 0x20_0000},
		{" 0x40 ", 0x40},
		{"16GB", 16 << 30},
		{"2MB", 2 << 20},
		{"64kb", 64 << 10},
		{"3MiB", 3 << 20},
		{"1 GiB", 1 << 30},
		{"10KB", 10 << 10},
		{"0x010", 0x10},
	}

	for _, c := range cases {
		got, err := ParseByteLiteral(c.literal)
		if err != nil {
			t.Fatalf("parse %q: %v", c.literal, err)
		}
		if got != c.want {
			t.Fatalf("parse %q: got %d, want %d", c.literal, got, c.want)
		}
	}
}

func TestParseByteLiteralRejectsGarbage(t *testing.T) {
	for _, literal := range []string{"", "   ", "GB", "0xZZ", "twelve", "-4", "99999999999GB", "010", "0_7", "08KB"} {
		if _, err := ParseByteLiteral(literal); err == nil {
			t.Fatalf("expected error for %q", literal)
		}
	}
}
