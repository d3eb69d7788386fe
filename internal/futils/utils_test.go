package futils

import "testing"

func TestDigits(t *testing.T) {
	tests := []struct {
		in   int64
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{999, 3},
		{1000, 4},
		{-42, 2},
	}
	for _, tt := range tests {
		if got := Digits(tt.in); got != tt.want {
			t.Errorf("Digits(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAsciiToI64(t *testing.T) {
	tests := []struct {
		name    string
		buf     string
		delim   byte
		want    int64
		wantErr bool
	}{
		{"simple", "123", 0x01, 123, false},
		{"stops at delim", "123\x01456", 0x01, 123, false},
		{"negative", "-7", 0x01, -7, false},
		{"empty", "", 0x01, 0, true},
		{"non-digit", "12a3", 0x01, 0, true},
		{"bare dash", "-", 0x01, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AsciiToI64([]byte(tt.buf), tt.delim)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatFloatTrimsTrailingZeros(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50.5, "50.5"},
		{50.0, "50.0"},
		{0.1, "0.1"},
		{100, "100.0"},
	}
	for _, tt := range tests {
		if got := string(FormatFloat(tt.in)); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChecksumModulo256(t *testing.T) {
	var c Checksum
	_, _ = c.Write([]byte("8=FIX.4.4\x019=5\x01"))
	if c.Sum() < 0 || c.Sum() > 255 {
		t.Fatalf("sum out of range: %d", c.Sum())
	}

	var all Checksum
	for i := 0; i < 300; i++ {
		_, _ = all.Write([]byte{1})
	}
	if all.Sum() != 300%256 {
		t.Errorf("got %d, want %d", all.Sum(), 300%256)
	}
}
