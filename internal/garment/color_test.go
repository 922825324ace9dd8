package garment

import (
	"errors"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		code          string
		r, g, b, a    float64
		wantErr       bool
	}{
		{code: "#ffffff", r: 1, g: 1, b: 1, a: 1},
		{code: "000000", r: 0, g: 0, b: 0, a: 1},
		{code: "#ff000080", r: 1, g: 0, b: 0, a: 128.0 / 255.0},
		{code: "#fff", wantErr: true},
		{code: "#gggggg", wantErr: true},
		{code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			color, err := ParseHexColor(tt.code)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseHexColor(%q) error = %v, want ErrInvalidColor", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.code, err)
			}
			if color.R != tt.r || color.G != tt.g || color.B != tt.b || color.A != tt.a {
				t.Errorf("ParseHexColor(%q) = %+v, want {%v %v %v %v}", tt.code, color, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		code, want string
		wantErr    bool
	}{
		{code: "#F4F4F2", want: "#f4f4f2ff"},
		{code: "11223344", want: "#11223344"},
		{code: "#123", wantErr: true},
		{code: "#zzzzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeHex(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("NormalizeHex(%q) error = %v, want ErrInvalidColor", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeHex(%q) failed: %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeHex(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
