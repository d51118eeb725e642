package parser

import "testing"

func TestWindowsWithDefaults(t *testing.T) {
	d := DefaultWindows()

	tests := []struct {
		name string
		in   Windows
		want Windows
	}{
		{"zero", Windows{}, d},
		{"one field", Windows{PrefixLookback: 5}, func() Windows { w := d; w.PrefixLookback = 5; return w }()},
		{"negative", Windows{HeaderScanRows: -1, BaseLookahead: 7}, func() Windows { w := d; w.BaseLookahead = 7; return w }()},
	}

	for _, tt := range tests {
		if got := tt.in.withDefaults(); got != tt.want {
			t.Errorf("%s: withDefaults() = %+v, expected %+v", tt.name, got, tt.want)
		}
	}
}
