package bucket

import (
	"errors"
	"testing"
)

func TestNameHash(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "empty name",
			filename: "",
			want:     "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		{
			name:     "csv report",
			filename: "report.csv",
			want:     "daa4e1de95291bd04c1e6e6d9b22c603c43e9871",
		},
		{
			name:     "json config",
			filename: "config.json",
			want:     "c5fd3201494e82cf94e6a681cdc535b306134e1a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameHash(tt.filename); got != tt.want {
				t.Errorf("NameHash(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestIndexFromHash(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		count   int
		want    int
		wantErr error
	}{
		{name: "single bucket", hash: "daa4e1de95291bd04c1e6e6d9b22c603c43e9871", count: 1, want: 0},
		{name: "two buckets", hash: "daa4e1de95291bd04c1e6e6d9b22c603c43e9871", count: 2, want: 1},
		{name: "sixteen buckets", hash: "c5fd3201494e82cf94e6a681cdc535b306134e1a", count: 16, want: 10},
		{name: "default buckets", hash: "daa4e1de95291bd04c1e6e6d9b22c603c43e9871", count: 128, want: 113},
		{name: "1024 buckets", hash: "c5fd3201494e82cf94e6a681cdc535b306134e1a", count: 1024, want: 538},
		{name: "upper case hex", hash: "C5FD3201494E82CF94E6A681CDC535B306134E1A", count: 128, want: 26},
		{name: "not a power of two", hash: "abc", count: 100, wantErr: ErrInvalidConfiguration},
		{name: "zero buckets", hash: "abc", count: 0, wantErr: ErrInvalidConfiguration},
		{name: "hash too short", hash: "a", count: 256, wantErr: ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IndexFromHash(tt.hash, tt.count)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("IndexFromHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("IndexFromHash() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IndexFromHash() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBitsFor(t *testing.T) {
	tests := []struct {
		count    int
		wantBits int
		wantOK   bool
	}{
		{1, 0, true}, {2, 1, true}, {128, 7, true}, {4096, 12, true},
		{0, 0, false}, {-8, 0, false}, {3, 0, false}, {100, 0, false},
	}
	for _, tt := range tests {
		gotBits, gotOK := bitsFor(tt.count)
		if gotBits != tt.wantBits || gotOK != tt.wantOK {
			t.Errorf("bitsFor(%d) = (%d, %v), want (%d, %v)", tt.count, gotBits, gotOK, tt.wantBits, tt.wantOK)
		}
	}
}

func TestHexCharToInt(t *testing.T) {
	tests := []struct {
		input byte
		want  int
	}{
		{'0', 0}, {'1', 1}, {'9', 9},
		{'a', 10}, {'b', 11}, {'f', 15},
		{'A', 10}, {'B', 11}, {'F', 15},
		{'g', 0}, {'z', 0}, {' ', 0},
	}

	for _, tt := range tests {
		got := hexCharToInt(tt.input)
		if got != tt.want {
			t.Errorf("hexCharToInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
