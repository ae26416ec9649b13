package puzzle

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		tag     string
		want    Kind
		wantErr error
	}{
		{tag: "tower_of_hanoi", want: KindTowerOfHanoi},
		{tag: "TowerOfHanoi", want: KindTowerOfHanoi},
		{tag: "river_crossing", want: KindRiverCrossing},
		{tag: "RiverCrossing", want: KindRiverCrossing},
		{tag: " riverCrossing ", want: KindRiverCrossing},
		{tag: "sudoku", wantErr: ErrUnknownKind},
		{tag: "", wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseKind(tt.tag)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseKind(%q) error = %v, want %v", tt.tag, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q): %v", tt.tag, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		params  Params
		want    Kind
		wantK   int
		wantErr error
	}{
		{
			name:   "tower of hanoi",
			kind:   KindTowerOfHanoi,
			params: Params{N: 3},
			want:   KindTowerOfHanoi,
		},
		{
			name:   "river crossing with explicit capacity",
			kind:   KindRiverCrossing,
			params: Params{N: 2, K: 2},
			want:   KindRiverCrossing,
			wantK:  2,
		},
		{
			name:   "river crossing defaults capacity to 3",
			kind:   KindRiverCrossing,
			params: Params{N: 4},
			want:   KindRiverCrossing,
			wantK:  3,
		},
		{
			name:    "unknown kind",
			kind:    Kind("checkers"),
			params:  Params{N: 3},
			wantErr: ErrUnknownKind,
		},
		{
			name:    "size below minimum",
			kind:    KindTowerOfHanoi,
			params:  Params{N: 0},
			wantErr: ErrInvalidSize,
		},
		{
			name:    "capacity below minimum",
			kind:    KindRiverCrossing,
			params:  Params{N: 2, K: -1},
			wantErr: ErrInvalidSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := New(tt.kind, tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(): %v", err)
			}
			if engine.Kind() != tt.want {
				t.Errorf("Kind() = %q, want %q", engine.Kind(), tt.want)
			}
			if engine.Params().N != tt.params.N {
				t.Errorf("Params().N = %d, want %d", engine.Params().N, tt.params.N)
			}
			if tt.wantK != 0 && engine.Params().K != tt.wantK {
				t.Errorf("Params().K = %d, want %d", engine.Params().K, tt.wantK)
			}
		})
	}
}
