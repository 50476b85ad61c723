package domain

import "testing"

func TestVectorPayloadOf(t *testing.T) {
	tests := []struct {
		name      string
		input     [][]float32
		wantState VectorState
		wantLen   int
	}{
		{
			name:      "nil slice is missing",
			input:     nil,
			wantState: VectorsMissing,
		},
		{
			name:      "empty non-nil slice is empty",
			input:     [][]float32{},
			wantState: VectorsEmpty,
		},
		{
			name:      "vectors are present",
			input:     [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			wantState: VectorsPresent,
			wantLen:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := VectorPayloadOf(tt.input)
			if payload.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", payload.State(), tt.wantState)
			}
			if len(payload.Vectors()) != tt.wantLen {
				t.Errorf("len(Vectors()) = %d, want %d", len(payload.Vectors()), tt.wantLen)
			}
		})
	}
}

func TestPresentVectors_CollapsesEmpty(t *testing.T) {
	if got := PresentVectors(nil).State(); got != VectorsEmpty {
		t.Errorf("PresentVectors(nil).State() = %v, want %v", got, VectorsEmpty)
	}
	if got := PresentVectors([]Vector{}).State(); got != VectorsEmpty {
		t.Errorf("PresentVectors(empty).State() = %v, want %v", got, VectorsEmpty)
	}
}

func TestVectorState_String(t *testing.T) {
	tests := []struct {
		state VectorState
		want  string
	}{
		{VectorsMissing, "missing"},
		{VectorsEmpty, "empty"},
		{VectorsPresent, "present"},
		{VectorState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("VectorState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
