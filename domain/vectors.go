package domain

// Vector is a fixed-length embedding produced by an upstream embedding stage.
type Vector []float32

// VectorState distinguishes the three shapes an upstream record's vector
// payload can arrive in. A producer that never ran the embedding step sends
// no field at all (Missing), a producer that ran it against empty input
// sends an empty list (Empty).
type VectorState int

const (
	VectorsMissing VectorState = iota
	VectorsEmpty
	VectorsPresent
)

func (s VectorState) String() string {
	switch s {
	case VectorsMissing:
		return "missing"
	case VectorsEmpty:
		return "empty"
	case VectorsPresent:
		return "present"
	default:
		return "unknown"
	}
}

// VectorPayload is the tagged representation of a chunk's vectors.
type VectorPayload struct {
	state   VectorState
	vectors []Vector
}

// MissingVectors returns the payload for a record whose vectors field was
// absent.
func MissingVectors() VectorPayload {
	return VectorPayload{state: VectorsMissing}
}

// EmptyVectors returns the payload for a record whose vectors field was
// present but contained no vectors.
func EmptyVectors() VectorPayload {
	return VectorPayload{state: VectorsEmpty}
}

// PresentVectors returns the payload for a record carrying vectors. An empty
// slice collapses to the Empty state so callers cannot construct a Present
// payload with nothing in it.
func PresentVectors(vectors []Vector) VectorPayload {
	if len(vectors) == 0 {
		return EmptyVectors()
	}
	return VectorPayload{state: VectorsPresent, vectors: vectors}
}

// VectorPayloadOf maps a decoded wire value to the tagged representation.
// A nil slice is what encoding/json produces for a null or omitted field,
// a non-nil empty slice is what it produces for [].
func VectorPayloadOf(vectors [][]float32) VectorPayload {
	if vectors == nil {
		return MissingVectors()
	}
	if len(vectors) == 0 {
		return EmptyVectors()
	}
	vs := make([]Vector, len(vectors))
	for i, v := range vectors {
		vs[i] = Vector(v)
	}
	return VectorPayload{state: VectorsPresent, vectors: vs}
}

func (p VectorPayload) State() VectorState {
	return p.state
}

// Vectors returns the vectors of a Present payload, nil otherwise.
func (p VectorPayload) Vectors() []Vector {
	return p.vectors
}
