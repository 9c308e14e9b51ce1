package act

// Kind discriminates the action variants in serialized form.
type Kind string

const (
	KindCircle       Kind = "circle"
	KindSegment      Kind = "segment"
	KindIntersection Kind = "intersection"
	KindMacro        Kind = "macro"
)

// Action is one committed construction action. The interface is sealed;
// the four variants below are the whole vocabulary.
type Action interface {
	Kind() Kind
	action()
}

// DrawCircle commits "compass: circle centered at CenterID through
// RadiusPointID".
type DrawCircle struct {
	CenterID      string `json:"center"`
	RadiusPointID string `json:"radius_point"`
}

func (DrawCircle) Kind() Kind { return KindCircle }
func (DrawCircle) action()    {}

// DrawSegment commits "straightedge: segment from FromID to ToID".
type DrawSegment struct {
	FromID string `json:"from"`
	ToID   string `json:"to"`
}

func (DrawSegment) Kind() Kind { return KindSegment }
func (DrawSegment) action()    {}

// MarkIntersection commits "mark the candidate of the unordered parent
// pair {OfA, OfB} at index Which". Label optionally names the resulting
// point; an empty label draws from the alphabet sequence.
type MarkIntersection struct {
	OfA   string `json:"of_a"`
	OfB   string `json:"of_b"`
	Which int    `json:"which"`
	Label string `json:"label,omitempty"`
}

func (MarkIntersection) Kind() Kind { return KindIntersection }
func (MarkIntersection) action()    {}

// InvokeMacro commits "run proposition PropID as a single step, feeding
// it these points as its givens".
type InvokeMacro struct {
	PropID        string   `json:"prop"`
	InputPointIDs []string `json:"inputs"`
}

func (InvokeMacro) Kind() Kind { return KindMacro }
func (InvokeMacro) action()    {}
