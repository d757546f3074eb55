package tour

// Placement positions a step's highlight relative to its target element.
type Placement string

const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
	PlacementCenter Placement = "center"
)

// ValidPlacements defines the allowed placement values.
var ValidPlacements = map[Placement]bool{
	PlacementTop:    true,
	PlacementBottom: true,
	PlacementLeft:   true,
	PlacementRight:  true,
	PlacementCenter: true,
}

// Transition identifies which navigation operation a side effect is bound to.
type Transition string

const (
	TransitionNext Transition = "next"
	TransitionPrev Transition = "prev"
	TransitionSkip Transition = "skip"
)

// Definition is a named, ordered sequence of guided UI steps.
//
// UserRoles is an allow-list: empty means the tour is visible to everyone.
// Steps order is significant and immutable after load.
type Definition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Page        string   `json:"page,omitempty"`
	UserRoles   []string `json:"user_roles,omitempty"`
	Steps       []Step   `json:"steps"`
}

// Step is one stop in a tour, anchored to a UI element via Target.
//
// OnNext/OnPrev/OnSkip name side-effect handlers resolved against the
// effects registry at runtime. A target that resolves to nothing leaves the
// highlight unanchored; the overlay treats that as non-fatal.
type Step struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Target     string    `json:"target"`
	Placement  Placement `json:"placement"`
	NextButton string    `json:"next_button,omitempty"`
	PrevButton string    `json:"prev_button,omitempty"`
	ShowSkip   bool      `json:"show_skip,omitempty"`
	OnNext     string    `json:"on_next,omitempty"`
	OnPrev     string    `json:"on_prev,omitempty"`
	OnSkip     string    `json:"on_skip,omitempty"`
}

// EffectFor returns the effect name bound to the given transition, or ""
// when the step declares none.
func (s Step) EffectFor(t Transition) string {
	switch t {
	case TransitionNext:
		return s.OnNext
	case TransitionPrev:
		return s.OnPrev
	case TransitionSkip:
		return s.OnSkip
	}
	return ""
}

// VisibleTo reports whether the definition is exposed to the given role.
// A definition without UserRoles is visible to everyone.
func (d Definition) VisibleTo(role string) bool {
	if len(d.UserRoles) == 0 {
		return true
	}
	for _, r := range d.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}
