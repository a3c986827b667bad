package overlay

// Visibility says whether the controls are drawn. Every Show hands out a
// token, and only a Hide carrying the latest token takes effect, so a timer
// armed before newer activity cannot hide the controls.
type Visibility struct {
	visible bool
	token   uint64
}

func NewVisibility() *Visibility {
	return &Visibility{visible: true}
}

func (v *Visibility) Visible() bool {
	return v.visible
}

// Show makes the controls visible and returns the token for the next Hide.
func (v *Visibility) Show() uint64 {
	v.visible = true
	v.token++
	return v.token
}

// Hide hides the controls if no Show happened since token was issued.
func (v *Visibility) Hide(token uint64) bool {
	if token != v.token || !v.visible {
		return false
	}
	v.visible = false
	return true
}
