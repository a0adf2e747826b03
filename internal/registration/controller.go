package registration

import (
	"slices"

	"github.com/themandi/JoyJoin/internal/registration/remote"
)

// fieldState is the mutable record of one field
type fieldState struct {
	field    Field
	value    string
	accepted bool
	focused  bool
	disabled bool
	validity Validity
	warnings []WarningCode
	visual   Visual
	panel    bool

	// revealed keeps the panel open after a premature submit
	revealed bool

	endpoint remote.Endpoint
	gen      uint64
	inflight *Request
	cache    *cachedVerdict
}

// cachedVerdict is the last resolved verdict of a remote-backed field
type cachedVerdict struct {
	payload string
	verdict remote.Verdict
}

func newFieldState(f Field) *fieldState {
	c := &fieldState{field: f}
	if ep, ok := remoteEndpoint(f); ok {
		c.endpoint = ep
	}
	return c
}

// hasRemote reports whether the field is confirmed by the server
func (c *fieldState) hasRemote() bool {
	return c.endpoint != ""
}

func (c *fieldState) markInvalid(codes []WarningCode) {
	c.validity = ValidityInvalid
	c.warnings = codes
	c.visual = VisualIncorrect
	c.panel = (c.focused || c.revealed) && len(codes) > 0
}

func (c *fieldState) markValid() {
	c.validity = ValidityValid
	c.warnings = nil
	c.visual = VisualCorrect
	c.panel = false
}

// markPending keeps the previous styling until the verdict arrives
func (c *fieldState) markPending() {
	c.validity = ValidityPending
	c.warnings = nil
	c.panel = false
}

// reset puts a disabled dependent field back to its unstyled state
func (c *fieldState) reset() {
	c.validity = ValidityInvalid
	c.warnings = nil
	c.visual = VisualNeutral
	c.panel = false
	c.revealed = false
}

// applyVerdict sets the field from a remote outcome
func (c *fieldState) applyVerdict(v remote.Verdict) {
	switch v {
	case remote.VerdictAccepted:
		c.markValid()
	case remote.VerdictRejected:
		c.markInvalid([]WarningCode{rejectionCode(c.field)})
	default:
		// unconfirmed: rejected styling without a reason to show
		c.markInvalid(nil)
	}
}

func (c *fieldState) hidePanel() {
	c.panel = false
	c.revealed = false
}

func (c *fieldState) snapshot() FieldState {
	return FieldState{
		Field:        c.field,
		Value:        c.value,
		Accepted:     c.accepted,
		Focused:      c.focused,
		Disabled:     c.disabled,
		Validity:     c.validity,
		Warnings:     slices.Clone(c.warnings),
		PanelVisible: c.panel,
		Visual:       c.visual,
	}
}

// FieldState is a read-only copy of one field
type FieldState struct {
	Field        Field
	Value        string
	Accepted     bool
	Focused      bool
	Disabled     bool
	Validity     Validity
	Warnings     []WarningCode
	PanelVisible bool
	Visual       Visual
}

// Messages returns the warning texts of the field
func (s FieldState) Messages() []string {
	msgs := make([]string, len(s.Warnings))
	for i, code := range s.Warnings {
		msgs[i] = Message(s.Field, code)
	}
	return msgs
}

// HasWarning reports whether code is among the field's warnings
func (s FieldState) HasWarning(code WarningCode) bool {
	return slices.Contains(s.Warnings, code)
}
