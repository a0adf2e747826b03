// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     registration
// Description: Validation engine of the JoyJoin registration form
// Created:     2026-10-15
// License:     MIT
// ============================================================================

// Package registration implements the validation engine of the registration
// form: per-field state, local rules, server-confirmed checks, the focus-driven
// warning panels, the Password -> PasswordConfirm dependency and the submit
// gate.
//
// Form is a plain state machine and is not safe for concurrent use. It never
// performs I/O: operations that need a remote check return Requests, and the
// caller feeds the outcome back through Resolve. Every request carries the
// generation of its field; a Result whose generation is no longer current
// belongs to a superseded value.
package registration

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/themandi/JoyJoin/internal/registration/remote"
	"github.com/themandi/JoyJoin/pkg/core/metrics"
)

// StalePolicy decides what happens to verdicts for superseded values
type StalePolicy int

const (
	// StaleDiscard drops them: the latest request wins
	StaleDiscard StalePolicy = iota
	// StaleApply applies them anyway: the last resolved request wins
	StaleApply
)

// String returns the config name of the policy
func (p StalePolicy) String() string {
	if p == StaleApply {
		return "apply"
	}
	return "discard"
}

// ParseStalePolicy parses "discard" or "apply"; empty means discard
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "discard":
		return StaleDiscard, nil
	case "apply":
		return StaleApply, nil
	}
	return StaleDiscard, fmt.Errorf("unknown stale response policy %q", s)
}

// Request asks the caller to run one remote check
type Request struct {
	Field      Field
	Endpoint   remote.Endpoint
	Payload    string
	Generation uint64
}

// Result is the outcome of a Request
type Result struct {
	Request
	Verdict remote.Verdict
	Err     error
}

// Options configures a Form
type Options struct {
	StalePolicy StalePolicy
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Form holds the state of all seven fields
type Form struct {
	fields          [fieldCount]*fieldState
	rules           *ruleset
	link            DependencyLink
	policy          StalePolicy
	submitAttempted bool

	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewForm creates a form with every field Unknown and the confirmation disabled
func NewForm(opts Options) *Form {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	fm := &Form{
		link:    PasswordLink,
		policy:  opts.StalePolicy,
		log:     log,
		metrics: opts.Metrics,
	}
	for _, f := range AllFields() {
		fm.fields[f] = newFieldState(f)
	}
	fm.fields[fm.link.Dependent].disabled = true
	fm.rules = newRuleset(func() string { return fm.fields[FieldPassword].value })

	return fm
}

func (fm *Form) field(f Field) *fieldState {
	if f < 0 || f >= fieldCount {
		return nil
	}
	return fm.fields[f]
}

// Input records a new value typed into a text field.
// Every warning panel of the form is hidden before the field is validated.
// Input into a disabled field is ignored.
func (fm *Form) Input(f Field, value string) []Request {
	c := fm.field(f)
	if c == nil || !f.IsText() || c.disabled {
		return nil
	}

	c.value = value
	fm.takeFocus(c)
	fm.hideAllPanels()
	return fm.validate(f)
}

// SetRulesAccepted toggles the rules checkbox
func (fm *Form) SetRulesAccepted(accepted bool) []Request {
	c := fm.fields[FieldRules]
	c.accepted = accepted
	fm.takeFocus(c)
	fm.hideAllPanels()
	return fm.validate(FieldRules)
}

// Focus moves input focus to f. Text fields are re-validated as if the
// current value had just been typed; the checkbox only records the focus.
func (fm *Form) Focus(f Field) []Request {
	c := fm.field(f)
	if c == nil || c.disabled {
		return nil
	}

	fm.takeFocus(c)
	if !f.IsText() {
		return nil
	}
	fm.hideAllPanels()
	return fm.validate(f)
}

// Blur removes focus from f and hides its panel. Validity is untouched.
func (fm *Form) Blur(f Field) {
	c := fm.field(f)
	if c == nil {
		return
	}
	c.focused = false
	c.hidePanel()
}

// takeFocus gives c the focus; whichever field held it is blurred
func (fm *Form) takeFocus(c *fieldState) {
	for _, other := range fm.fields {
		if other != c && other.focused {
			other.focused = false
			other.hidePanel()
		}
	}
	c.focused = true
}

func (fm *Form) hideAllPanels() {
	for _, c := range fm.fields {
		c.hidePanel()
	}
}

// Validate runs the rules of f and returns its new validity together with
// the remote checks to issue
func (fm *Form) Validate(f Field) (Validity, []Request) {
	c := fm.field(f)
	if c == nil {
		return ValidityUnknown, nil
	}
	reqs := fm.validate(f)
	return c.validity, reqs
}

func (fm *Form) validate(f Field) []Request {
	c := fm.fields[f]
	if fm.link.gates(fm, f) {
		return nil
	}

	var reqs []Request
	codes, ok := fm.rules.check(c)
	switch {
	case !ok:
		c.gen++
		c.inflight = nil
		c.markInvalid(codes)
	case !c.hasRemote():
		c.markValid()
	default:
		reqs = fm.confirm(c)
	}

	fm.log.Debug("field validated",
		zap.Stringer("field", f),
		zap.Stringer("validity", c.validity),
		zap.Int("warnings", len(c.warnings)))

	return append(reqs, fm.propagate(c)...)
}

// confirm moves a locally valid field to its remote verdict. A cached verdict
// for the same payload is reused and a check already in flight for it is not
// issued twice.
func (fm *Form) confirm(c *fieldState) []Request {
	payload := remotePayload(c)

	if c.cache != nil && c.cache.payload == payload {
		c.gen++
		c.inflight = nil
		c.applyVerdict(c.cache.verdict)
		return nil
	}

	if c.inflight != nil && c.inflight.Payload == payload {
		c.markPending()
		return nil
	}

	c.gen++
	req := Request{
		Field:      c.field,
		Endpoint:   c.endpoint,
		Payload:    payload,
		Generation: c.gen,
	}
	c.inflight = &req
	c.markPending()

	return []Request{req}
}

// propagate notifies the dependency link about the primary's new validity
func (fm *Form) propagate(c *fieldState) []Request {
	if c.field != fm.link.Primary {
		return nil
	}
	return fm.link.onPrimaryValidityChanged(fm, c.validity)
}

// Resolve applies the outcome of a remote check. A Result for a superseded
// generation is handled by the stale policy.
func (fm *Form) Resolve(res Result) []Request {
	c := fm.field(res.Field)
	if c == nil || !c.hasRemote() {
		return nil
	}

	verdict := res.Verdict
	if res.Err != nil {
		verdict = remote.VerdictUnconfirmed
	}
	if verdict != remote.VerdictUnconfirmed {
		c.cache = &cachedVerdict{payload: res.Payload, verdict: verdict}
	}

	if res.Generation != c.gen || c.inflight == nil {
		fm.metrics.IncStaleResponse(res.Field.String())
		fm.log.Debug("stale verdict",
			zap.Stringer("field", res.Field),
			zap.Uint64("generation", res.Generation),
			zap.Uint64("current", c.gen),
			zap.Stringer("policy", fm.policy))
		if fm.policy == StaleDiscard {
			return nil
		}
	} else {
		c.inflight = nil
	}

	if res.Err != nil {
		fm.log.Warn("remote check unconfirmed",
			zap.Stringer("field", res.Field),
			zap.String("endpoint", string(res.Endpoint)),
			zap.Error(res.Err))
	}

	c.applyVerdict(verdict)
	return fm.propagate(c)
}

// AttemptSubmit reports whether the form may be submitted. It succeeds only
// when every field is already Valid; otherwise every other field is
// re-validated with its warnings revealed, and the resulting checks are
// returned.
func (fm *Form) AttemptSubmit() (bool, []Request) {
	fm.submitAttempted = true

	if fm.Submittable() {
		fm.metrics.IncSubmitAttempt(true)
		fm.log.Info("submit forwarded")
		return true, nil
	}

	var reqs []Request
	for _, c := range fm.fields {
		if c.validity == ValidityValid {
			continue
		}
		c.revealed = true
		reqs = append(reqs, fm.validate(c.field)...)
	}

	fm.metrics.IncSubmitAttempt(false)
	fm.log.Info("submit blocked", zap.Int("checks", len(reqs)))
	return false, reqs
}

// Submittable reports whether all fields are Valid
func (fm *Form) Submittable() bool {
	for _, c := range fm.fields {
		if c.validity != ValidityValid {
			return false
		}
	}
	return true
}

// Values returns the form as submitted to the server
func (fm *Form) Values() url.Values {
	v := url.Values{}
	for _, c := range fm.fields {
		switch c.field {
		case FieldRules:
			if c.accepted {
				v.Set(c.field.String(), "on")
			}
		case FieldBirthDate:
			date, err := NormalizeBirthDate(c.value)
			if err != nil {
				date = c.value
			}
			v.Set(c.field.String(), date)
		default:
			v.Set(c.field.String(), c.value)
		}
	}
	return v
}

// Snapshot returns a copy of the whole form state
func (fm *Form) Snapshot() FormState {
	s := FormState{
		Fields:          make([]FieldState, 0, fieldCount),
		SubmitAttempted: fm.submitAttempted,
		Submittable:     fm.Submittable(),
	}
	for _, c := range fm.fields {
		s.Fields = append(s.Fields, c.snapshot())
	}
	return s
}

// FormState is a read-only copy of the form
type FormState struct {
	Fields          []FieldState
	SubmitAttempted bool
	Submittable     bool
}

// Field returns the state of f
func (s FormState) Field(f Field) FieldState {
	if f < 0 || int(f) >= len(s.Fields) {
		return FieldState{Field: f}
	}
	return s.Fields[f]
}
