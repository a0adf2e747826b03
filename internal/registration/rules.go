package registration

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/themandi/JoyJoin/internal/registration/remote"
	"github.com/themandi/JoyJoin/pkg/core/validation"
)

var (
	loginCharsRegex = regexp.MustCompile(`^[a-z0-9_]*$`)
	nameCharsRegex  = regexp.MustCompile(`^[a-zA-Z ąęćżźńółśĄĘĆŻŹŃÓŁŚ]*$`)
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@([a-zA-Z0-9-]+\.)+[a-zA-Z0-9]{2,4}$`)
	nonDigitRegex   = regexp.MustCompile(`[^0-9]`)
)

// newValidator returns a validator with the form's custom tags registered
func newValidator() *validator.Validate {
	v := validator.New()

	custom := map[string]func(s string) bool{
		"loginstart": func(s string) bool {
			return s != "" && s[0] >= 'a' && s[0] <= 'z'
		},
		"loginchars": loginCharsRegex.MatchString,
		"personname": nameCharsRegex.MatchString,
		"joyemail":   emailRegex.MatchString,
		"notnumeric": nonDigitRegex.MatchString,
	}
	for tag, fn := range custom {
		fn := fn
		// registration only fails for empty tags or nil funcs
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
	}

	return v
}

// ruleset holds the local rule chain of every field
type ruleset struct {
	chains [fieldCount]*validation.Chain
}

// newRuleset builds the chains; password supplies the current Password value
// for the confirmation comparison.
func newRuleset(password func() string) *ruleset {
	v := newValidator()
	rs := &ruleset{}

	rs.chains[FieldLogin] = validation.NewChain(FieldLogin.String(), v).
		Require(string(WarnEmpty)).
		Add(string(WarnBadLength), "min=3,max=20").
		Add(string(WarnFirstCharNotLetter), "loginstart").
		Add(string(WarnBadCharacter), "loginchars")

	rs.chains[FieldName] = validation.NewChain(FieldName.String(), v).
		Require(string(WarnEmpty)).
		Add(string(WarnBadLength), "min=3,max=63").
		Add(string(WarnBadCharacter), "personname")

	rs.chains[FieldEmail] = validation.NewChain(FieldEmail.String(), v).
		Require(string(WarnEmpty)).
		Add(string(WarnBadFormat), "joyemail").
		StopOnFirstError(true)

	rs.chains[FieldPassword] = validation.NewChain(FieldPassword.String(), v).
		Require(string(WarnEmpty)).
		Add(string(WarnTooShort), "min=8").
		Add(string(WarnNumericOnly), "notnumeric")

	rs.chains[FieldPasswordConfirm] = validation.NewChain(FieldPasswordConfirm.String(), v).
		Require(string(WarnEmpty)).
		AddCompare(string(WarnMismatch), "eqcsfield", func() any { return password() }).
		StopOnFirstError(true)

	rs.chains[FieldBirthDate] = validation.NewChain(FieldBirthDate.String(), v).
		Require(string(WarnEmpty)).
		AddFunc(string(WarnBadDate), func(value any) bool {
			_, err := NormalizeBirthDate(value.(string))
			return err == nil
		}).
		StopOnFirstError(true)

	rs.chains[FieldRules] = validation.NewChain(FieldRules.String(), v).
		Require(string(WarnNotAccepted))

	return rs
}

// check runs the local rules of f against its current input
func (rs *ruleset) check(c *fieldState) ([]WarningCode, bool) {
	var value any = c.value
	switch c.field {
	case FieldName:
		value = norm.NFC.String(c.value)
	case FieldBirthDate:
		value = strings.TrimSpace(c.value)
	case FieldRules:
		value = c.accepted
	}

	res := rs.chains[c.field].Validate(value)
	if res.Valid {
		return nil, true
	}

	codes := make([]WarningCode, len(res.Codes))
	for i, code := range res.Codes {
		codes[i] = WarningCode(code)
	}
	return codes, false
}

// remoteEndpoint returns the server check backing f, if any
func remoteEndpoint(f Field) (remote.Endpoint, bool) {
	switch f {
	case FieldLogin:
		return remote.EndpointLoginAvailable, true
	case FieldPassword:
		return remote.EndpointPasswordNotCommon, true
	case FieldBirthDate:
		return remote.EndpointAgeEligible, true
	}
	return "", false
}

// rejectionCode is the warning for a remote "false"
func rejectionCode(f Field) WarningCode {
	switch f {
	case FieldLogin:
		return WarnAlreadyTaken
	case FieldPassword:
		return WarnTooCommon
	default:
		return WarnAgeOutOfRange
	}
}

// remotePayload is the value sent to the server for f
func remotePayload(c *fieldState) string {
	if c.field == FieldBirthDate {
		// local rules already proved the date parses
		date, _ := NormalizeBirthDate(c.value)
		return date
	}
	return c.value
}
