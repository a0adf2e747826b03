package registration

// Field identifies one input of the registration form
type Field int

// Form fields in page order
const (
	FieldLogin Field = iota
	FieldName
	FieldEmail
	FieldPassword
	FieldPasswordConfirm
	FieldBirthDate
	FieldRules
	fieldCount
)

// AllFields returns every field in page order
func AllFields() []Field {
	fields := make([]Field, 0, fieldCount)
	for f := FieldLogin; f < fieldCount; f++ {
		fields = append(fields, f)
	}
	return fields
}

// String returns the form parameter name of the field
func (f Field) String() string {
	switch f {
	case FieldLogin:
		return "login"
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	case FieldPasswordConfirm:
		return "password2"
	case FieldBirthDate:
		return "birth_date"
	case FieldRules:
		return "rules"
	default:
		return "unknown"
	}
}

// Label returns the human-readable field name
func (f Field) Label() string {
	switch f {
	case FieldLogin:
		return "Login"
	case FieldName:
		return "Display name"
	case FieldEmail:
		return "E-mail"
	case FieldPassword:
		return "Password"
	case FieldPasswordConfirm:
		return "Repeat password"
	case FieldBirthDate:
		return "Birth date"
	case FieldRules:
		return "I accept the rules"
	default:
		return "Unknown"
	}
}

// IsText reports whether the field holds text (all but the rules checkbox)
func (f Field) IsText() bool {
	return f >= FieldLogin && f < FieldRules
}

// Validity is the validation state of one field
type Validity int

const (
	// ValidityUnknown is the state before the first check
	ValidityUnknown Validity = iota
	ValidityInvalid
	// ValidityPending means local rules passed and a remote check is in flight
	ValidityPending
	ValidityValid
)

// String returns the string representation of the validity
func (v Validity) String() string {
	switch v {
	case ValidityInvalid:
		return "invalid"
	case ValidityPending:
		return "pending"
	case ValidityValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Visual is the styling applied to a field control
type Visual int

const (
	VisualNeutral Visual = iota
	VisualCorrect
	VisualIncorrect
)

// Class returns the CSS class of the visual state
func (v Visual) Class() string {
	switch v {
	case VisualCorrect:
		return "correct"
	case VisualIncorrect:
		return "incorrect"
	default:
		return ""
	}
}

// WarningCode is one reason a field is not valid
type WarningCode string

// Warning codes
const (
	WarnEmpty              WarningCode = "empty"
	WarnBadLength          WarningCode = "bad_length"
	WarnFirstCharNotLetter WarningCode = "first_char_not_letter"
	WarnBadCharacter       WarningCode = "bad_character"
	WarnAlreadyTaken       WarningCode = "already_taken"
	WarnBadFormat          WarningCode = "bad_format"
	WarnTooShort           WarningCode = "too_short"
	WarnNumericOnly        WarningCode = "numeric_only"
	WarnTooCommon          WarningCode = "too_common"
	WarnMismatch           WarningCode = "mismatch"
	WarnBadDate            WarningCode = "bad_date"
	WarnAgeOutOfRange      WarningCode = "age_out_of_range"
	WarnNotAccepted        WarningCode = "not_accepted"
)
