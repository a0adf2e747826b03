package registration

var messages = map[Field]map[WarningCode]string{
	FieldLogin: {
		WarnEmpty:              "Enter a login.",
		WarnBadLength:          "Login must be 3 to 20 characters long.",
		WarnFirstCharNotLetter: "Login must start with a lowercase letter.",
		WarnBadCharacter:       "Login may contain only lowercase letters, digits and underscores.",
		WarnAlreadyTaken:       "This login is already taken.",
	},
	FieldName: {
		WarnEmpty:        "Enter your name.",
		WarnBadLength:    "Name must be 3 to 63 characters long.",
		WarnBadCharacter: "Name may contain only letters and spaces.",
	},
	FieldEmail: {
		WarnEmpty:     "Enter an e-mail address.",
		WarnBadFormat: "This is not a valid e-mail address.",
	},
	FieldPassword: {
		WarnEmpty:       "Enter a password.",
		WarnTooShort:    "Password must be at least 8 characters long.",
		WarnNumericOnly: "Password cannot consist of digits only.",
		WarnTooCommon:   "This password is too common.",
	},
	FieldPasswordConfirm: {
		WarnEmpty:    "Repeat the password.",
		WarnMismatch: "Passwords differ.",
	},
	FieldBirthDate: {
		WarnEmpty:         "Enter your birth date.",
		WarnBadDate:       "This is not a valid date.",
		WarnAgeOutOfRange: "You must be between 12 and 120 years old.",
	},
	FieldRules: {
		WarnNotAccepted: "You must accept the rules.",
	},
}

// Message returns the text shown for code on field
func Message(f Field, code WarningCode) string {
	if msg, ok := messages[f][code]; ok {
		return msg
	}
	return string(code)
}
