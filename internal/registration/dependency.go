package registration

// DependencyLink couples a dependent field to a primary one: the dependent is
// enabled and re-validated only while the primary is Valid.
type DependencyLink struct {
	Primary   Field
	Dependent Field
}

// PasswordLink is the Password -> PasswordConfirm edge of the form
var PasswordLink = DependencyLink{Primary: FieldPassword, Dependent: FieldPasswordConfirm}

// onPrimaryValidityChanged propagates a new primary validity to the dependent
func (l DependencyLink) onPrimaryValidityChanged(fm *Form, v Validity) []Request {
	dep := fm.fields[l.Dependent]

	if v != ValidityValid {
		dep.disabled = true
		dep.reset()
		return nil
	}

	dep.disabled = false
	return fm.validate(l.Dependent)
}

// gates reports whether validation of f must wait for its primary
func (l DependencyLink) gates(fm *Form, f Field) bool {
	return f == l.Dependent && fm.fields[l.Primary].validity != ValidityValid
}
