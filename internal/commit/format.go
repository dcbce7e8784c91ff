package commit

import "strings"

const placeholderSubject = "commit message"

// Format renders "type(scope1,scope2): commit message", omitting the
// parentheses when there are no scopes.
func (t *Table) Format(hint string, scopes []string) (string, error) {
	typ, err := t.Lookup(hint)
	if err != nil {
		return "", err
	}
	return Header(typ, scopes) + " " + placeholderSubject, nil
}

// Format uses the builtin table.
func Format(hint string, scopes []string) (string, error) {
	return DefaultTable().Format(hint, scopes)
}

// Header renders "type(scopes):" or "type:".
func Header(typ string, scopes []string) string {
	if len(scopes) == 0 {
		return typ + ":"
	}
	return typ + "(" + strings.Join(scopes, ",") + "):"
}
