package condition

import "strings"

// Inclusion renders "(field contains 'v1' or field contains 'v2' ...)".
// Empty/blank values are filtered at construction. An Inclusion with exactly
// one surviving value renders unwrapped (no outer parentheses); an
// Inclusion with zero surviving values renders to the empty string and
// IsEmpty reports true.
type Inclusion struct {
	Field  string
	Values []string
}

// NewInclusion validates field and filters blank values.
func NewInclusion(field string, values []string) (*Inclusion, error) {
	if err := ValidateFieldName(field); err != nil {
		return nil, err
	}
	return &Inclusion{Field: field, Values: nonBlank(values)}, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Inclusion) IsEmpty() bool {
	return len(c.Values) == 0
}

func (c *Inclusion) Render() string {
	if c.IsEmpty() {
		return ""
	}
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = c.Field + " contains '" + EscapeValue(v) + "'"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// Exclusion renders "!(docId contains 'id1' or ...)". Empty/blank ids are
// filtered at construction; an Exclusion with zero surviving ids renders to
// the empty string and IsEmpty reports true.
type Exclusion struct {
	DocIDs []string
}

// NewExclusion filters blank document ids.
func NewExclusion(docIDs []string) *Exclusion {
	return &Exclusion{DocIDs: nonBlank(docIDs)}
}

func (c *Exclusion) IsEmpty() bool {
	return len(c.DocIDs) == 0
}

func (c *Exclusion) Render() string {
	if c.IsEmpty() {
		return ""
	}
	parts := make([]string, len(c.DocIDs))
	for i, id := range c.DocIDs {
		parts[i] = "docId contains '" + EscapeValue(id) + "'"
	}
	if len(parts) == 1 {
		return "!(" + parts[0] + ")"
	}
	return "!(" + strings.Join(parts, " or ") + ")"
}
