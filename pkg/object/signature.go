package object

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature identifies who made a commit and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// NewSignature stamps name and email with the current local time.
func NewSignature(name, email string) Signature {
	return Signature{Name: name, Email: email, When: time.Now()}
}

// String renders "<name> <<email>> <unix> <±HHMM>" without a role prefix.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), formatOffset(s.When))
}

// Validate reports whether s survives a marshal and parse unchanged.
func (s Signature) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	return ValidateEmail(s.Email)
}

// ValidateName rejects names that are empty, padded with whitespace, or
// contain angle brackets or control characters.
func ValidateName(name string) error {
	if name == "" || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: name %q is empty or padded", ErrInvalidSignature, name)
	}
	return checkSignatureField("name", name)
}

// ValidateEmail rejects emails containing angle brackets or control
// characters. An empty email is allowed.
func ValidateEmail(email string) error {
	return checkSignatureField("email", email)
}

func checkSignatureField(field, v string) error {
	for _, c := range v {
		if c == '<' || c == '>' || c < 0x20 || c == 0x7f {
			return fmt.Errorf("%w: %s %q contains %q", ErrInvalidSignature, field, v, c)
		}
	}
	return nil
}

func (s Signature) marshal(role string) string {
	return role + " " + s.String()
}

// parseSignature parses a line such as
//
//	author Jane Doe <jane@example.com> 1700000000 +0100
//
// and checks the role token. Names may contain spaces.
func parseSignature(role, line string) (Signature, error) {
	rest, ok := strings.CutPrefix(line, role+" ")
	if !ok {
		return Signature{}, fmt.Errorf("missing %q role", role)
	}

	lt := strings.IndexByte(rest, '<')
	gt := strings.LastIndexByte(rest, '>')
	if lt < 0 || gt < lt {
		return Signature{}, fmt.Errorf("malformed email in %q", line)
	}
	name := strings.TrimSpace(rest[:lt])
	if name == "" {
		return Signature{}, fmt.Errorf("missing name in %q", line)
	}
	email := rest[lt+1 : gt]

	fields := strings.Fields(rest[gt+1:])
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("missing timestamp or offset in %q", line)
	}
	unix, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("bad timestamp %q", fields[0])
	}
	offset, err := parseOffset(fields[1])
	if err != nil {
		return Signature{}, err
	}

	return Signature{
		Name:  name,
		Email: email,
		When:  time.Unix(unix, 0).In(time.FixedZone("", offset)),
	}, nil
}

func formatOffset(t time.Time) string {
	_, secs := t.Zone()
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	mins := secs / 60
	return fmt.Sprintf("%c%02d%02d", sign, mins/60, mins%60)
}

func parseOffset(s string) (int, error) {
	if len(s) != 5 {
		return 0, fmt.Errorf("bad offset %q", s)
	}
	var sign int
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("bad offset sign in %q", s)
	}
	hours, err := strconv.Atoi(s[1:3])
	if err != nil {
		return 0, fmt.Errorf("bad offset hours in %q", s)
	}
	mins, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("bad offset minutes in %q", s)
	}
	return sign * (hours*3600 + mins*60), nil
}
