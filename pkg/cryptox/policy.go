package cryptox

// Violation is a machine-readable password policy failure reason.
type Violation string

const (
	ViolationTooShort    Violation = "too_short"
	ViolationNoLowercase Violation = "missing_lowercase"
	ViolationNoUppercase Violation = "missing_uppercase"
	ViolationNoDigit     Violation = "missing_digit"
	ViolationNoSymbol    Violation = "missing_symbol"
)

// PolicyResult reports whether a candidate password satisfies the policy.
// Violations preserves the order the rules are checked in.
type PolicyResult struct {
	Valid      bool
	Violations []Violation
}

// PasswordPolicy is a stateless strength validator applied when credentials
// are set, never at verification time.
type PasswordPolicy struct {
	MinLength int
}

// DefaultPasswordPolicy requires 12+ characters drawn from all four classes.
var DefaultPasswordPolicy = PasswordPolicy{MinLength: 12}

// Validate checks every rule independently and collects all violations
// rather than short-circuiting on the first failure.
func (p PasswordPolicy) Validate(candidate string) PolicyResult {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = DefaultPasswordPolicy.MinLength
	}

	var violations []Violation

	if len(candidate) < minLength {
		violations = append(violations, ViolationTooShort)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range candidate {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, ViolationNoLowercase)
	}
	if !hasUpper {
		violations = append(violations, ViolationNoUppercase)
	}
	if !hasDigit {
		violations = append(violations, ViolationNoDigit)
	}
	if !hasSymbol {
		violations = append(violations, ViolationNoSymbol)
	}

	return PolicyResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}
