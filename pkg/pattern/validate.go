package pattern

import "fmt"

// ValidateSpec checks that the required fields of a spec are present.
func ValidateSpec(s *Spec) error {
	if s == nil {
		return fmt.Errorf("spec is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}
	if s.Name == "" {
		return fmt.Errorf("pattern %s: name is required", s.ID)
	}
	if s.Pattern == "" {
		return fmt.Errorf("pattern %s: pattern is required", s.ID)
	}
	return nil
}

// CheckExamples verifies that every example yields at least one accepted
// match and that no negative example does.
func CheckExamples(s *Spec) error {
	for _, ex := range s.Examples {
		ok, err := s.hasAcceptedMatch(ex)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pattern %s: example %q does not match", s.ID, ex)
		}
	}
	for _, ex := range s.NegativeExamples {
		ok, err := s.hasAcceptedMatch(ex)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("pattern %s: negative example %q matches", s.ID, ex)
		}
	}
	return nil
}

func (s *Spec) hasAcceptedMatch(text string) (bool, error) {
	m, err := s.re.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = s.re.FindNextMatch(m) {
		if s.Accept(m.String()) {
			return true, nil
		}
	}
	if err != nil {
		return false, fmt.Errorf("pattern %s: %w", s.ID, err)
	}
	return false, nil
}
