package profile

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile is a single employee's attributes as collected from the form. It is
// request-scoped: build a fresh one for every submission.
type Profile struct {
	EnvironmentSatisfaction      Option `validate:"min=1,max=4"`
	JobRole                      Option `validate:"min=0,max=18"`
	Department                   Option `validate:"min=0,max=5"`
	WorkLifeBalance              Option `validate:"min=1,max=4"`
	JobSatisfaction              Option `validate:"min=1,max=4"`
	JobInvolvement               Option `validate:"min=1,max=4"`
	LastSalaryHikePercent        int    `validate:"min=11,max=25"`
	YearsSinceLastPromotion      int    `validate:"min=0,max=15"`
	HourlyRate                   int    `validate:"min=30,max=100"`
	ExperienceYearsInCurrentRole int    `validate:"min=0,max=18"`
	ExperienceYearsAtThisCompany int    `validate:"min=0,max=40"`
	TotalWorkExperienceInYears   int    `validate:"min=0,max=40"`
	YearsWithCurrManager         int    `validate:"min=0,max=17"`
	NumCompaniesWorked           int    `validate:"min=0,max=9"`
	TrainingTimesLastYear        int    `validate:"min=0,max=6"`
}

// Raw is untyped form state: field name to integer value (option code for enums).
type Raw map[string]int

// Defaults returns the form state before the user touches any input.
func Defaults() Raw {
	raw := make(Raw, len(Fields))
	for _, f := range Fields {
		raw[f.Name] = f.Default()
	}

	return raw
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if o, ok := field.Interface().(Option); ok {
			return o.Code()
		}
		return nil
	}, Option{})

	return v
}

// Collect turns raw form state into a Profile. Missing fields take their default.
// Unknown fields, unknown option codes and out-of-bound numbers are rejected with
// an *InputError. Cross-field rules are not checked here; see Validate.
func Collect(raw Raw) (*Profile, error) {
	inputErr := &InputError{}

	unknown := make([]string, 0)
	for name := range raw {
		if _, ok := FieldByName(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		inputErr.add(name, strconv.Itoa(raw[name]), "is not a known field")
	}

	p := &Profile{}
	for _, f := range Fields {
		v, ok := raw[f.Name]
		if !ok {
			v = f.Default()
		}

		if !f.IsEnum() {
			*f.numeric(p) = v
			continue
		}

		o, ok := f.Catalog.Lookup(v)
		if !ok {
			inputErr.add(f.Name, strconv.Itoa(v), fmt.Sprintf("is not a valid %s option", f.Catalog.Name()))
			continue
		}
		*f.enum(p) = o
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("profile: validate bounds: %w", err)
		}
		for _, fe := range verrs {
			if hasFieldError(inputErr, fe.Field()) {
				continue
			}
			inputErr.add(fe.Field(), fmt.Sprint(fe.Value()), boundReason(fe))
		}
	}

	if len(inputErr.Fields) > 0 {
		return nil, inputErr
	}

	return p, nil
}

func hasFieldError(e *InputError, field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}

	return false
}

func boundReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// ParseForm reads the employee fields from submitted form values. Blank inputs
// are left out so Collect applies the default. Non-integer text is an input error.
func ParseForm(values url.Values) (Raw, error) {
	raw := make(Raw, len(Fields))
	inputErr := &InputError{}

	for _, f := range Fields {
		s := strings.TrimSpace(values.Get(f.Name))
		if s == "" {
			continue
		}

		v, err := strconv.Atoi(s)
		if err != nil {
			inputErr.add(f.Name, s, "must be a whole number")
			continue
		}
		raw[f.Name] = v
	}

	if len(inputErr.Fields) > 0 {
		return raw, inputErr
	}

	return raw, nil
}

// Raw returns the profile as form state.
func (p *Profile) Raw() Raw {
	raw := make(Raw, len(Fields))
	for _, f := range Fields {
		raw[f.Name] = f.Value(p)
	}

	return raw
}

type rule struct {
	violated func(*Profile) bool
	id       Rule
	message  string
}

// rules are checked in order; the first failure is reported.
var rules = []rule{
	{
		id:      RuleCompanyWithinTotal,
		message: MsgCompanyExceedsTotal,
		violated: func(p *Profile) bool {
			return p.ExperienceYearsAtThisCompany > p.TotalWorkExperienceInYears
		},
	},
	{
		id:      RuleManagerWithinCompany,
		message: MsgManagerExceedsCompany,
		violated: func(p *Profile) bool {
			return p.YearsWithCurrManager > p.ExperienceYearsAtThisCompany
		},
	},
}

// Validate applies the cross-field rules in order and returns a *ValidationError
// for the first one that fails.
func (p *Profile) Validate() error {
	for _, r := range rules {
		if r.violated(p) {
			return &ValidationError{Rule: r.id, Message: r.message}
		}
	}

	return nil
}

// Violations returns every failing cross-field rule, in rule order.
func (p *Profile) Violations() []*ValidationError {
	var out []*ValidationError
	for _, r := range rules {
		if r.violated(p) {
			out = append(out, &ValidationError{Rule: r.id, Message: r.message})
		}
	}

	return out
}
