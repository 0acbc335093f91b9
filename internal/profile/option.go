package profile

// Option is a closed enum value: a stable integer code used for inference and a
// display label used for presentation.
type Option struct {
	label string
	code  int
}

// Code returns the numeric code fed to the model.
func (o Option) Code() int {
	return o.code
}

// Label returns the human readable label.
func (o Option) Label() string {
	return o.label
}

// Catalog is an ordered, closed set of options.
type Catalog struct {
	name    string
	options []Option
}

func newCatalog(name string, labels map[int]string, order ...int) Catalog {
	c := Catalog{name: name, options: make([]Option, 0, len(order))}
	for _, code := range order {
		c.options = append(c.options, Option{code: code, label: labels[code]})
	}

	return c
}

// Name returns the catalog name.
func (c Catalog) Name() string {
	return c.name
}

// Options returns a copy of the options in display order.
func (c Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)

	return out
}

// Lookup returns the option with the given code.
func (c Catalog) Lookup(code int) (Option, bool) {
	for _, o := range c.options {
		if o.code == code {
			return o, true
		}
	}

	return Option{}, false
}

// MustLookup is Lookup for codes known to exist. It panics otherwise.
func (c Catalog) MustLookup(code int) Option {
	o, ok := c.Lookup(code)
	if !ok {
		panic("profile: unknown " + c.name + " code")
	}

	return o
}

// Min returns the smallest code in the catalog.
func (c Catalog) Min() int {
	m := c.options[0].code
	for _, o := range c.options[1:] {
		m = min(m, o.code)
	}

	return m
}

// Max returns the largest code in the catalog.
func (c Catalog) Max() int {
	m := c.options[0].code
	for _, o := range c.options[1:] {
		m = max(m, o.code)
	}

	return m
}

var (
	// Satisfaction rates environment satisfaction, job satisfaction and job involvement.
	Satisfaction = newCatalog("satisfaction", map[int]string{
		1: "Low",
		2: "Medium",
		3: "High",
		4: "Very High",
	}, 1, 2, 3, 4)

	// WorkLifeBalance rates work-life balance.
	WorkLifeBalance = newCatalog("work-life balance", map[int]string{
		1: "Bad",
		2: "Good",
		3: "Better",
		4: "Best",
	}, 1, 2, 3, 4)

	// JobRoles holds the label-encoded job roles the model was trained on.
	JobRoles = newCatalog("job role", map[int]string{
		0:  "Sales Executive",
		1:  "Manager",
		2:  "Developer",
		3:  "Sales Representative",
		4:  "Human Resources",
		5:  "Senior Developer",
		6:  "Data Scientist",
		7:  "Senior Manager R&D",
		8:  "Laboratory Technician",
		9:  "Manufacturing Director",
		10: "Research Scientist",
		11: "Healthcare Representative",
		12: "Research Director",
		13: "Manager R&D",
		14: "Finance Manager",
		15: "Technical Architect",
		16: "Business Analyst",
		17: "Technical Lead",
		18: "Delivery Manager",
	}, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18)

	// Departments holds the label-encoded departments the model was trained on.
	Departments = newCatalog("department", map[int]string{
		0: "Sales",
		1: "Human Resources",
		2: "Development",
		3: "Data Science",
		4: "Research & Development",
		5: "Finance",
	}, 0, 1, 2, 3, 4, 5)
)
