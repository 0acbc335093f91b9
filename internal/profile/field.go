package profile

// Field describes one input of the employee form: its bounds, its default and,
// for enum fields, the catalog it selects from.
type Field struct {
	numeric func(*Profile) *int
	enum    func(*Profile) *Option
	Catalog *Catalog
	Name    string
	Label   string
	Help    string
	Min     int
	Max     int
}

// IsEnum reports whether the field is a single-select of catalog options.
func (f Field) IsEnum() bool {
	return f.Catalog != nil
}

// Default returns the value the input starts with: the lower bound for numbers,
// the first option for selects.
func (f Field) Default() int {
	if f.IsEnum() {
		return f.Catalog.options[0].code
	}

	return f.Min
}

// Value reads the field's numeric value (the option code for enums) from p.
func (f Field) Value(p *Profile) int {
	if f.IsEnum() {
		return f.enum(p).Code()
	}

	return *f.numeric(p)
}

func numberField(name, label, help string, lo, hi int, ref func(*Profile) *int) Field {
	return Field{Name: name, Label: label, Help: help, Min: lo, Max: hi, numeric: ref}
}

func enumField(name, label, help string, c *Catalog, ref func(*Profile) *Option) Field {
	return Field{Name: name, Label: label, Help: help, Min: c.Min(), Max: c.Max(), Catalog: c, enum: ref}
}

// Fields lists every form input in display order.
var Fields = []Field{
	enumField("EnvironmentSatisfaction", "Employee Environment Satisfaction Level",
		"Rate satisfaction: 1 (Low), 2 (Medium), 3 (High), 4 (Very High)",
		&Satisfaction, func(p *Profile) *Option { return &p.EnvironmentSatisfaction }),
	numberField("LastSalaryHikePercent", "Employee Last Salary Hike Percentage",
		"Enter a percentage between 11 and 25", 11, 25,
		func(p *Profile) *int { return &p.LastSalaryHikePercent }),
	numberField("YearsSinceLastPromotion", "Years Since Last Promotion",
		"Enter a value between 0 and 15", 0, 15,
		func(p *Profile) *int { return &p.YearsSinceLastPromotion }),
	enumField("JobRole", "Employee Job Role", "",
		&JobRoles, func(p *Profile) *Option { return &p.JobRole }),
	numberField("HourlyRate", "Employee Hourly Rate",
		"Enter a value between 30 and 100", 30, 100,
		func(p *Profile) *int { return &p.HourlyRate }),
	numberField("ExperienceYearsInCurrentRole", "Experience in Current Role (Years)",
		"Enter a value between 0 and 18", 0, 18,
		func(p *Profile) *int { return &p.ExperienceYearsInCurrentRole }),
	numberField("ExperienceYearsAtThisCompany", "Experience at This Company (Years)",
		"Enter a value between 0 and 40", 0, 40,
		func(p *Profile) *int { return &p.ExperienceYearsAtThisCompany }),
	enumField("Department", "Employee Department", "",
		&Departments, func(p *Profile) *Option { return &p.Department }),
	numberField("TotalWorkExperienceInYears", "Total Work Experience (Years)",
		"Enter a value between 0 and 40", 0, 40,
		func(p *Profile) *int { return &p.TotalWorkExperienceInYears }),
	numberField("YearsWithCurrManager", "Years with Current Manager",
		"Enter a value between 0 and 17", 0, 17,
		func(p *Profile) *int { return &p.YearsWithCurrManager }),
	enumField("WorkLifeBalance", "Work-Life Balance",
		"Rate work-life balance: 1 (Bad), 2 (Good), 3 (Better), 4 (Best)",
		&WorkLifeBalance, func(p *Profile) *Option { return &p.WorkLifeBalance }),
	numberField("NumCompaniesWorked", "Number of Companies Worked",
		"Enter a value between 0 and 9", 0, 9,
		func(p *Profile) *int { return &p.NumCompaniesWorked }),
	numberField("TrainingTimesLastYear", "Number of Trainings Attended Last Year",
		"Enter a value between 0 and 6", 0, 6,
		func(p *Profile) *int { return &p.TrainingTimesLastYear }),
	enumField("JobSatisfaction", "Employee Job Satisfaction",
		"Rate job satisfaction: 1 (Low), 2 (Medium), 3 (High), 4 (Very High)",
		&Satisfaction, func(p *Profile) *Option { return &p.JobSatisfaction }),
	enumField("JobInvolvement", "Employee Job Involvement",
		"Rate job involvement: 1 (Low), 2 (Medium), 3 (High), 4 (Very High)",
		&Satisfaction, func(p *Profile) *Option { return &p.JobInvolvement }),
}

// FieldByName returns the field with the given name.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}
