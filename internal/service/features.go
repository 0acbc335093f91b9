package service

import "github.com/ekisa-team/perfpredict/internal/profile"

// FeatureCount is the width of the model's input row.
const FeatureCount = 15

// FeatureVector is one model input row in training-column order.
type FeatureVector [FeatureCount]float64

// FeatureNames are the training column names, index-aligned with FeatureVector.
var FeatureNames = []string{
	"EmpHourlyRate",
	"EmpJobInvolvement",
	"EmpJobRole_encoded",
	"EmpDepartment_encoded",
	"EmpEnvironmentSatisfaction",
	"EmpLastSalaryHikePercent",
	"EmpWorkLifeBalance",
	"YearsWithCurrManager",
	"EmpJobSatisfaction",
	"NumCompaniesWorked",
	"TrainingTimesLastYear",
	"TotalWorkExperienceInYears",
	"ExperienceYearsAtThisCompany",
	"ExperienceYearsInCurrentRole",
	"YearsSinceLastPromotion",
}

// Features assembles the model input for p. The order is the model contract and
// differs from the form's display order; enum fields contribute their codes.
func Features(p *profile.Profile) FeatureVector {
	return FeatureVector{
		float64(p.HourlyRate),
		float64(p.JobInvolvement.Code()),
		float64(p.JobRole.Code()),
		float64(p.Department.Code()),
		float64(p.EnvironmentSatisfaction.Code()),
		float64(p.LastSalaryHikePercent),
		float64(p.WorkLifeBalance.Code()),
		float64(p.YearsWithCurrManager),
		float64(p.JobSatisfaction.Code()),
		float64(p.NumCompaniesWorked),
		float64(p.TrainingTimesLastYear),
		float64(p.TotalWorkExperienceInYears),
		float64(p.ExperienceYearsAtThisCompany),
		float64(p.ExperienceYearsInCurrentRole),
		float64(p.YearsSinceLastPromotion),
	}
}

// Values returns the vector as a slice.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])

	return out
}
