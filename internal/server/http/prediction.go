package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/profile"
	"github.com/ekisa-team/perfpredict/internal/service"
)

// surfaceAPI labels input rejections from the JSON API.
const surfaceAPI = "api"

type (
	PredictionRequestDTO struct {
		EnvironmentSatisfaction      int `json:"environment_satisfaction" minimum:"1" maximum:"4" doc:"1 Low, 2 Medium, 3 High, 4 Very High"`
		LastSalaryHikePercent        int `json:"last_salary_hike_percent" minimum:"11" maximum:"25"`
		YearsSinceLastPromotion      int `json:"years_since_last_promotion" minimum:"0" maximum:"15"`
		JobRole                      int `json:"job_role" minimum:"0" maximum:"18" doc:"Encoded job role, see /api/v1/options"`
		HourlyRate                   int `json:"hourly_rate" minimum:"30" maximum:"100"`
		ExperienceYearsInCurrentRole int `json:"experience_years_in_current_role" minimum:"0" maximum:"18"`
		ExperienceYearsAtThisCompany int `json:"experience_years_at_this_company" minimum:"0" maximum:"40"`
		Department                   int `json:"department" minimum:"0" maximum:"5" doc:"Encoded department, see /api/v1/options"`
		TotalWorkExperienceInYears   int `json:"total_work_experience_in_years" minimum:"0" maximum:"40"`
		YearsWithCurrManager         int `json:"years_with_curr_manager" minimum:"0" maximum:"17"`
		WorkLifeBalance              int `json:"work_life_balance" minimum:"1" maximum:"4" doc:"1 Bad, 2 Good, 3 Better, 4 Best"`
		NumCompaniesWorked           int `json:"num_companies_worked" minimum:"0" maximum:"9"`
		TrainingTimesLastYear        int `json:"training_times_last_year" minimum:"0" maximum:"6"`
		JobSatisfaction              int `json:"job_satisfaction" minimum:"1" maximum:"4" doc:"1 Low, 2 Medium, 3 High, 4 Very High"`
		JobInvolvement               int `json:"job_involvement" minimum:"1" maximum:"4" doc:"1 Low, 2 Medium, 3 High, 4 Very High"`
	}

	PredictionResponseDTO struct {
		Code    int    `json:"code" doc:"Class code returned by the model"`
		Label   string `json:"label" doc:"Performance rating, or Unknown for unmapped codes"`
		Message string `json:"message"`
		ModelID string `json:"model_id"`
	}

	OptionDTO struct {
		Code  int    `json:"code"`
		Label string `json:"label"`
	}

	FieldDTO struct {
		Name    string      `json:"name"`
		Label   string      `json:"label"`
		Help    string      `json:"help,omitempty"`
		Min     int         `json:"min"`
		Max     int         `json:"max"`
		Default int         `json:"default"`
		Options []OptionDTO `json:"options,omitempty"`
	}
)

type (
	PredictionInput struct {
		Body PredictionRequestDTO
	}

	PredictionOutput struct {
		Body PredictionResponseDTO
	}

	OptionsOutput struct {
		Body struct {
			Fields []FieldDTO `json:"fields"`
		}
	}
)

// raw maps the request onto form state keyed by field name.
func (d PredictionRequestDTO) raw() profile.Raw {
	return profile.Raw{
		"EnvironmentSatisfaction":      d.EnvironmentSatisfaction,
		"LastSalaryHikePercent":        d.LastSalaryHikePercent,
		"YearsSinceLastPromotion":      d.YearsSinceLastPromotion,
		"JobRole":                      d.JobRole,
		"HourlyRate":                   d.HourlyRate,
		"ExperienceYearsInCurrentRole": d.ExperienceYearsInCurrentRole,
		"ExperienceYearsAtThisCompany": d.ExperienceYearsAtThisCompany,
		"Department":                   d.Department,
		"TotalWorkExperienceInYears":   d.TotalWorkExperienceInYears,
		"YearsWithCurrManager":         d.YearsWithCurrManager,
		"WorkLifeBalance":              d.WorkLifeBalance,
		"NumCompaniesWorked":           d.NumCompaniesWorked,
		"TrainingTimesLastYear":        d.TrainingTimesLastYear,
		"JobSatisfaction":              d.JobSatisfaction,
		"JobInvolvement":               d.JobInvolvement,
	}
}

// PredictionHandler handles the JSON prediction API.
type PredictionHandler struct {
	predictor Predictor
	metrics   *metrics.Metrics
}

// NewPredictionHandler registers the prediction operations on api.
func NewPredictionHandler(api huma.API, predictor Predictor, m *metrics.Metrics) *PredictionHandler {
	h := &PredictionHandler{predictor: predictor, metrics: m}

	huma.Register(api, huma.Operation{
		OperationID:   "create-prediction",
		Method:        http.MethodPost,
		Path:          "/api/v1/predictions",
		Summary:       "Predict an employee's performance rating",
		Tags:          []string{"predictions"},
		DefaultStatus: http.StatusOK,
	}, h.handlePredict)

	huma.Register(api, huma.Operation{
		OperationID: "list-options",
		Method:      http.MethodGet,
		Path:        "/api/v1/options",
		Summary:     "List the input fields with their bounds and options",
		Tags:        []string{"predictions"},
	}, h.handleOptions)

	return h
}

// handlePredict handles the create-prediction operation.
func (h *PredictionHandler) handlePredict(ctx context.Context, input *PredictionInput) (*PredictionOutput, error) {
	p, err := profile.Collect(input.Body.raw())
	if err != nil {
		var inputErr *profile.InputError
		if errors.As(err, &inputErr) {
			h.metrics.ObserveInputRejection(surfaceAPI)
			return nil, huma.Error422UnprocessableEntity("invalid employee input", fieldDetails(inputErr)...)
		}
		return nil, huma.Error500InternalServerError("failed to read employee input", err)
	}

	res, err := h.predictor.Predict(ctx, p)
	if err != nil {
		var verr *profile.ValidationError
		switch {
		case errors.As(err, &verr):
			return nil, huma.Error422UnprocessableEntity(verr.Message, &huma.ErrorDetail{
				Message:  string(verr.Rule),
				Location: "body",
			})
		case errors.Is(err, service.ErrInference):
			return nil, huma.Error500InternalServerError(service.MsgInferenceFailed)
		default:
			return nil, huma.Error500InternalServerError("failed to predict", err)
		}
	}

	return &PredictionOutput{
		Body: PredictionResponseDTO{
			Code:    res.Code,
			Label:   res.Label,
			Message: fmt.Sprintf("The predicted employee performance is %s", res.Label),
			ModelID: h.predictor.Model().ID,
		},
	}, nil
}

// handleOptions handles the list-options operation.
func (h *PredictionHandler) handleOptions(_ context.Context, _ *struct{}) (*OptionsOutput, error) {
	out := &OptionsOutput{}
	out.Body.Fields = make([]FieldDTO, 0, len(profile.Fields))

	for _, f := range profile.Fields {
		dto := FieldDTO{
			Name:    f.Name,
			Label:   f.Label,
			Help:    f.Help,
			Min:     f.Min,
			Max:     f.Max,
			Default: f.Default(),
		}
		if f.IsEnum() {
			for _, o := range f.Catalog.Options() {
				dto.Options = append(dto.Options, OptionDTO{Code: o.Code(), Label: o.Label()})
			}
		}
		out.Body.Fields = append(out.Body.Fields, dto)
	}

	return out, nil
}

func fieldDetails(e *profile.InputError) []error {
	details := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		details = append(details, &huma.ErrorDetail{
			Message:  f.Reason,
			Location: "body." + f.Field,
			Value:    f.Value,
		})
	}

	return details
}
