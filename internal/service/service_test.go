package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/perfpredict/internal/backend"
	"github.com/ekisa-team/perfpredict/internal/config"
	"github.com/ekisa-team/perfpredict/internal/envvar"
	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/model"
	"github.com/ekisa-team/perfpredict/internal/profile"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() backend.BackendProvider {
	return backend.BackendProviderForest
}

func (m *MockBackend) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*backend.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	return nil
}

// --- Helpers ---

func newService(t *testing.T, b backend.Backend, features []string) *Performance {
	t.Helper()

	reg := backend.NewRegistry()
	require.NoError(t, reg.Register(b))

	svc, err := NewPerformance(reg, &model.Instance{
		ID:       "test",
		Path:     "/models/forest.json",
		Provider: b.Provider(),
		Status:   model.ModelStatusLoaded,
		Features: features,
	}, metrics.New())
	require.NoError(t, err)

	return svc
}

func collect(t *testing.T, overrides profile.Raw) *profile.Profile {
	t.Helper()

	raw := profile.Defaults()
	for k, v := range overrides {
		raw[k] = v
	}
	p, err := profile.Collect(raw)
	require.NoError(t, err)

	return p
}

func codes(c ...int) *backend.Response {
	return &backend.Response{Codes: c}
}

// --- Tests ---

func TestLabelFor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{2, "Good"},
		{3, "Excellent"},
		{4, "Outstanding"},
		{0, "Unknown"},
		{1, "Unknown"},
		{5, "Unknown"},
		{-1, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.code), "code %d", tt.code)
	}
}

func TestFeatures_Order(t *testing.T) {
	p := collect(t, profile.Raw{
		"EnvironmentSatisfaction":      3,
		"LastSalaryHikePercent":        17,
		"YearsSinceLastPromotion":      2,
		"JobRole":                      7,
		"HourlyRate":                   55,
		"ExperienceYearsInCurrentRole": 4,
		"ExperienceYearsAtThisCompany": 6,
		"Department":                   5,
		"TotalWorkExperienceInYears":   12,
		"YearsWithCurrManager":         3,
		"WorkLifeBalance":              2,
		"NumCompaniesWorked":           8,
		"TrainingTimesLastYear":        1,
		"JobSatisfaction":              4,
		"JobInvolvement":               1,
	})

	want := FeatureVector{55, 1, 7, 5, 3, 17, 2, 3, 4, 8, 1, 12, 6, 4, 2}
	assert.Equal(t, want, Features(p))
	assert.Equal(t, want[:], Features(p).Values())
	assert.Len(t, FeatureNames, FeatureCount)
}

func TestFeatures_DefaultsAreMinimums(t *testing.T) {
	p := collect(t, nil)

	// Enum minimums are the lowest codes, not labels.
	want := FeatureVector{30, 1, 0, 0, 1, 11, 1, 0, 1, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, want, Features(p))
}

func TestFeatures_Deterministic(t *testing.T) {
	p := collect(t, profile.Raw{"HourlyRate": 70, "JobRole": 12})

	assert.Equal(t, Features(p), Features(p))
}

func TestNewPerformance(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		_, err := NewPerformance(backend.NewRegistry(), nil, nil)
		assert.ErrorIs(t, err, model.ErrNotLoaded)
	})

	t.Run("backend missing", func(t *testing.T) {
		_, err := NewPerformance(backend.NewRegistry(), &model.Instance{Provider: backend.BackendProviderForest}, nil)
		assert.ErrorIs(t, err, backend.ErrNotFound)
	})

	t.Run("feature contract mismatch", func(t *testing.T) {
		reg := backend.NewRegistry()
		require.NoError(t, reg.Register(new(MockBackend)))

		swapped := append([]string(nil), FeatureNames...)
		swapped[0], swapped[1] = swapped[1], swapped[0]

		_, err := NewPerformance(reg, &model.Instance{
			Provider: backend.BackendProviderForest,
			Features: swapped,
		}, nil)
		assert.ErrorIs(t, err, ErrFeatureContract)
	})

	t.Run("undescribed features accepted", func(t *testing.T) {
		svc := newService(t, new(MockBackend), nil)
		assert.NotNil(t, svc)
	})
}

func TestPredict_Valid(t *testing.T) {
	b := new(MockBackend)
	svc := newService(t, b, FeatureNames)

	p := collect(t, profile.Raw{
		"ExperienceYearsAtThisCompany": 5,
		"TotalWorkExperienceInYears":   10,
		"YearsWithCurrManager":         3,
	})

	b.On("Infer", mock.Anything, mock.MatchedBy(func(req *backend.Request) bool {
		vec := Features(p)
		return req.ModelPath == "/models/forest.json" &&
			assert.ObjectsAreEqual(FeatureNames, req.FeatureNames) &&
			len(req.Features) == 1 &&
			assert.ObjectsAreEqual(vec.Values(), req.Features[0])
	})).Return(codes(3), nil).Once()

	res, err := svc.Predict(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, &Result{Code: 3, Label: "Excellent"}, res)
	b.AssertExpectations(t)
}

func TestPredict_ValidationSkipsModel(t *testing.T) {
	tests := []struct {
		name string
		raw  profile.Raw
		rule profile.Rule
		msg  string
	}{
		{
			name: "company exceeds total",
			raw:  profile.Raw{"ExperienceYearsAtThisCompany": 10, "TotalWorkExperienceInYears": 5},
			rule: profile.RuleCompanyWithinTotal,
			msg:  profile.MsgCompanyExceedsTotal,
		},
		{
			name: "manager exceeds company",
			raw: profile.Raw{
				"ExperienceYearsAtThisCompany": 4,
				"TotalWorkExperienceInYears":   10,
				"YearsWithCurrManager":         6,
			},
			rule: profile.RuleManagerWithinCompany,
			msg:  profile.MsgManagerExceedsCompany,
		},
		{
			name: "both fail reports first",
			raw: profile.Raw{
				"ExperienceYearsAtThisCompany": 10,
				"TotalWorkExperienceInYears":   5,
				"YearsWithCurrManager":         12,
			},
			rule: profile.RuleCompanyWithinTotal,
			msg:  profile.MsgCompanyExceedsTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBackend)
			svc := newService(t, b, FeatureNames)

			res, err := svc.Predict(context.Background(), collect(t, tt.raw))

			assert.Nil(t, res)
			require.ErrorIs(t, err, profile.ErrValidation)
			var verr *profile.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.rule, verr.Rule)
			assert.Equal(t, tt.msg, err.Error())
			b.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
		})
	}
}

func TestPredict_MapsEveryCode(t *testing.T) {
	for code, want := range map[int]string{2: "Good", 3: "Excellent", 4: "Outstanding", 7: "Unknown"} {
		b := new(MockBackend)
		b.On("Infer", mock.Anything, mock.Anything).Return(codes(code), nil)
		svc := newService(t, b, FeatureNames)

		res, err := svc.Predict(context.Background(), collect(t, nil))

		require.NoError(t, err)
		assert.Equal(t, code, res.Code)
		assert.Equal(t, want, res.Label)
	}
}

func TestPredict_InferenceErrors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *backend.Response
		err     error
		wantErr error
	}{
		{name: "backend error", err: errors.New("boom"), wantErr: ErrInference},
		{name: "no rows", resp: codes(), wantErr: backend.ErrRowCount},
		{name: "too many rows", resp: codes(2, 3), wantErr: backend.ErrRowCount},
		{name: "nil response", wantErr: backend.ErrRowCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBackend)
			b.On("Infer", mock.Anything, mock.Anything).Return(tt.resp, tt.err)
			svc := newService(t, b, FeatureNames)

			res, err := svc.Predict(context.Background(), collect(t, nil))

			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInference)
			assert.ErrorIs(t, err, tt.wantErr)

			var ierr *InferenceError
			require.ErrorAs(t, err, &ierr)
			assert.True(t, ierr.Retryable())
		})
	}
}

func TestPredict_NilProfile(t *testing.T) {
	svc := newService(t, new(MockBackend), FeatureNames)

	_, err := svc.Predict(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilProfile)
}

func TestPredict_WithForestModel(t *testing.T) {
	t.Setenv(envvar.PerfpredictModelPath, "")

	mgr := model.NewManager(backend.NewRegistry())
	instance, err := mgr.Load(context.Background(), config.ModelConfig{
		Path:    "../backend/forest/testdata/forest.yaml",
		Backend: config.BackendTypeForest,
	})
	require.NoError(t, err)

	svc, err := NewPerformance(mgr.Registry(), instance, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  profile.Raw
		want string
	}{
		{
			name: "low hourly rate",
			raw:  profile.Raw{"HourlyRate": 40, "TotalWorkExperienceInYears": 5},
			want: "Good",
		},
		{
			name: "high rate, medium satisfaction",
			raw:  profile.Raw{"HourlyRate": 80, "EnvironmentSatisfaction": 2, "TotalWorkExperienceInYears": 10},
			want: "Excellent",
		},
		{
			name: "high rate, very high satisfaction",
			raw:  profile.Raw{"HourlyRate": 80, "EnvironmentSatisfaction": 4, "TotalWorkExperienceInYears": 3},
			want: "Outstanding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Predict(context.Background(), collect(t, tt.raw))

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Label)
		})
	}
}
