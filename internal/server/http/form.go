package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ekisa-team/perfpredict/internal/metrics"
	"github.com/ekisa-team/perfpredict/internal/profile"
	"github.com/ekisa-team/perfpredict/internal/service"
)

//go:embed templates/form.html
var templatesFS embed.FS

// surfaceForm labels input rejections from the HTML form.
const surfaceForm = "form"

type optionView struct {
	Label    string
	Code     int
	Selected bool
}

type fieldView struct {
	Name    string
	Label   string
	Help    string
	Value   string
	Options []optionView
	Min     int
	Max     int
}

type formView struct {
	Result *service.Result
	Error  string
	Fields []fieldView
}

// FormHandler serves the interactive prediction form.
type FormHandler struct {
	predictor Predictor
	metrics   *metrics.Metrics
	tmpl      *template.Template
}

// NewFormHandler parses the form template and registers GET and POST on /.
func NewFormHandler(mux *http.ServeMux, predictor Predictor, m *metrics.Metrics) (*FormHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/form.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse form template: %w", err)
	}

	h := &FormHandler{predictor: predictor, metrics: m, tmpl: tmpl}

	mux.HandleFunc("GET /{$}", h.handleShow)
	mux.HandleFunc("POST /{$}", h.handleSubmit)

	return h, nil
}

func (h *FormHandler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, formView{Fields: fieldViews(url.Values{})})
}

func (h *FormHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, formView{
			Fields: fieldViews(url.Values{}),
			Error:  "The form could not be read.",
		})
		return
	}

	view := formView{Fields: fieldViews(r.PostForm)}

	raw, err := profile.ParseForm(r.PostForm)
	if err != nil {
		h.metrics.ObserveInputRejection(surfaceForm)
		view.Error = inputMessage(err)
		h.render(w, http.StatusUnprocessableEntity, view)
		return
	}

	p, err := profile.Collect(raw)
	if err != nil {
		h.metrics.ObserveInputRejection(surfaceForm)
		view.Error = inputMessage(err)
		h.render(w, http.StatusUnprocessableEntity, view)
		return
	}

	res, err := h.predictor.Predict(r.Context(), p)
	if err != nil {
		var verr *profile.ValidationError
		switch {
		case errors.As(err, &verr):
			view.Error = verr.Message
			h.render(w, http.StatusUnprocessableEntity, view)
		default:
			slog.Error("Prediction failed", "request_id", RequestID(r.Context()), "error", err)
			view.Error = service.MsgInferenceFailed
			h.render(w, http.StatusInternalServerError, view)
		}
		return
	}

	view.Result = res
	h.render(w, http.StatusOK, view)
}

func (h *FormHandler) render(w http.ResponseWriter, status int, view formView) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		slog.Error("Failed to render form", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// fieldViews builds the inputs in display order, echoing submitted values and
// falling back to each field's default.
func fieldViews(values url.Values) []fieldView {
	views := make([]fieldView, 0, len(profile.Fields))

	for _, f := range profile.Fields {
		v := strings.TrimSpace(values.Get(f.Name))
		if v == "" {
			v = strconv.Itoa(f.Default())
		}

		fv := fieldView{
			Name:  f.Name,
			Label: f.Label,
			Help:  f.Help,
			Value: v,
			Min:   f.Min,
			Max:   f.Max,
		}
		if f.IsEnum() {
			for _, o := range f.Catalog.Options() {
				fv.Options = append(fv.Options, optionView{
					Label:    o.Label(),
					Code:     o.Code(),
					Selected: strconv.Itoa(o.Code()) == v,
				})
			}
		}
		views = append(views, fv)
	}

	return views
}

// inputMessage renders an input-layer error with the fields' display labels.
func inputMessage(err error) string {
	var inputErr *profile.InputError
	if !errors.As(err, &inputErr) {
		return err.Error()
	}

	parts := make([]string, 0, len(inputErr.Fields))
	for _, fe := range inputErr.Fields {
		label := fe.Field
		if f, ok := profile.FieldByName(fe.Field); ok {
			label = f.Label
		}
		parts = append(parts, label+" "+fe.Reason+".")
	}

	return strings.Join(parts, " ")
}
