package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hrdash/analytics"
	"hrdash/dataset"
	"hrdash/db"
	"hrdash/ml"
	"hrdash/prediction"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var printer = message.NewPrinter(language.English)

// FormatIncome renders an average salary, e.g. "5,500 DH".
func FormatIncome(v float64) string {
	return printer.Sprintf("%.0f DH", v)
}

// FormatRate renders a percentage with one decimal, e.g. "25.0%".
func FormatRate(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"income":  FormatIncome,
		"rate":    FormatRate,
		"number":  func(v float64) string { return printer.Sprintf("%v", v) },
		"percent": func(v float64) string { return printer.Sprintf("%.0f%%", v*100) },
	}
	return template.New("dashboard").Funcs(funcs).ParseFS(webFS, "web/templates/*.html")
}

// fieldControl is one input of the prediction form.
type fieldControl struct {
	ml.FieldSpec
	Categorical bool
	Value       string
	Choices     []string
}

type histogramBar struct {
	analytics.Bin
	Max int
}

type dashboardView struct {
	Options        analytics.FilterOptions
	Report         *analytics.Report
	IncomeBars     []histogramBar
	Fields         []fieldControl
	Outcome        *prediction.Outcome
	Error          string
	History        []prediction.Outcome
	HistoryEnabled bool
	FeedEnabled    bool
}

func (h *handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, nil, nil, "")
}

func (h *handlers) handleDashboardPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, http.StatusBadRequest, nil, nil, "The form could not be read.")
		return
	}
	values := make(map[string]string, len(ml.FeatureNames()))
	for _, name := range ml.FeatureNames() {
		values[name] = r.PostForm.Get(name)
	}

	raw, err := ml.RawFromStrings(values)
	if err == nil {
		var outcome *prediction.Outcome
		outcome, err = h.predictor.Predict(r.Context(), raw)
		if err == nil {
			h.renderDashboard(w, r, http.StatusOK, values, outcome, "")
			return
		}
	}

	status, body := h.predictFailure(r, err)
	h.renderDashboard(w, r, status, values, nil, body.Error)
}

func (h *handlers) renderDashboard(w http.ResponseWriter, r *http.Request, status int, values map[string]string, outcome *prediction.Outcome, errMsg string) {
	ds := h.reporter.Dataset()
	filter, err := parseFilter(r, analytics.DefaultFilter(ds))
	if err != nil {
		filter = analytics.DefaultFilter(ds)
	}
	report := h.reporter.Report(filter)

	view := dashboardView{
		Options:     analytics.Options(ds),
		Report:      report,
		IncomeBars:  bars(report.Income),
		Fields:      h.fieldControls(values),
		Outcome:     outcome,
		Error:       errMsg,
		FeedEnabled: h.feed != nil,
	}
	history, err := h.recent(r.Context(), h.historyLimit)
	switch {
	case err == nil:
		view.History, view.HistoryEnabled = history, true
	case !errors.Is(err, db.ErrHistoryDisabled):
		h.logger.Warn("load prediction history", zap.Error(err))
		view.HistoryEnabled = true
	}

	var buf bytes.Buffer
	if err := h.page.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		h.logger.Error("render dashboard", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// fieldControls builds the prediction form, prefilled with values where given
// and with the defaults otherwise.
func (h *handlers) fieldControls(values map[string]string) []fieldControl {
	enc := h.predictor.Encoder()
	defaults := ml.DefaultInput(enc)
	specs := ml.FieldSpecs()
	controls := make([]fieldControl, 0, len(specs))
	for _, spec := range specs {
		c := fieldControl{FieldSpec: spec, Categorical: spec.Kind == dataset.Categorical}
		if c.Categorical {
			c.Choices = enc.Domain(spec.Name).Labels()
		}
		if v, ok := values[spec.Name]; ok && v != "" {
			c.Value = v
		} else {
			c.Value = formatValue(defaults[spec.Name])
		}
		controls = append(controls, c)
	}
	return controls
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func bars(bins []analytics.Bin) []histogramBar {
	highest := 0
	for _, b := range bins {
		if b.Count > highest {
			highest = b.Count
		}
	}
	out := make([]histogramBar, len(bins))
	for i, b := range bins {
		out[i] = histogramBar{Bin: b, Max: highest}
	}
	return out
}
