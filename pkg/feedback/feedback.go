package feedback

import "context"

// Score is a single percentage metric.
type Score struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// Metrics is the communication analysis shown on the feedback tab.
type Metrics struct {
	Scores          []Score  `json:"scores"`
	Recommendations []string `json:"recommendations"`
}

// Progress summarises the user's training history.
type Progress struct {
	SessionsCompleted int      `json:"sessions_completed"`
	SessionsTotal     int      `json:"sessions_total"`
	Achievements      []string `json:"achievements"`
}

// Percent returns the completed share of sessions, 0-100.
func (p Progress) Percent() int {
	if p.SessionsTotal <= 0 {
		return 0
	}
	return p.SessionsCompleted * 100 / p.SessionsTotal
}

// Report is everything the session view displays besides the transcript.
type Report struct {
	Metrics   Metrics  `json:"metrics"`
	Progress  Progress `json:"progress"`
	Scenarios []string `json:"scenarios"`
}

// Source fetches the feedback report for the current user.
type Source interface {
	Fetch(ctx context.Context) (*Report, error)
}

// Static returns the same report for every session. It is a placeholder
// until scoring is computed by a backend.
type Static struct{}

// Fetch implements Source.
func (Static) Fetch(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DefaultReport(), nil
}

// DefaultReport returns a fresh copy of the constant report.
func DefaultReport() *Report {
	return &Report{
		Metrics: Metrics{
			Scores: []Score{
				{Label: "Claridad del mensaje", Percent: 78},
				{Label: "Estructura", Percent: 82},
				{Label: "Confianza percibida", Percent: 65},
			},
			Recommendations: []string{
				"Trata de responder con ejemplos más específicos.",
				`Evita usar muletillas como "eh", "um" y "como que".`,
				"Mantén contacto visual más consistente.",
				"Mejora tu tono variando la entonación para enfatizar puntos clave.",
			},
		},
		Progress: Progress{
			SessionsCompleted: 3,
			SessionsTotal:     10,
			Achievements:      []string{"Respuestas claras", "Buen ritmo"},
		},
		Scenarios: []string{
			"Entrevista para desarrollador",
			"Presentación de proyecto",
			"Discurso motivacional",
			"Conversación con cliente",
		},
	}
}

var _ Source = Static{}
