package domain

// FunnelStep é uma etapa do funil definida por um conjunto de eventos equivalentes
type FunnelStep struct {
	Name       string   `json:"name" mapstructure:"name" validate:"required"`
	EventNames []string `json:"event_names" mapstructure:"event_names" validate:"required,min=1,dive,required"`
}

type StepCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StepConversion struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate Percent `json:"rate"`
}

// SegmentFunnel é o funil de um único valor de segmento
type SegmentFunnel struct {
	Steps             []StepCount      `json:"steps"`
	Conversions       []StepConversion `json:"conversions"`
	OverallConversion Percent          `json:"overall_conversion"`
}

// Count retorna a contagem da etapa pelo nome
func (f *SegmentFunnel) Count(step string) int {
	for _, s := range f.Steps {
		if s.Name == step {
			return s.Count
		}
	}
	return 0
}

// FunnelResult contém o funil geral (sempre calculado) e os funis por segmento
type FunnelResult struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	SegmentFunnel
	SegmentBy string                    `json:"segment_by,omitempty"`
	Segments  map[string]*SegmentFunnel `json:"segments,omitempty"`
	Truncated bool                      `json:"truncated"`
	Warnings  []*PartialDataWarning     `json:"warnings,omitempty"`
}

type SegmentCVR struct {
	BaseCount       int     `json:"base_count"`
	ConversionCount int     `json:"conversion_count"`
	CVR             Percent `json:"cvr"`
}

type CVRResult struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	SegmentCVR
	SegmentBy string                 `json:"segment_by,omitempty"`
	Segments  map[string]*SegmentCVR `json:"segments,omitempty"`
	Truncated bool                   `json:"truncated"`
	Warnings  []*PartialDataWarning  `json:"warnings,omitempty"`
}
