package models

// KPITier is the grade a KPI value reaches
type KPITier string

const (
	TierExcellent  KPITier = "excellent"
	TierGood       KPITier = "good"
	TierAcceptable KPITier = "acceptable"
	TierBelow      KPITier = "below"
	TierUnscored   KPITier = "unscored"
)

var tierScores = map[KPITier]float64{
	TierExcellent:  1.0,
	TierGood:       0.75,
	TierAcceptable: 0.5,
	TierBelow:      0.25,
}

// Tier grades the KPI against its thresholds. KPIs trending down are
// "lower is better" and compare inverted.
func (k *KPIItem) Tier() KPITier {
	value, ok := k.Value.Float()
	if !ok {
		return TierUnscored
	}

	lowerIsBetter := k.Trend == TrendDown
	reaches := func(bound float64) bool {
		if lowerIsBetter {
			return value <= bound
		}
		return value >= bound
	}

	switch {
	case reaches(k.Threshold.Excellent):
		return TierExcellent
	case reaches(k.Threshold.Good):
		return TierGood
	case reaches(k.Threshold.Acceptable):
		return TierAcceptable
	default:
		return TierBelow
	}
}

// Score returns the tier score in [0.25, 1]; ok is false for text KPIs
func (k *KPIItem) Score() (float64, bool) {
	score, ok := tierScores[k.Tier()]
	return score, ok
}

// KPIScore returns the weight-normalized KPI score in [0, 1].
// ok is false when no KPI could be scored.
func (p *Project) KPIScore() (float64, bool) {
	totalWeight := 0.0
	weighted := 0.0

	for i := range p.Metrics.KPIs {
		kpi := &p.Metrics.KPIs[i]
		score, ok := kpi.Score()
		if !ok || kpi.Weight <= 0 {
			continue
		}
		totalWeight += kpi.Weight
		weighted += score * kpi.Weight
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weighted / totalWeight, true
}
