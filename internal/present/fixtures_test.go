package present

import "github.com/ppiankov/assay/internal/model"

func singleReport() *model.Report {
	return &model.Report{
		ContentType: "News Article",
		Validity:    model.GradedAssessment{Grade: "B", Label: "Somewhat Reliable", Explanation: "Mostly sound."},
		Components: model.Components{
			ResearchEvidence: model.GradedAssessment{Grade: "B+", Explanation: "RCT."},
			ArticleAccuracy:  model.GradedAssessment{Grade: "B-", Explanation: "Overstated headline."},
			BroaderContext:   model.GradedAssessment{Grade: "C+", Explanation: "Missing prior trials."},
		},
		Source: model.Source{
			Publication: "Daily Health Wire",
			Date:        "2024-03-18",
			Provenance: model.ResearchProvenance{
				Kind:          model.KindSingle,
				Citation:      "Okafor et al. (2024)",
				DOI:           "10.1016/x.2024.1",
				Accessibility: model.AccessPaywalled,
			},
		},
		Takeaways: model.Takeaways{BottomLine: "Modest effect.", ContextForReaders: "Short trial.", PracticalSignificance: "Discuss with a doctor."},
		Claims: []model.ClaimAssessment{
			{Text: "Fasting reverses prediabetes", Rating: model.RatingMisleading, EvidenceQuality: "Moderate", Explanation: "Most stayed prediabetic."},
		},
		Context: model.ScientificContext{
			Kind:            model.KindSingle,
			ResearchSummary: "A 12-week RCT.",
			Limitations:     "Short follow-up.",
			SampleSize:      "1,200",
		},
		Resources: []model.Resource{
			{Title: "Trial paper", URL: "https://doi.org/10.1016/x.2024.1"},
			{Title: "Someone's take", URL: "https://www.example-blog.net/post"},
		},
		AnalysisDate: "2024-03-20",
	}
}

func multipleReport() *model.Report {
	r := singleReport()
	r.Source.Provenance = model.ResearchProvenance{
		Kind:  model.KindMultiple,
		Count: 5,
		Papers: []model.Paper{
			{Citation: "Lee et al. (2021)", Accessibility: model.AccessOpen},
			{Citation: "Sato et al. (2023)", Accessibility: model.AccessUnknown},
		},
		Elided: true,
	}
	r.Context = model.ScientificContext{
		Kind:               model.KindMultiple,
		ConsensusStatement: "Consistent association.",
		StrengthOfEvidence: "Moderate.",
		AreasOfUncertainty: "Intensity.",
	}
	return r
}
